package report

import (
	"fmt"
	"regexp"
	"strings"

	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
)

// unityParser recognizes the Unity test framework's line protocol:
// "file:line:test:FAIL: message" per failing assertion and a
// "N Tests M Failures K Ignored" tally before the OK/FAIL verdict.
type unityParser struct{}

var (
	unityFailRe    = regexp.MustCompile(`(?m)^(.+?):(\d+):(\w+):FAIL:?[ \t]*(.*)$`)
	unitySummaryRe = regexp.MustCompile(`(?m)^\d+ Tests \d+ Failures \d+ Ignored$`)
)

func (unityParser) Language() language.Language { return language.C }

func (unityParser) Parse(raw execution.RawResult) execution.Outcome {
	if raw.ExitCode == 0 {
		summary := unitySummaryRe.FindString(raw.Stdout)
		if summary == "" {
			summary = "All tests passed."
		}
		return execution.Outcome{
			Status:   execution.StatusPass,
			Summary:  summary,
			Failures: []execution.FailureDetail{},
		}
	}

	failures := unityFailures(raw.Stdout)

	summary := unitySummaryRe.FindString(raw.Stdout)
	if summary == "" {
		switch {
		case len(failures) > 0:
			summary = fmt.Sprintf("%d test(s) failed", len(failures))
		case strings.TrimSpace(raw.Stderr) != "":
			// The runner died before printing results, most likely a crash
			// inside the code under test.
			summary = "Test run aborted before producing results:\n" + strings.TrimSpace(raw.Stderr)
		default:
			summary = fmt.Sprintf("Test runner exited with code %d without producing results.", raw.ExitCode)
		}
	}

	return execution.Outcome{
		Status:   execution.StatusFail,
		Summary:  summary,
		Failures: failures,
	}
}

func unityFailures(stdout string) []execution.FailureDetail {
	matches := unityFailRe.FindAllStringSubmatch(stdout, -1)
	failures := make([]execution.FailureDetail, 0, len(matches))

	for _, m := range matches {
		message := strings.TrimSpace(m[4])
		if message == "" {
			message = "test failed"
		}
		failures = append(failures, execution.FailureDetail{
			TestName:     m[3],
			ErrorMessage: message,
			Traceback:    strings.TrimSpace(m[0]),
		})
	}

	return failures
}
