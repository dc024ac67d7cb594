package report

import (
	"fmt"
	"regexp"
	"strings"

	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
)

// gotestParser recognizes verbose "go test" output: "--- FAIL: name" blocks
// with indented "file.go:NN: message" lines and the trailing PASS/FAIL
// verdict.
type gotestParser struct{}

var gotestErrRe = regexp.MustCompile(`^\S+\.go:\d+:\s*(.*)$`)

func (gotestParser) Language() language.Language { return language.Go }

func (gotestParser) Parse(raw execution.RawResult) execution.Outcome {
	if raw.ExitCode == 0 {
		summary := "All tests passed."
		if line := lastLine(raw.Stdout); line == "PASS" || strings.HasPrefix(line, "ok") {
			summary = line
		}
		return execution.Outcome{
			Status:   execution.StatusPass,
			Summary:  summary,
			Failures: []execution.FailureDetail{},
		}
	}

	failures := gotestFailures(raw.Stdout)

	var summary string
	switch {
	case len(failures) > 0:
		summary = fmt.Sprintf("%d test(s) failed", len(failures))
	case strings.TrimSpace(raw.Stderr) != "":
		summary = "Test run aborted before producing results:\n" + strings.TrimSpace(raw.Stderr)
	default:
		summary = fmt.Sprintf("Test runner exited with code %d without producing results.", raw.ExitCode)
	}

	return execution.Outcome{
		Status:   execution.StatusFail,
		Summary:  summary,
		Failures: failures,
	}
}

// gotestFailures collects one block per "--- FAIL:" line. Test log output
// lands between the test's "=== RUN" marker and its verdict, so the block
// spans from the matching marker through the lines trailing the verdict, up
// to the next marker.
func gotestFailures(stdout string) []execution.FailureDetail {
	lines := strings.Split(stdout, "\n")
	runStart := map[string]int{}
	var failures []execution.FailureDetail

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		if name, ok := strings.CutPrefix(trimmed, "=== RUN "); ok {
			runStart[strings.TrimSpace(name)] = i
			continue
		}

		name, ok := strings.CutPrefix(trimmed, "--- FAIL: ")
		if !ok {
			continue
		}
		if fields := strings.Fields(name); len(fields) > 0 {
			name = fields[0]
		}

		var block []string
		if start, ok := runStart[name]; ok {
			block = append(block, lines[start+1:i]...)
		}
		for j := i + 1; j < len(lines); j++ {
			t := strings.TrimSpace(lines[j])
			if strings.HasPrefix(t, "--- ") || strings.HasPrefix(t, "=== ") ||
				t == "FAIL" || t == "PASS" || strings.HasPrefix(t, "ok ") || strings.HasPrefix(t, "FAIL\t") {
				break
			}
			block = append(block, lines[j])
		}

		var message string
		for _, line := range block {
			if m := gotestErrRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				message = m[1]
				break
			}
		}
		if message == "" {
			message = "test failed"
			if line := firstLine(strings.Join(block, "\n")); line != "" {
				message = line
			}
		}

		failures = append(failures, execution.FailureDetail{
			TestName:     name,
			ErrorMessage: message,
			Traceback:    strings.TrimRight(strings.Join(block, "\n"), "\n"),
		})
	}

	return failures
}
