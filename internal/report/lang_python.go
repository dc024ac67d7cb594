package report

import (
	"fmt"
	"regexp"
	"strings"

	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
)

// pytestParser recognizes pytest's human-readable report: the
// underscore-delimited failure blocks and the "=== N failed ===" tallies.
type pytestParser struct{}

var (
	// "________________________ test_add_raises ________________________"
	pytestHeaderRe = regexp.MustCompile(`(?m)^_{5,}\s+(.+?)\s+_{5,}\s*$`)
	// "===== short test summary info =====" and the final tally line.
	pytestRuleRe = regexp.MustCompile(`(?m)^={10,}`)
)

func (pytestParser) Language() language.Language { return language.Python }

func (pytestParser) Parse(raw execution.RawResult) execution.Outcome {
	// pytest exits 0 on all-pass and 1 on test failures; anything else means
	// the run itself broke (collection error, usage error, interpreter crash).
	switch raw.ExitCode {
	case 0:
		return execution.Outcome{
			Status:   execution.StatusPass,
			Summary:  pytestSummary(raw.Stdout, "All tests passed."),
			Failures: []execution.FailureDetail{},
		}
	case 1:
	default:
		summary := "Test execution error."
		if detail := strings.TrimSpace(raw.Stderr); detail != "" {
			summary = "Test execution error:\n" + detail
		} else if detail := lastLine(raw.Stdout); detail != "" {
			summary = "Test execution error: " + strings.Trim(detail, "= ")
		}
		return execution.Outcome{
			Status:   execution.StatusFail,
			Summary:  summary,
			Failures: []execution.FailureDetail{},
		}
	}

	failures := pytestFailures(raw.Stdout)

	summary := pytestSummary(raw.Stdout, "")
	if summary == "" {
		if len(failures) > 0 {
			summary = fmt.Sprintf("%d test(s) failed", len(failures))
		} else {
			summary = "Tests failed, but no individual failures were recognized in the runner output."
		}
	}

	return execution.Outcome{
		Status:   execution.StatusFail,
		Summary:  summary,
		Failures: failures,
	}
}

// pytestFailures slices the FAILURES section into per-test blocks. Each block
// runs from its underscore header to the next header or the next "====" rule,
// whichever comes first.
func pytestFailures(stdout string) []execution.FailureDetail {
	headers := pytestHeaderRe.FindAllStringSubmatchIndex(stdout, -1)
	failures := make([]execution.FailureDetail, 0, len(headers))

	for i, header := range headers {
		name := stdout[header[2]:header[3]]
		// A parametrized header reads "test_add[2-3]"; a module-qualified one
		// reads "test_generated.py::test_add". Keep only the test function.
		if idx := strings.LastIndex(name, "::"); idx >= 0 {
			name = name[idx+2:]
		}

		start := header[1]
		end := len(stdout)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		if rule := pytestRuleRe.FindStringIndex(stdout[start:end]); rule != nil {
			end = start + rule[0]
		}
		block := strings.TrimSpace(stdout[start:end])

		failures = append(failures, execution.FailureDetail{
			TestName:     name,
			ErrorMessage: pytestErrorLine(block),
			Traceback:    block,
		})
	}

	return failures
}

// pytestErrorLine picks the assertion message out of a failure block: the
// first "E   ..." line, which is what pytest itself repeats in the short test
// summary. Falls back to the block's last line.
func pytestErrorLine(block string) string {
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "E ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "E "))
		}
	}
	return lastLine(block)
}

// pytestSummary returns the final tally line ("1 failed, 2 passed in 0.03s")
// stripped of its "=" framing, or fallback when no tally is present.
func pytestSummary(stdout, fallback string) string {
	lines := strings.Split(stdout, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.Contains(line, "passed") || strings.Contains(line, "failed") ||
			strings.Contains(line, "error") || strings.Contains(line, "no tests ran") {
			return strings.Trim(line, "= ")
		}
	}
	return fallback
}
