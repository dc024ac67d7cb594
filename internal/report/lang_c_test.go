package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"testbench/internal/domain/execution"
)

const unityPassOutput = `test_generated.c:5:test_add:PASS
test_generated.c:9:test_add_zero:PASS
-----------------------
2 Tests 0 Failures 0 Ignored
OK
`

const unityFailOutput = `test_generated.c:5:test_add:PASS
test_generated.c:9:test_add_failure:FAIL: Expected 5 Was 4
-----------------------
2 Tests 1 Failures 0 Ignored
FAIL
`

func TestUnityAllPassed(t *testing.T) {
	t.Parallel()

	outcome := (unityParser{}).Parse(execution.RawResult{ExitCode: 0, Stdout: unityPassOutput})

	require.Equal(t, execution.StatusPass, outcome.Status)
	require.Equal(t, "2 Tests 0 Failures 0 Ignored", outcome.Summary)
	require.Empty(t, outcome.Failures)
	require.NotNil(t, outcome.Failures)
}

func TestUnityFailureAttribution(t *testing.T) {
	t.Parallel()

	outcome := (unityParser{}).Parse(execution.RawResult{ExitCode: 1, Stdout: unityFailOutput})

	require.Equal(t, execution.StatusFail, outcome.Status)
	require.Equal(t, "2 Tests 1 Failures 0 Ignored", outcome.Summary)
	require.Len(t, outcome.Failures, 1)

	failure := outcome.Failures[0]
	require.Equal(t, "test_add_failure", failure.TestName)
	require.Equal(t, "Expected 5 Was 4", failure.ErrorMessage)
	require.Contains(t, failure.Traceback, "test_generated.c:9")
}

func TestUnityFailureWithoutMessage(t *testing.T) {
	t.Parallel()

	outcome := (unityParser{}).Parse(execution.RawResult{
		ExitCode: 1,
		Stdout:   "test_generated.c:12:test_edge:FAIL\n-----------------------\n1 Tests 1 Failures 0 Ignored\nFAIL\n",
	})

	require.Len(t, outcome.Failures, 1)
	require.Equal(t, "test_edge", outcome.Failures[0].TestName)
	require.Equal(t, "test failed", outcome.Failures[0].ErrorMessage)
	require.Equal(t, "test_generated.c:12:test_edge:FAIL", outcome.Failures[0].Traceback)
}

func TestUnityCrashBeforeResults(t *testing.T) {
	t.Parallel()

	outcome := (unityParser{}).Parse(execution.RawResult{
		ExitCode: 139,
		Stderr:   "Segmentation fault (core dumped)\n",
	})

	require.Equal(t, execution.StatusFail, outcome.Status)
	require.Contains(t, outcome.Summary, "Segmentation fault")
	require.Empty(t, outcome.Failures)
}

func TestUnitySilentNonZeroExit(t *testing.T) {
	t.Parallel()

	outcome := (unityParser{}).Parse(execution.RawResult{ExitCode: 7})

	require.Equal(t, execution.StatusFail, outcome.Status)
	require.Contains(t, outcome.Summary, "7")
	require.Empty(t, outcome.Failures)
}
