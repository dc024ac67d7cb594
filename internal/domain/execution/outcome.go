package execution

// Status is the overall verdict of a test run.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// FailureDetail describes a single recognized test failure.
type FailureDetail struct {
	TestName     string `json:"test_name"`
	ErrorMessage string `json:"error_message"`
	Traceback    string `json:"traceback"`
}

// Outcome is the structured verdict reduced from raw runner output.
//
// Status PASS implies Failures is empty. Status FAIL with empty Failures
// means no individual failure markers could be located; Summary then carries
// the explanation and is never empty.
type Outcome struct {
	Status   Status          `json:"status"`
	Summary  string          `json:"summary"`
	Failures []FailureDetail `json:"failures"`
}
