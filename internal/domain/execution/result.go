package execution

// Sentinel exit codes, outside any test runner's own code range. They let a
// consumer distinguish "never ran" from "ran and failed".
const (
	// ExitNeverRan marks a request whose environment could not be
	// provisioned; the process under test was never started.
	ExitNeverRan = -1
	// ExitTimeout marks a request that was forcibly terminated mid-run,
	// either for exceeding its wall-clock bound or on caller
	// cancellation. Stderr carries which.
	ExitTimeout = -2
)

// RawResult captures the verbatim outcome of one execution request.
//
// ExitCode conventions are runner-specific; zero meaning "all tests passed"
// is the only portable invariant.
type RawResult struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}
