package execution

import "time"

// RunLimits describes resource boundaries for a single execution request.
//
// A zero value RunLimits imposes no additional restrictions.
type RunLimits struct {
	// TimeLimit caps how long the test process is allowed to run. Zero
	// means no limit.
	TimeLimit time.Duration
	// MemoryLimitBytes caps memory usage in bytes where the backend
	// supports it. Zero means no limit.
	MemoryLimitBytes int64
	// MaxOutputBytes caps how much of each output stream is retained.
	// Output beyond the cap is cut with an explicit truncation marker.
	// Zero means no cap.
	MaxOutputBytes int
}
