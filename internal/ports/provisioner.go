package ports

import (
	"context"

	"testbench/internal/domain/execution"
)

// Workspace is a fully provisioned, isolated environment holding one
// request's files and runtime state. It is exclusively owned by that request
// for its lifetime; Close removes every file and process it created and must
// be called on every exit path.
type Workspace interface {
	// Run executes the prepared test command with the workspace as working
	// directory. A non-zero exit code from the test runner is not an
	// error. When ctx expires mid-run, the process tree is forcibly
	// terminated and Run returns the partial output captured so far
	// together with ctx's error.
	Run(ctx context.Context) (*execution.RawResult, error)
	Close() error
}

// Provisioner creates Workspaces for execution requests. Setup failures are
// reported as *execution.ProvisionError with a distinct kind per condition.
type Provisioner interface {
	Provision(ctx context.Context, req execution.Request) (Workspace, error)
	Close() error
}
