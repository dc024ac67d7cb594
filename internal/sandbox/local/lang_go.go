package local

import (
	"context"
	"path/filepath"

	"testbench/internal/domain/execution"
	"testbench/internal/sandbox/scaffold"
)

// prepareGo compiles the test binary with build state confined to the
// workspace, so concurrent requests never share a module or build cache.
func prepareGo(ctx context.Context, dir string) ([]string, error) {
	goBin, err := lookPath("go", "required to compile Go tests")
	if err != nil {
		return nil, err
	}

	env := []string{
		"GOCACHE=" + filepath.Join(dir, ".gocache"),
		"GOPATH=" + filepath.Join(dir, ".gopath"),
		"GOFLAGS=-mod=mod",
		"CGO_ENABLED=0",
	}
	out, err := runTool(ctx, dir, env, goBin, "test", "-c", "-o", scaffold.RunnerBinary, ".")
	if err != nil {
		return nil, &execution.ProvisionError{
			Kind:    execution.KindCompileFailed,
			Message: "compile Go test binary",
			Output:  out,
		}
	}

	return []string{"./" + scaffold.RunnerBinary, "-test.v"}, nil
}
