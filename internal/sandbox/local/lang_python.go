package local

import (
	"context"
	"path/filepath"

	"testbench/internal/domain/execution"
	"testbench/internal/sandbox/scaffold"
)

// preparePython materializes a per-request virtual environment and installs
// the test runner into it, so one request's dependencies can never leak into
// another request or the host interpreter.
func preparePython(ctx context.Context, dir string) ([]string, error) {
	python, err := lookPath("python3", "required to run Python tests")
	if err != nil {
		return nil, err
	}

	venv := filepath.Join(dir, "venv")
	if out, err := runTool(ctx, dir, nil, python, "-m", "venv", venv); err != nil {
		return nil, &execution.ProvisionError{
			Kind:    execution.KindDependencyInstallFailed,
			Message: "create virtual environment",
			Output:  out,
		}
	}

	pip := filepath.Join(venv, "bin", "pip")
	if out, err := runTool(ctx, dir, nil, pip, "install", "--disable-pip-version-check", "--quiet", "-r", scaffold.RequirementsFile); err != nil {
		return nil, &execution.ProvisionError{
			Kind:    execution.KindDependencyInstallFailed,
			Message: "install test dependencies",
			Output:  out,
		}
	}

	return []string{filepath.Join(venv, "bin", "pytest"), scaffold.PythonTestFile}, nil
}
