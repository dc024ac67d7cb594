package local

import (
	"context"

	"testbench/internal/domain/execution"
	"testbench/internal/sandbox/scaffold"
)

// prepareC compiles the generated runner main, the generated tests and the
// source under test against the synthesized header scaffolding.
func prepareC(ctx context.Context, dir string) ([]string, error) {
	gcc, err := lookPath("gcc", "required to compile C tests")
	if err != nil {
		return nil, err
	}

	out, err := runTool(ctx, dir, nil, gcc,
		"-std=c99", "-I.", "-o", scaffold.RunnerBinary,
		scaffold.CMainFile, scaffold.CTestFile, scaffold.CSourceFile,
	)
	if err != nil {
		return nil, &execution.ProvisionError{
			Kind:    execution.KindCompileFailed,
			Message: "compile C test runner",
			Output:  out,
		}
	}

	return []string{"./" + scaffold.RunnerBinary}, nil
}
