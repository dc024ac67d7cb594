// Package scaffold builds the per-language file sets that make up an
// execution workspace. Both sandbox backends stage the same files; only how
// they are materialized (host directory vs. container copy) differs.
package scaffold

import (
	"fmt"

	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
)

// Conventional file names inside a workspace. Generated test code relies on
// these names for its imports and includes, so they are part of the
// execution contract.
const (
	PythonSourceFile = "source_to_test.py"
	PythonTestFile   = "test_generated.py"
	RequirementsFile = "requirements.txt"

	CSourceFile = "source_to_test.c"
	CTestFile   = "test_generated.c"
	CHeaderFile = "source_to_test.h"
	CUnityFile  = "unity.h"
	CMainFile   = "test_main.c"

	GoModFile    = "go.mod"
	GoSourceFile = "source_to_test.go"
	GoTestFile   = "generated_test.go"

	RunnerBinary = "test_runner"
)

// FileSpec names one file to stage into a workspace.
type FileSpec struct {
	Name string
	Mode int64
	Data []byte
}

// Files returns the workspace file set for a request.
func Files(req execution.Request) ([]FileSpec, error) {
	switch req.Language {
	case language.Python:
		return pythonFiles(req), nil
	case language.C:
		return cFiles(req), nil
	case language.Go:
		return goFiles(req), nil
	default:
		return nil, &execution.ProvisionError{
			Kind:    execution.KindUnsupportedLanguage,
			Message: fmt.Sprintf("unsupported language: %s", req.Language),
		}
	}
}

func pythonFiles(req execution.Request) []FileSpec {
	return []FileSpec{
		{Name: PythonSourceFile, Mode: 0o644, Data: []byte(req.Source)},
		{Name: PythonTestFile, Mode: 0o644, Data: []byte(req.Test)},
		{Name: RequirementsFile, Mode: 0o644, Data: []byte("pytest\n")},
	}
}

func goFiles(req execution.Request) []FileSpec {
	return []FileSpec{
		{Name: GoModFile, Mode: 0o644, Data: []byte("module sandbox\n\ngo 1.24\n")},
		{Name: GoSourceFile, Mode: 0o644, Data: []byte(req.Source)},
		{Name: GoTestFile, Mode: 0o644, Data: []byte(req.Test)},
	}
}

func cFiles(req execution.Request) []FileSpec {
	return []FileSpec{
		{Name: CSourceFile, Mode: 0o644, Data: []byte(req.Source)},
		{Name: CTestFile, Mode: 0o644, Data: []byte(req.Test)},
		{Name: CHeaderFile, Mode: 0o644, Data: []byte(CHeader(req.Source))},
		{Name: CUnityFile, Mode: 0o644, Data: []byte(unityHeader)},
		{Name: CMainFile, Mode: 0o644, Data: []byte(CTestMain(req.Test))},
	}
}
