package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"testbench/internal/domain/structure"
)

func extractC(t *testing.T, source string) []structure.Entity {
	t.Helper()

	parsed, err := NewC().Parse(source)
	require.NoError(t, err)
	defer parsed.Close()

	return parsed.Extract()
}

func TestCExtractsFunctionSignature(t *testing.T) {
	t.Parallel()

	source := `#include <stddef.h>

/* Adds two integers. */
int add(int a, int b) {
    return a + b;
}
`
	entities := extractC(t, source)
	require.Len(t, entities, 1)

	fn := entities[0]
	require.Equal(t, structure.KindFunction, fn.Kind)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, "Adds two integers.", fn.Docstring)
	require.Equal(t, "int", fn.ReturnType)
	require.Equal(t, []structure.Parameter{
		{Name: "a", Annotation: "int"},
		{Name: "b", Annotation: "int"},
	}, fn.Parameters)
}

func TestCPointerReturnAndParameters(t *testing.T) {
	t.Parallel()

	source := `char *concat(const char *left, char right[]) {
    return 0;
}
`
	entities := extractC(t, source)
	require.Len(t, entities, 1)

	fn := entities[0]
	require.Equal(t, "concat", fn.Name)
	require.Equal(t, "char*", fn.ReturnType)
	require.Equal(t, []structure.Parameter{
		{Name: "left", Annotation: "const char*"},
		{Name: "right", Annotation: "char[]"},
	}, fn.Parameters)
}

func TestCVoidParameterListIsEmpty(t *testing.T) {
	t.Parallel()

	source := "int answer(void) { return 42; }\n"
	entities := extractC(t, source)
	require.Len(t, entities, 1)
	require.Empty(t, entities[0].Parameters)
}

func TestCVariadicParameter(t *testing.T) {
	t.Parallel()

	source := "int logf2(const char *fmt, ...) { return 0; }\n"
	entities := extractC(t, source)
	require.Len(t, entities, 1)
	require.Equal(t, structure.Parameter{Name: "...", Annotation: "..."}, entities[0].Parameters[1])
}

func TestCTypedefStruct(t *testing.T) {
	t.Parallel()

	source := `// A 2D point.
typedef struct {
    double x;
    double y;
    char *label;
} Point;
`
	entities := extractC(t, source)
	require.Len(t, entities, 1)

	st := entities[0]
	require.Equal(t, structure.KindStruct, st.Kind)
	require.Equal(t, "Point", st.Name)
	require.Equal(t, "A 2D point.", st.Docstring)
	require.Equal(t, []structure.Field{
		{Name: "x", Type: "double"},
		{Name: "y", Type: "double"},
		{Name: "label", Type: "char*"},
	}, st.Fields)
}

func TestCPrototypesAreIgnored(t *testing.T) {
	t.Parallel()

	source := `int declared_only(int a);

int defined(int a) { return a; }
`
	entities := extractC(t, source)
	require.Len(t, entities, 1)
	require.Equal(t, "defined", entities[0].Name)
}

func TestCDetachedCommentIsNotDocumentation(t *testing.T) {
	t.Parallel()

	source := `// Far away comment.

int lonely(void) { return 0; }
`
	entities := extractC(t, source)
	require.Len(t, entities, 1)
	require.Empty(t, entities[0].Docstring)
}

func TestCSyntaxErrorReportsPosition(t *testing.T) {
	t.Parallel()

	_, err := NewC().Parse("int broken( {\n")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}
