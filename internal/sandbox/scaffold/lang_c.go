package scaffold

import (
	"fmt"
	"regexp"
	"strings"

	"testbench/internal/analysis/adapter"
	"testbench/internal/domain/structure"
)

var cTestFuncRe = regexp.MustCompile(`(?m)^\s*void\s+(test_[A-Za-z0-9_]*)\s*\(\s*(?:void)?\s*\)`)

// CHeader synthesizes the declaration header the generated test code
// includes. Declarations are derived from the source's callable surface; if
// the source does not parse, a bare include-guard stub is emitted so
// compilation can still proceed on a best-effort basis.
func CHeader(source string) string {
	var b strings.Builder
	b.WriteString("#ifndef SOURCE_TO_TEST_H\n")
	b.WriteString("#define SOURCE_TO_TEST_H\n\n")

	parsed, err := adapter.NewC().Parse(source)
	if err == nil {
		defer parsed.Close()
		entities := parsed.Extract()

		for _, entity := range entities {
			if entity.Kind != structure.KindStruct {
				continue
			}
			b.WriteString("typedef struct {\n")
			for _, field := range entity.Fields {
				fmt.Fprintf(&b, "    %s;\n", cDeclaration(field.Type, field.Name))
			}
			fmt.Fprintf(&b, "} %s;\n\n", entity.Name)
		}

		for _, entity := range entities {
			if entity.Kind != structure.KindFunction || entity.Name == "main" {
				continue
			}
			b.WriteString(cPrototype(entity))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n#endif\n")
	return b.String()
}

func cPrototype(fn structure.Entity) string {
	returnType := fn.ReturnType
	if returnType == "" {
		returnType = "void"
	}

	if len(fn.Parameters) == 0 {
		return fmt.Sprintf("%s %s(void);", returnType, fn.Name)
	}

	rendered := make([]string, 0, len(fn.Parameters))
	for _, param := range fn.Parameters {
		rendered = append(rendered, cDeclaration(param.Annotation, param.Name))
	}
	return fmt.Sprintf("%s %s(%s);", returnType, fn.Name, strings.Join(rendered, ", "))
}

func cDeclaration(typeText, name string) string {
	if name == "" {
		return typeText
	}
	// "int[]" style array types put the brackets after the identifier.
	if base, ok := strings.CutSuffix(typeText, "[]"); ok {
		return fmt.Sprintf("%s %s[]", base, name)
	}
	return fmt.Sprintf("%s %s", typeText, name)
}

// CTestMain generates the runner entry point: a prototype and a RUN_TEST
// call for every test_* function defined in the generated test code.
func CTestMain(testCode string) string {
	var names []string
	seen := map[string]bool{}
	for _, match := range cTestFuncRe.FindAllStringSubmatch(testCode, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}

	var b strings.Builder
	b.WriteString("#include \"unity.h\"\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "void %s(void);\n", name)
	}
	b.WriteString("\nint main(void) {\n")
	b.WriteString("    UNITY_BEGIN();\n")
	for _, name := range names {
		fmt.Fprintf(&b, "    RUN_TEST(%s);\n", name)
	}
	b.WriteString("    return UNITY_END();\n")
	b.WriteString("}\n")
	return b.String()
}
