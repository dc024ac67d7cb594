package adapter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"testbench/internal/domain/language"
	"testbench/internal/domain/structure"
)

type pythonAdapter struct{}

// NewPython returns the adapter for Python sources. Top-level functions and
// classes (with their methods) are extracted; methods are owned by their
// class entity and never double-reported at the top level.
func NewPython() Adapter {
	return pythonAdapter{}
}

func (pythonAdapter) Language() language.Language {
	return language.Python
}

func (pythonAdapter) Parse(source string) (ParsedSource, error) {
	src := []byte(source)
	tree, err := parseTree(language.Python, python.GetLanguage(), src)
	if err != nil {
		return nil, err
	}
	return &pythonSource{tree: tree, src: src}, nil
}

type pythonSource struct {
	tree *sitter.Tree
	src  []byte
}

func (p *pythonSource) Close() {
	p.tree.Close()
}

func (p *pythonSource) Extract() []structure.Entity {
	root := p.tree.RootNode()
	entities := []structure.Entity{}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := unwrapDecorated(root.NamedChild(i))
		switch node.Type() {
		case "function_definition":
			entities = append(entities, p.function(node))
		case "class_definition":
			entities = append(entities, p.class(node))
		}
	}

	return entities
}

func (p *pythonSource) class(node *sitter.Node) structure.Entity {
	entity := structure.Entity{
		Kind:      structure.KindClass,
		Name:      fieldContent(node, "name", p.src),
		Docstring: p.docstring(node),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return entity
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := unwrapDecorated(body.NamedChild(i))
		if member.Type() == "function_definition" {
			entity.Methods = append(entity.Methods, p.function(member))
		}
	}

	return entity
}

func (p *pythonSource) function(node *sitter.Node) structure.Entity {
	return structure.Entity{
		Kind:       structure.KindFunction,
		Name:       fieldContent(node, "name", p.src),
		Docstring:  p.docstring(node),
		Parameters: p.parameters(node.ChildByFieldName("parameters")),
		ReturnType: fieldContent(node, "return_type", p.src),
	}
}

func (p *pythonSource) parameters(list *sitter.Node) []structure.Parameter {
	params := []structure.Parameter{}
	if list == nil {
		return params
	}

	for i := 0; i < int(list.NamedChildCount()); i++ {
		node := list.NamedChild(i)
		switch node.Type() {
		case "identifier":
			params = append(params, structure.Parameter{Name: node.Content(p.src)})
		case "typed_parameter":
			params = append(params, structure.Parameter{
				Name:       firstNamedContent(node, p.src),
				Annotation: fieldContent(node, "type", p.src),
			})
		case "default_parameter":
			params = append(params, structure.Parameter{Name: fieldContent(node, "name", p.src)})
		case "typed_default_parameter":
			params = append(params, structure.Parameter{
				Name:       fieldContent(node, "name", p.src),
				Annotation: fieldContent(node, "type", p.src),
			})
		case "list_splat_pattern":
			params = append(params, structure.Parameter{Name: "*" + firstNamedContent(node, p.src)})
		case "dictionary_splat_pattern":
			params = append(params, structure.Parameter{Name: "**" + firstNamedContent(node, p.src)})
		}
	}

	return params
}

// docstring returns the cleaned leading string literal of a definition body,
// mirroring what ast.get_docstring reports for CPython.
func (p *pythonSource) docstring(definition *sitter.Node) string {
	body := definition.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}

	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}

	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}

	return cleanPyString(str.Content(p.src))
}

func unwrapDecorated(node *sitter.Node) *sitter.Node {
	if node.Type() != "decorated_definition" {
		return node
	}
	if def := node.ChildByFieldName("definition"); def != nil {
		return def
	}
	return node
}

func firstNamedContent(node *sitter.Node, src []byte) string {
	if node.NamedChildCount() == 0 {
		return ""
	}
	return node.NamedChild(0).Content(src)
}

func cleanPyString(raw string) string {
	s := strings.TrimLeft(raw, "rRbBuUfF")
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) && len(s) >= 2*len(quote) {
			return strings.TrimSpace(s[len(quote) : len(s)-len(quote)])
		}
	}
	return strings.TrimSpace(s)
}
