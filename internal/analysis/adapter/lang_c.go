package adapter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"testbench/internal/domain/language"
	"testbench/internal/domain/structure"
)

type cAdapter struct{}

// NewC returns the adapter for C sources. Function definitions and typedef'd
// structs are extracted; prototypes and preprocessor lines are ignored.
func NewC() Adapter {
	return cAdapter{}
}

func (cAdapter) Language() language.Language {
	return language.C
}

func (cAdapter) Parse(source string) (ParsedSource, error) {
	src := []byte(source)
	tree, err := parseTree(language.C, c.GetLanguage(), src)
	if err != nil {
		return nil, err
	}
	return &cSource{tree: tree, src: src}, nil
}

type cSource struct {
	tree *sitter.Tree
	src  []byte
}

func (c *cSource) Close() {
	c.tree.Close()
}

func (c *cSource) Extract() []structure.Entity {
	root := c.tree.RootNode()
	entities := []structure.Entity{}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "function_definition":
			if fn, ok := c.function(node); ok {
				entities = append(entities, fn)
			}
		case "type_definition":
			if st, ok := c.typedefStruct(node); ok {
				entities = append(entities, st)
			}
		}
	}

	return entities
}

func (c *cSource) function(node *sitter.Node) (structure.Entity, bool) {
	returnType := fieldContent(node, "type", c.src)

	// Pointer return types wrap the function declarator.
	declarator := node.ChildByFieldName("declarator")
	for declarator != nil && declarator.Type() == "pointer_declarator" {
		returnType += "*"
		declarator = declarator.ChildByFieldName("declarator")
	}
	if declarator == nil || declarator.Type() != "function_declarator" {
		return structure.Entity{}, false
	}

	name, _ := c.declaratorName(declarator.ChildByFieldName("declarator"))

	return structure.Entity{
		Kind:       structure.KindFunction,
		Name:       name,
		Docstring:  c.leadingComment(node),
		Parameters: c.parameters(declarator.ChildByFieldName("parameters")),
		ReturnType: returnType,
	}, true
}

func (c *cSource) parameters(list *sitter.Node) []structure.Parameter {
	params := []structure.Parameter{}
	if list == nil {
		return params
	}

	for i := 0; i < int(list.NamedChildCount()); i++ {
		node := list.NamedChild(i)
		switch node.Type() {
		case "parameter_declaration":
			name, typ := c.declaration(node)
			if name == "" && typ == "void" {
				continue
			}
			params = append(params, structure.Parameter{Name: name, Annotation: typ})
		case "variadic_parameter":
			params = append(params, structure.Parameter{Name: "...", Annotation: "..."})
		}
	}

	return params
}

func (c *cSource) typedefStruct(node *sitter.Node) (structure.Entity, bool) {
	spec := node.ChildByFieldName("type")
	if spec == nil || spec.Type() != "struct_specifier" {
		return structure.Entity{}, false
	}

	entity := structure.Entity{
		Kind:      structure.KindStruct,
		Name:      fieldContent(node, "declarator", c.src),
		Docstring: c.leadingComment(node),
	}

	body := spec.ChildByFieldName("body")
	if body == nil {
		return entity, entity.Name != ""
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		field := body.NamedChild(i)
		if field.Type() != "field_declaration" {
			continue
		}
		name, typ := c.declaration(field)
		entity.Fields = append(entity.Fields, structure.Field{Name: name, Type: typ})
	}

	return entity, entity.Name != ""
}

// declaration renders the name and language-native type text of a parameter
// or struct field declaration, in the base-plus-pointer style the callers of
// the structure report expect ("const char*", "int[]").
func (c *cSource) declaration(node *sitter.Node) (name, typ string) {
	declarator := node.ChildByFieldName("declarator")

	var base []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if declarator != nil && child.Equal(declarator) {
			continue
		}
		base = append(base, child.Content(c.src))
	}

	name, suffix := c.declaratorName(declarator)
	return name, strings.Join(base, " ") + suffix
}

// declaratorName unwinds pointer/array declarators down to the identifier,
// accumulating the "*"/"[]" suffixes for the type text.
func (c *cSource) declaratorName(node *sitter.Node) (name, suffix string) {
	for node != nil {
		switch node.Type() {
		case "pointer_declarator":
			suffix += "*"
			node = node.ChildByFieldName("declarator")
		case "array_declarator":
			suffix += "[]"
			node = node.ChildByFieldName("declarator")
		case "parenthesized_declarator", "function_declarator":
			node = node.ChildByFieldName("declarator")
		case "identifier", "field_identifier", "type_identifier":
			return node.Content(c.src), suffix
		default:
			return "", suffix
		}
	}
	return "", suffix
}

// leadingComment treats a comment ending on the line directly above a
// declaration as its documentation.
func (c *cSource) leadingComment(node *sitter.Node) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	if prev.EndPoint().Row+1 != node.StartPoint().Row {
		return ""
	}

	text := prev.Content(c.src)
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "//"))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
