package adapter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"testbench/internal/domain/language"
)

// parseTree runs a fresh tree-sitter parser over the source. Parsers are not
// safe for concurrent reuse, so one is created per call; analysis stays
// stateless that way.
func parseTree(lang language.Language, grammar *sitter.Language, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Language: lang, Message: err.Error()}
	}

	if root := tree.RootNode(); root.HasError() {
		perr := &ParseError{Language: lang, Message: "invalid syntax"}
		if bad := firstErrorNode(root); bad != nil {
			point := bad.StartPoint()
			perr.Line = int(point.Row) + 1
			perr.Column = int(point.Column) + 1
			if bad.IsMissing() {
				perr.Message = fmt.Sprintf("missing %s", bad.Type())
			}
		}
		tree.Close()
		return nil, perr
	}

	return tree, nil
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// fieldContent returns the text of a named field, or "" when absent.
func fieldContent(node *sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Content(source)
}
