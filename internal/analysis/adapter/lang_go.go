package adapter

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"testbench/internal/domain/language"
	"testbench/internal/domain/structure"
)

type goAdapter struct{}

// NewGo returns the adapter for Go sources. Free functions become function
// entities; named struct types become class entities owning their methods.
// Methods whose receiver type is not declared in the same file are reported
// as top-level functions.
func NewGo() Adapter {
	return goAdapter{}
}

func (goAdapter) Language() language.Language {
	return language.Go
}

func (goAdapter) Parse(source string) (ParsedSource, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "source.go", source, parser.ParseComments)
	if err != nil {
		perr := &ParseError{Language: language.Go, Message: err.Error()}
		var list scanner.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			perr.Line = list[0].Pos.Line
			perr.Column = list[0].Pos.Column
			perr.Message = list[0].Msg
		}
		return nil, perr
	}
	return &goSource{fset: fset, file: file, src: source}, nil
}

type goSource struct {
	fset *token.FileSet
	file *ast.File
	src  string
}

func (g *goSource) Close() {}

func (g *goSource) Extract() []structure.Entity {
	entities := []structure.Entity{}
	classIndex := map[string]int{}

	type deferredMethod struct {
		receiver string
		entity   structure.Entity
	}
	var methods []deferredMethod

	for _, decl := range g.file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}
				entity := structure.Entity{
					Kind:      structure.KindClass,
					Name:      ts.Name.Name,
					Docstring: docText(ts.Doc, d.Doc),
					Fields:    g.structFields(st),
				}
				classIndex[ts.Name.Name] = len(entities)
				entities = append(entities, entity)
			}
		case *ast.FuncDecl:
			fn := g.function(d)
			if d.Recv == nil || len(d.Recv.List) == 0 {
				entities = append(entities, fn)
				continue
			}
			methods = append(methods, deferredMethod{
				receiver: receiverBaseName(d.Recv.List[0].Type),
				entity:   fn,
			})
		}
	}

	for _, m := range methods {
		if idx, ok := classIndex[m.receiver]; ok {
			entities[idx].Methods = append(entities[idx].Methods, m.entity)
		} else {
			entities = append(entities, m.entity)
		}
	}

	return entities
}

func (g *goSource) function(decl *ast.FuncDecl) structure.Entity {
	entity := structure.Entity{
		Kind:       structure.KindFunction,
		Name:       decl.Name.Name,
		Docstring:  docText(decl.Doc, nil),
		Parameters: []structure.Parameter{},
	}

	if decl.Type.Params != nil {
		for _, field := range decl.Type.Params.List {
			annotation := g.text(field.Type.Pos(), field.Type.End())
			if len(field.Names) == 0 {
				entity.Parameters = append(entity.Parameters, structure.Parameter{Annotation: annotation})
				continue
			}
			for _, name := range field.Names {
				entity.Parameters = append(entity.Parameters, structure.Parameter{
					Name:       name.Name,
					Annotation: annotation,
				})
			}
		}
	}

	if results := decl.Type.Results; results != nil && len(results.List) > 0 {
		entity.ReturnType = g.text(results.Pos(), results.End())
	}

	return entity
}

func (g *goSource) structFields(st *ast.StructType) []structure.Field {
	var fields []structure.Field
	if st.Fields == nil {
		return fields
	}
	for _, field := range st.Fields.List {
		typeText := g.text(field.Type.Pos(), field.Type.End())
		if len(field.Names) == 0 {
			fields = append(fields, structure.Field{Name: typeText, Type: typeText})
			continue
		}
		for _, name := range field.Names {
			fields = append(fields, structure.Field{Name: name.Name, Type: typeText})
		}
	}
	return fields
}

// text slices the original source between two token positions, so type
// annotations keep their exact language-native spelling.
func (g *goSource) text(from, to token.Pos) string {
	start := g.fset.Position(from).Offset
	end := g.fset.Position(to).Offset
	if start < 0 || end > len(g.src) || start > end {
		return ""
	}
	return g.src[start:end]
}

func receiverBaseName(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func docText(specific, group *ast.CommentGroup) string {
	if specific != nil {
		return strings.TrimSpace(specific.Text())
	}
	if group != nil {
		return strings.TrimSpace(group.Text())
	}
	return ""
}
