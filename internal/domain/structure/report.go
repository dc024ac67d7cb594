package structure

import "testbench/internal/domain/language"

// EntityKind discriminates the entity variants extracted from source code.
type EntityKind string

const (
	KindFunction EntityKind = "function"
	KindClass    EntityKind = "class"
	KindStruct   EntityKind = "struct"
)

// Parameter is a single declared parameter of a callable.
//
// Annotation is the language-native type text ("int", "List[str]",
// "const char*"); callers must treat it as opaque.
type Parameter struct {
	Name       string `json:"name"`
	Annotation string `json:"annotation,omitempty"`
}

// Field is a member of a C-style aggregate type.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Entity describes one callable or aggregate declaration.
//
// Functions carry Parameters and ReturnType; classes own their Methods in
// declaration order; structs carry Fields. Names are verbatim identifiers
// from the source, never sanitized.
type Entity struct {
	Kind       EntityKind  `json:"type"`
	Name       string      `json:"name"`
	Docstring  string      `json:"docstring,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
	ReturnType string      `json:"return_type,omitempty"`
	Methods    []Entity    `json:"methods,omitempty"`
	Fields     []Field     `json:"fields,omitempty"`
}

// Report is the normalized description of a source file's callable surface.
// Entities appear in source declaration order. A Report is immutable once
// returned.
type Report struct {
	Language language.Language `json:"language"`
	Entities []Entity          `json:"structure"`
}
