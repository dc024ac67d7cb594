// Package adapter provides per-language source adapters that turn raw
// source text into normalized structure entities. Traversal is purely
// syntactic; the analyzed code is never executed.
package adapter

import (
	"fmt"

	"testbench/internal/domain/language"
	"testbench/internal/domain/structure"
)

// ParsedSource is a successfully parsed source file ready for extraction.
// Close releases parser-owned memory and must be called when done.
type ParsedSource interface {
	// Extract returns the file's callable entities in declaration order.
	Extract() []structure.Entity
	Close()
}

// Adapter parses source text for one language.
type Adapter interface {
	Language() language.Language
	// Parse returns a ParsedSource, or a *ParseError when the source does
	// not parse. It never panics past the adapter boundary.
	Parse(source string) (ParsedSource, error)
}

// ParseError reports a syntax error with a best-effort position.
// Line and Column are 1-based; zero means the position is unknown.
type ParseError struct {
	Language language.Language
	Line     int
	Column   int
	Message  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s syntax error at line %d, column %d: %s", e.Language, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s syntax error: %s", e.Language, e.Message)
}
