package analysis

import "fmt"

// ErrorKind classifies analysis failures.
type ErrorKind string

const (
	// ErrUnsupportedLanguage: no adapter is registered for the tag.
	ErrUnsupportedLanguage ErrorKind = "unsupported_language"
	// ErrSyntax: the source failed to parse.
	ErrSyntax ErrorKind = "syntax_error"
)

// Error is the structured failure returned across the analyzer boundary.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
