package execution

import "testbench/internal/domain/language"

// Request pairs source code under test with generated test code.
// A Request is an immutable value; the engine never mutates it.
type Request struct {
	Source   string
	Test     string
	Language language.Language
}
