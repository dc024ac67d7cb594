// Package report reduces raw execution output into structured test outcomes
// via per-language recognition of conventional runner output. Parsing is
// tolerant: unrecognized output degrades to a summary-only failure, it never
// raises.
package report

import (
	"fmt"
	"strings"

	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
)

// Parser recognizes one language's conventional test-runner output.
type Parser interface {
	Language() language.Language
	Parse(raw execution.RawResult) execution.Outcome
}

// Registry wires language parsers into a single parsing entry point.
type Registry struct {
	parsers map[language.Language]Parser
}

// NewRegistry constructs a registry from the supplied parsers.
func NewRegistry(parsers ...Parser) (*Registry, error) {
	r := &Registry{
		parsers: make(map[language.Language]Parser, len(parsers)),
	}

	for _, parser := range parsers {
		if parser == nil {
			return nil, fmt.Errorf("result parser cannot be nil")
		}
		lang := parser.Language()
		if lang == "" {
			return nil, fmt.Errorf("result parser missing language identifier")
		}
		if _, exists := r.parsers[lang]; exists {
			return nil, fmt.Errorf("duplicate result parser for language %q", lang)
		}
		r.parsers[lang] = parser
	}

	if len(r.parsers) == 0 {
		return nil, fmt.Errorf("at least one result parser must be registered")
	}

	return r, nil
}

// Default returns a registry covering every built-in language.
func Default() *Registry {
	r, err := NewRegistry(pytestParser{}, unityParser{}, gotestParser{})
	if err != nil {
		panic(err)
	}
	return r
}

// Parse reduces raw output to an Outcome. The engine's sentinel exit codes
// are handled before language dispatch: they describe environment failures,
// not test failures, and are rendered as a single synthetic FailureDetail.
func (r *Registry) Parse(raw execution.RawResult, tag string) execution.Outcome {
	switch raw.ExitCode {
	case execution.ExitNeverRan:
		return sentinelOutcome("environment", "the execution environment could not be provisioned; no tests were run", raw)
	case execution.ExitTimeout:
		return sentinelOutcome("timeout", "execution exceeded its time limit and was terminated", raw)
	}

	lang, ok := language.Parse(tag)
	if parser, found := r.parsers[lang]; ok && found {
		return parser.Parse(raw)
	}

	return execution.Outcome{
		Status:   execution.StatusFail,
		Summary:  fmt.Sprintf("Unsupported language: %s", tag),
		Failures: []execution.FailureDetail{},
	}
}

func sentinelOutcome(name, explanation string, raw execution.RawResult) execution.Outcome {
	detail := firstLine(raw.Stderr)
	if detail == "" {
		detail = explanation
	}

	return execution.Outcome{
		Status:  execution.StatusFail,
		Summary: explanation,
		Failures: []execution.FailureDetail{{
			TestName:     "<" + name + ">",
			ErrorMessage: detail,
			Traceback:    raw.Stderr,
		}},
	}
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
