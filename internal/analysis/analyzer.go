// Package analysis turns raw source text into a normalized structure report
// by dispatching to per-language adapters.
package analysis

import (
	"encoding/json"
	"fmt"

	"testbench/internal/analysis/adapter"
	"testbench/internal/domain/language"
	"testbench/internal/domain/structure"
)

// Analyzer wires language adapters into a single analysis entry point.
// It holds no mutable state after construction and is safe for concurrent use.
type Analyzer struct {
	adapters map[language.Language]adapter.Adapter
}

// New constructs an analyzer from the supplied adapters.
func New(adapters ...adapter.Adapter) (*Analyzer, error) {
	a := &Analyzer{
		adapters: make(map[language.Language]adapter.Adapter, len(adapters)),
	}

	for _, ad := range adapters {
		if ad == nil {
			return nil, fmt.Errorf("language adapter cannot be nil")
		}
		lang := ad.Language()
		if lang == "" {
			return nil, fmt.Errorf("language adapter missing language identifier")
		}
		if _, exists := a.adapters[lang]; exists {
			return nil, fmt.Errorf("duplicate language adapter for %q", lang)
		}
		a.adapters[lang] = ad
	}

	if len(a.adapters) == 0 {
		return nil, fmt.Errorf("at least one language adapter must be registered")
	}

	return a, nil
}

// Default returns an analyzer covering every built-in language.
func Default() *Analyzer {
	a, err := New(adapter.NewPython(), adapter.NewC(), adapter.NewGo())
	if err != nil {
		panic(err)
	}
	return a
}

// Analyze parses the source and extracts its callable surface. The language
// tag match is case-insensitive. Failures are reported as *Error; nothing
// escapes the adapter boundary as a panic.
func (a *Analyzer) Analyze(source, tag string) (*structure.Report, error) {
	lang, ok := language.Parse(tag)
	if !ok {
		return nil, &Error{Kind: ErrUnsupportedLanguage, Message: fmt.Sprintf("unsupported language: %s", tag)}
	}
	ad, ok := a.adapters[lang]
	if !ok {
		return nil, &Error{Kind: ErrUnsupportedLanguage, Message: fmt.Sprintf("unsupported language: %s", tag)}
	}

	parsed, err := ad.Parse(source)
	if err != nil {
		return nil, &Error{Kind: ErrSyntax, Message: err.Error()}
	}
	defer parsed.Close()

	return &structure.Report{
		Language: lang,
		Entities: parsed.Extract(),
	}, nil
}

type successEnvelope struct {
	Status    string             `json:"status"`
	Language  language.Language  `json:"language"`
	Structure []structure.Entity `json:"structure"`
}

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AnalyzeJSON renders the analyzer boundary contract: a success envelope with
// the extracted structure, or an error envelope. It never returns an error
// itself; serialization operates on value types only.
func (a *Analyzer) AnalyzeJSON(source, tag string) []byte {
	report, err := a.Analyze(source, tag)
	if err != nil {
		data, _ := json.Marshal(errorEnvelope{Status: "error", Message: err.Error()})
		return data
	}

	data, _ := json.Marshal(successEnvelope{
		Status:    "success",
		Language:  report.Language,
		Structure: report.Entities,
	})
	return data
}
