package language

import "strings"

// Language identifies a supported source language.
type Language string

const (
	Python Language = "python"
	C      Language = "c"
	Go     Language = "go"
)

// Parse canonicalizes a language tag. Matching is case-insensitive.
// The second return value reports whether the tag names a known language.
func Parse(tag string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(tag))) {
	case Python:
		return Python, true
	case C:
		return C, true
	case Go:
		return Go, true
	default:
		return Language(tag), false
	}
}
