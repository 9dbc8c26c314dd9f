package entities

import (
	"fmt"
	"strings"
)

// Span is a half-open byte range [Start, End) inside raw file content.
type Span struct {
	Start int
	End   int
}

// Of returns the text covered by the span.
func (s Span) Of(content string) string {
	return content[s.Start:s.End]
}

// Declaration is one located dependency declaration inside a file.
type Declaration struct {
	Span        Span
	Name        string
	Requirement string
	Source      Source
	// Property is set when the version is declared through a placeholder,
	// PropertySpan then points at the placeholder's definition.
	Property     string
	PropertySpan *Span
}

// ReplaceInSpan substitutes the first occurrence of old inside span with replacement.
// Every byte outside the span is kept.
func ReplaceInSpan(content string, span Span, old, replacement string) (string, error) {
	if span.Start < 0 || span.End > len(content) || span.Start > span.End {
		return "", fmt.Errorf("span %d..%d is outside the content", span.Start, span.End)
	}
	scope := content[span.Start:span.End]
	index := strings.Index(scope, old)
	if old == "" || index < 0 {
		return "", fmt.Errorf("%q not found in declaration", old)
	}
	start := span.Start + index
	return content[:start] + replacement + content[start+len(old):], nil
}
