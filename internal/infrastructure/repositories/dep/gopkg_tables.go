package dep

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const (
	tableConstraint = "constraint"
	tableOverride   = "override"
	tableProjects   = "projects"
)

var arrayTableHeader = regexp.MustCompile(`^\[\[\s*([A-Za-z0-9_.-]+)\s*\]\]`)

// gopkgProject is the subset of keys dep reads from a constraint, override or locked project.
type gopkgProject struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Branch   string `toml:"branch"`
	Revision string `toml:"revision"`
	Source   string `toml:"source"`
}

type gopkgDocument struct {
	Constraints []gopkgProject `toml:"constraint"`
	Overrides   []gopkgProject `toml:"override"`
	Projects    []gopkgProject `toml:"projects"`
}

func (d gopkgDocument) entries(table string) []gopkgProject {
	switch table {
	case tableConstraint:
		return d.Constraints
	case tableOverride:
		return d.Overrides
	default:
		return d.Projects
	}
}

// gopkgTable is one [[table]] entry: its span in the raw text and its decoded keys.
// The span runs from the header to the last non-blank line before the next header.
type gopkgTable struct {
	kind    string
	span    entities.Span
	project gopkgProject
}

// scanTables walks the raw text for array-of-table entries of the wanted kinds.
// Each entry is decoded on its own so the offsets and the values always agree.
func scanTables(content string, kinds ...string) ([]gopkgTable, error) {
	var tables []gopkgTable
	current := -1
	kind := ""
	end := 0
	offset := 0

	closeTable := func() error {
		if current < 0 || !contains(kinds, kind) {
			return nil
		}
		span := entities.Span{Start: current, End: end}
		var document gopkgDocument
		if err := toml.Unmarshal([]byte(span.Of(content)), &document); err != nil {
			return fmt.Errorf("failed to decode [[%s]] at byte %d: %w", kind, current, err)
		}
		entries := document.entries(kind)
		if len(entries) != 1 {
			return fmt.Errorf("expected one [[%s]] entry at byte %d, got %d", kind, current, len(entries))
		}
		tables = append(tables, gopkgTable{kind: kind, span: span, project: entries[0]})
		return nil
	}

	for _, line := range strings.SplitAfter(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			if err := closeTable(); err != nil {
				return nil, err
			}
			current, kind = offset, ""
			if match := arrayTableHeader.FindStringSubmatch(trimmed); match != nil {
				kind = match[1]
			}
		}
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			end = offset + len(line)
		}
		offset += len(line)
	}
	if err := closeTable(); err != nil {
		return nil, err
	}
	return tables, nil
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

func keyPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*)` + regexp.QuoteMeta(key) + `[ \t]*=[ \t]*"([^"\n]*)"[^\n]*$`)
}

// valueSpan returns the span of the quoted value of key inside span, quotes excluded.
func valueSpan(content string, span entities.Span, key string) (entities.Span, bool) {
	match := keyPattern(key).FindStringSubmatchIndex(span.Of(content))
	if match == nil {
		return entities.Span{}, false
	}
	return entities.Span{Start: span.Start + match[4], End: span.Start + match[5]}, true
}

// assignmentSpan returns the span of the whole "key = value" line inside span
// (newline excluded) and its indentation.
func assignmentSpan(content string, span entities.Span, key string) (entities.Span, string, bool) {
	scope := span.Of(content)
	match := keyPattern(key).FindStringSubmatchIndex(scope)
	if match == nil {
		return entities.Span{}, "", false
	}
	return entities.Span{Start: span.Start + match[0], End: span.Start + match[1]}, scope[match[2]:match[3]], true
}
