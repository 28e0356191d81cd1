package ingest

import (
	"fmt"
	"strings"
)

// Vocabulary holds the locale-dependent names the pipeline matches against.
// Column candidates are tried in order; the first one present wins.
type Vocabulary struct {
	KeyColumns     []string
	SummaryColumns []string
	StatusColumns  []string

	// DoneTokens are matched as case-insensitive substrings of the status.
	DoneTokens []string

	// SprintPrefix selects sprint columns by lower-cased header prefix.
	SprintPrefix string
}

// DefaultVocabulary covers English and Spanish Jira exports.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		KeyColumns:     []string{"key", "issue key", "clave de incidencia", "clave principal", "clave", "id"},
		SummaryColumns: []string{"summary", "resumen"},
		StatusColumns:  []string{"status", "estado"},
		DoneTokens:     []string{"done", "finaliz", "validado po"},
		SprintPrefix:   "sprint",
	}
}

// Merge returns v with every non-empty field of o replacing the original.
func (v Vocabulary) Merge(o Vocabulary) Vocabulary {
	if len(o.KeyColumns) > 0 {
		v.KeyColumns = o.KeyColumns
	}
	if len(o.SummaryColumns) > 0 {
		v.SummaryColumns = o.SummaryColumns
	}
	if len(o.StatusColumns) > 0 {
		v.StatusColumns = o.StatusColumns
	}
	if len(o.DoneTokens) > 0 {
		v.DoneTokens = o.DoneTokens
	}
	if strings.TrimSpace(o.SprintPrefix) != "" {
		v.SprintPrefix = o.SprintPrefix
	}
	return v
}

// Columns is the result of mapping semantic roles onto physical headers.
// Summary and Status are empty when unresolved.
type Columns struct {
	Key     string
	Summary string
	Status  string
	Sprints []string
}

// DedupeHeaders trims header names and suffixes repeated names with __2,
// __3, ... so that every name is unique. The first occurrence keeps its name.
func DedupeHeaders(raw []string) []string {
	seen := make(map[string]int, len(raw))
	taken := make(map[string]bool, len(raw))
	headers := make([]string, len(raw))

	for i, h := range raw {
		base := strings.TrimSpace(h)
		seen[base]++
		name := base
		if n := seen[base]; n > 1 {
			name = fmt.Sprintf("%s__%d", base, n)
		}
		// A literal "X__2" header can collide with a generated one.
		for taken[name] {
			seen[base]++
			name = fmt.Sprintf("%s__%d", base, seen[base])
		}
		taken[name] = true
		headers[i] = name
	}

	return headers
}

// ResolveColumns maps the key, summary and status roles onto headers and
// collects the sprint columns. It fails only when no key column exists.
func ResolveColumns(headers []string, v Vocabulary) (Columns, error) {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(h)
	}

	find := func(candidates []string) string {
		for _, c := range candidates {
			want := strings.ToLower(c)
			for i, h := range lower {
				if h == want {
					return headers[i]
				}
			}
		}
		return ""
	}

	cols := Columns{
		Key:     find(v.KeyColumns),
		Summary: find(v.SummaryColumns),
		Status:  find(v.StatusColumns),
		Sprints: SprintColumns(headers, v.SprintPrefix),
	}
	if cols.Key == "" {
		return Columns{}, &MissingKeyColumnError{Headers: headers}
	}

	return cols, nil
}

// SprintColumns returns, in header order, every header whose lower-cased
// name starts with prefix.
func SprintColumns(headers []string, prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultVocabulary().SprintPrefix
	}

	var cols []string
	for _, h := range headers {
		if strings.HasPrefix(strings.ToLower(h), prefix) {
			cols = append(cols, h)
		}
	}
	return cols
}
