package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeHeaders(t *testing.T) {
	testCases := []struct {
		name     string
		raw      []string
		expected []string
	}{
		{
			name:     "Unique headers are only trimmed",
			raw:      []string{" Key ", "Summary", "Status\t"},
			expected: []string{"Key", "Summary", "Status"},
		},
		{
			name:     "Repeated sprint columns",
			raw:      []string{"Key", "Sprint", "Sprint", "Sprint"},
			expected: []string{"Key", "Sprint", "Sprint__2", "Sprint__3"},
		},
		{
			name:     "Trimming makes names collide",
			raw:      []string{"Sprint", " Sprint "},
			expected: []string{"Sprint", "Sprint__2"},
		},
		{
			name:     "Literal suffixed header after a generated one",
			raw:      []string{"X", "X", "X__2"},
			expected: []string{"X", "X__2", "X__2__2"},
		},
		{
			name:     "Literal suffixed header before a repeat",
			raw:      []string{"X__2", "X", "X"},
			expected: []string{"X__2", "X", "X__3"},
		},
		{
			name:     "Empty headers",
			raw:      []string{"", ""},
			expected: []string{"", "__2"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DedupeHeaders(tc.raw))
		})
	}
}

func TestDedupeHeadersProducesDistinctNames(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d occurrences", n), func(t *testing.T) {
			raw := make([]string, n)
			for i := range raw {
				raw[i] = "Sprint"
			}

			headers := DedupeHeaders(raw)
			require.Len(t, headers, n)

			distinct := make(map[string]bool)
			unsuffixed := 0
			for _, h := range headers {
				distinct[h] = true
				if !strings.Contains(h, "__") {
					unsuffixed++
				}
			}
			assert.Len(t, distinct, n)
			assert.Equal(t, 1, unsuffixed)
		})
	}
}

func TestResolveColumns(t *testing.T) {
	vocab := DefaultVocabulary()

	testCases := []struct {
		name     string
		headers  []string
		expected Columns
	}{
		{
			name:    "English export",
			headers: []string{"Summary", "Issue key", "Issue id", "Status", "Sprint", "Sprint__2"},
			expected: Columns{
				Key:     "Issue key",
				Summary: "Summary",
				Status:  "Status",
				Sprints: []string{"Sprint", "Sprint__2"},
			},
		},
		{
			name:    "Spanish export",
			headers: []string{"Resumen", "Clave de incidencia", "Estado", "Sprint"},
			expected: Columns{
				Key:     "Clave de incidencia",
				Summary: "Resumen",
				Status:  "Estado",
				Sprints: []string{"Sprint"},
			},
		},
		{
			name:    "Candidate priority beats column position",
			headers: []string{"ID", "Clave", "KEY"},
			expected: Columns{
				Key: "KEY",
			},
		},
		{
			name:    "Fallback to id",
			headers: []string{"Id", "Title"},
			expected: Columns{
				Key: "Id",
			},
		},
		{
			name:    "Sprint prefix matches any suffix",
			headers: []string{"Key", "Sprint Name", "sprints", "Last Sprint"},
			expected: Columns{
				Key:     "Key",
				Sprints: []string{"Sprint Name", "sprints"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cols, err := ResolveColumns(tc.headers, vocab)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cols)
		})
	}
}

func TestResolveColumnsMissingKey(t *testing.T) {
	headers := []string{"Summary", "Status", "Sprint"}

	_, err := ResolveColumns(headers, DefaultVocabulary())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingKeyColumn))

	var mk *MissingKeyColumnError
	require.True(t, errors.As(err, &mk))
	assert.Equal(t, headers, mk.Headers)
	assert.Contains(t, err.Error(), "Summary, Status, Sprint")
}

func TestResolveColumnsCustomVocabulary(t *testing.T) {
	vocab := DefaultVocabulary().Merge(Vocabulary{
		KeyColumns:   []string{"Ticket"},
		SprintPrefix: "iteration",
	})

	cols, err := ResolveColumns([]string{"Ticket", "Key", "Iteration", "Sprint"}, vocab)
	require.NoError(t, err)
	assert.Equal(t, "Ticket", cols.Key)
	assert.Equal(t, []string{"Iteration"}, cols.Sprints)
	assert.Equal(t, DefaultVocabulary().DoneTokens, vocab.DoneTokens)
}

func TestSprintColumnsEmptyPrefixUsesDefault(t *testing.T) {
	assert.Equal(t, []string{"Sprint"}, SprintColumns([]string{"Key", "Sprint"}, "  "))
}
