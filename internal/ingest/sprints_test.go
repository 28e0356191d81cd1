package ingest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielolaszy/sprintlens/pkg/models"
)

func TestSprintOrdinal(t *testing.T) {
	testCases := []struct {
		name     string
		expected int
	}{
		{name: "Sprint 3", expected: 3},
		{name: "Sprint 10", expected: 10},
		{name: "Sprint 12B", expected: 12},
		{name: "Backlog", expected: 0},
		{name: "", expected: 0},
		{name: "Q3 Sprint 7", expected: 3},
		{name: "Sprint 007", expected: 7},
		{name: "Sprint 99999999999", expected: math.MaxInt32},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SprintOrdinal(tc.name))
		})
	}
}

func TestUnifySprints(t *testing.T) {
	testCases := []struct {
		name     string
		row      models.ResolvedRow
		columns  []string
		expected []string
	}{
		{
			name:     "Single column with several sprints",
			row:      models.ResolvedRow{"Sprint": "Sprint 1, Sprint 2"},
			columns:  []string{"Sprint"},
			expected: []string{"Sprint 1", "Sprint 2"},
		},
		{
			name: "Repeated columns keep first-seen order and drop duplicates",
			row: models.ResolvedRow{
				"Sprint":    "Sprint 3",
				"Sprint__2": "Sprint 1;Sprint 3",
				"Sprint__3": "",
			},
			columns:  []string{"Sprint", "Sprint__2", "Sprint__3"},
			expected: []string{"Sprint 3", "Sprint 1"},
		},
		{
			name:     "Runs of separators and blank pieces",
			row:      models.ResolvedRow{"Sprint": " ;, Sprint 4 ;;, ,Sprint 5; "},
			columns:  []string{"Sprint"},
			expected: []string{"Sprint 4", "Sprint 5"},
		},
		{
			name:     "Dedup is exact match",
			row:      models.ResolvedRow{"Sprint": "Sprint 1, sprint 1"},
			columns:  []string{"Sprint"},
			expected: []string{"Sprint 1", "sprint 1"},
		},
		{
			name:     "No sprint columns",
			row:      models.ResolvedRow{"Key": "A-1"},
			columns:  nil,
			expected: nil,
		},
		{
			name:     "Whitespace-only cell",
			row:      models.ResolvedRow{"Sprint": "   "},
			columns:  []string{"Sprint"},
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, UnifySprints(tc.row, tc.columns))
		})
	}
}

func TestIsDone(t *testing.T) {
	vocab := DefaultVocabulary()

	testCases := []struct {
		status   string
		expected bool
	}{
		{status: "Done", expected: true},
		{status: "DONE", expected: true},
		{status: "Finalizado", expected: true},
		{status: "finalizada", expected: true},
		{status: "Validado por QA", expected: true},
		{status: "Validado PO", expected: true},
		{status: "In Progress", expected: false},
		{status: "Validando", expected: false},
		{status: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			assert.Equal(t, tc.expected, vocab.IsDone(tc.status))
		})
	}
}

func TestIsDoneIgnoresBlankTokens(t *testing.T) {
	vocab := Vocabulary{DoneTokens: []string{"", "  "}}
	assert.False(t, vocab.IsDone("In Progress"))
}

func TestPlanSprints(t *testing.T) {
	testCases := []struct {
		name     string
		sprints  []string
		done     bool
		expected SprintPlan
	}{
		{
			name:     "No sprints",
			sprints:  nil,
			done:     true,
			expected: SprintPlan{},
		},
		{
			name:     "Ordered by number, done",
			sprints:  []string{"Sprint 10", "Sprint 3", "Sprint 2"},
			done:     true,
			expected: SprintPlan{Planned: "Sprint 2", Done: "Sprint 10", SortNum: 2},
		},
		{
			name:     "Ordered by number, not done",
			sprints:  []string{"Sprint 10", "Sprint 3", "Sprint 2"},
			done:     false,
			expected: SprintPlan{Planned: "Sprint 2", SortNum: 2},
		},
		{
			name:     "Ties keep unification order",
			sprints:  []string{"Backlog", "Sprint A", "Sprint 1"},
			done:     true,
			expected: SprintPlan{Planned: "Backlog", Done: "Sprint 1", SortNum: 0},
		},
		{
			name:     "Single sprint is both planned and done",
			sprints:  []string{"Sprint 5"},
			done:     true,
			expected: SprintPlan{Planned: "Sprint 5", Done: "Sprint 5", SortNum: 5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PlanSprints(tc.sprints, tc.done))
		})
	}
}

func TestPlanSprintsDoesNotReorderInput(t *testing.T) {
	sprints := []string{"Sprint 10", "Sprint 3"}
	PlanSprints(sprints, true)
	assert.Equal(t, []string{"Sprint 10", "Sprint 3"}, sprints)
}
