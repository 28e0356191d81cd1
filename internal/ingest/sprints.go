package ingest

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/danielolaszy/sprintlens/pkg/models"
)

var (
	sprintSeparators = regexp.MustCompile(`[;,]+`)
	digitRun         = regexp.MustCompile(`[0-9]+`)
)

// SprintPlan holds the sprint fields derived for one issue.
type SprintPlan struct {
	Planned string
	Done    string
	SortNum int
}

// UnifySprints collects the distinct sprint names referenced by a row,
// scanning columns in the given order. Cells may list several sprints
// separated by ';' or ','.
func UnifySprints(row models.ResolvedRow, columns []string) []string {
	var sprints []string
	seen := make(map[string]bool)

	for _, col := range columns {
		text := strings.TrimSpace(row[col])
		if text == "" {
			continue
		}
		for _, part := range sprintSeparators.Split(text, -1) {
			name := strings.TrimSpace(part)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			sprints = append(sprints, name)
		}
	}

	return sprints
}

// SprintOrdinal returns the first run of digits in name, or 0 if there is
// none. Values past the int32 range saturate.
func SprintOrdinal(name string) int {
	digits := digitRun.FindString(name)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return math.MaxInt32
	}
	return int(n)
}

// IsDone reports whether status contains one of the done tokens,
// ignoring case.
func (v Vocabulary) IsDone(status string) bool {
	s := strings.ToLower(status)
	for _, token := range v.DoneTokens {
		t := strings.ToLower(strings.TrimSpace(token))
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// PlanSprints orders sprints by number (ties keep their order) and picks
// the first as planned and, for completed issues, the last as done.
func PlanSprints(sprints []string, done bool) SprintPlan {
	if len(sprints) == 0 {
		return SprintPlan{}
	}

	ordered := make([]string, len(sprints))
	copy(ordered, sprints)
	sort.SliceStable(ordered, func(i, j int) bool {
		return SprintOrdinal(ordered[i]) < SprintOrdinal(ordered[j])
	})

	plan := SprintPlan{
		Planned: ordered[0],
		SortNum: SprintOrdinal(ordered[0]),
	}
	if done {
		plan.Done = ordered[len(ordered)-1]
	}
	return plan
}
