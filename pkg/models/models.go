// Package models defines data structures shared across the application.
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResolvedRow maps a deduplicated header name to the text value of one data row.
type ResolvedRow map[string]string

// CanonicalIssue is one reconciled issue as stored in the canonical table.
type CanonicalIssue struct {
	// IssueKey is the unique issue identifier (e.g., "ABC-123")
	IssueKey string `json:"issue_key"`

	// Summary is the issue's title, empty when the export has no summary column
	Summary string `json:"summary"`

	// Status is the workflow status exactly as exported (e.g., "Done", "Finalizada")
	Status string `json:"status"`

	// SprintPlanned is the sprint with the lowest number, empty when the issue has no sprint
	SprintPlanned string `json:"sprint_planned,omitempty"`

	// SprintDone is the sprint with the highest number, set only for completed issues
	SprintDone string `json:"sprint_done,omitempty"`

	// SprintList holds every distinct sprint referenced by the row, in first-seen order
	SprintList []string `json:"sprint_list,omitempty"`

	// SortNum is the number extracted from SprintPlanned, 0 when there is none
	SortNum int `json:"sort_num"`

	// Raw is the full source row, nil when raw retention is disabled
	Raw ResolvedRow `json:"raw,omitempty"`
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	// RunID identifies the run in logs
	RunID uuid.UUID `json:"run_id"`

	// Rows is the number of canonical issues written
	Rows int `json:"rows"`

	// Dropped counts data rows skipped because their key was empty
	Dropped int `json:"dropped"`

	// Duplicates counts rows collapsed into an earlier row with the same key
	Duplicates int `json:"duplicates"`

	// ElapsedMS is the wall time of the run in milliseconds
	ElapsedMS int64 `json:"elapsed_ms"`

	// Preview holds the first few canonical issues of the batch
	Preview []CanonicalIssue `json:"preview"`
}

// SprintKPI is one row of vw_kpi_sprint.
type SprintKPI struct {
	Sprint       string `db:"sprint" json:"sprint"`
	SortNum      int    `db:"sort_num" json:"sort_num"`
	PlannedCount int    `db:"planned_count" json:"planned_count"`
	DoneCount    int    `db:"done_count" json:"done_count"`
}

// SprintVelocity is one row of vw_velocity_sp.
type SprintVelocity struct {
	Sprint     string          `db:"sprint" json:"sprint"`
	SortNum    int             `db:"sort_num" json:"sort_num"`
	VelocitySP decimal.Decimal `db:"velocity_sp" json:"velocity_sp"`
}

// SprintRollover is one row of vw_rollover.
type SprintRollover struct {
	Sprint        string `db:"sprint" json:"sprint"`
	SortNum       int    `db:"sort_num" json:"sort_num"`
	RolloverCount int    `db:"rollover_count" json:"rollover_count"`
}

// EpicCompletion is one row of vw_epic_completion.
type EpicCompletion struct {
	Epic         string              `db:"epic" json:"epic"`
	PlannedCount int                 `db:"planned_count" json:"planned_count"`
	DoneCount    int                 `db:"done_count" json:"done_count"`
	PctDone      decimal.NullDecimal `db:"pct_done" json:"pct_done"`
}

// SprintLeadTime is one row of vw_lead_time. Sprint is empty for issues
// resolved outside any completed sprint.
type SprintLeadTime struct {
	Sprint  *string             `db:"sprint" json:"sprint"`
	SortNum *int                `db:"sort_num" json:"sort_num"`
	AvgDays decimal.NullDecimal `db:"leadtime_days_avg" json:"leadtime_days_avg"`
	P50Days decimal.NullDecimal `db:"leadtime_days_p50" json:"leadtime_days_p50"`
}
