package store

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"github.com/danielolaszy/sprintlens/pkg/models"
)

// Report names accepted by Reports.ByName.
const (
	ReportSprintKPI      = "kpi-sprint"
	ReportVelocity       = "velocity"
	ReportRollover       = "rollover"
	ReportEpicCompletion = "epic-completion"
	ReportLeadTime       = "lead-time"
)

// ErrUnknownReport is returned by ByName for names not in ReportNames.
var ErrUnknownReport = errors.New("unknown report")

// ReportNames lists every report in display order.
var ReportNames = []string{
	ReportSprintKPI,
	ReportVelocity,
	ReportRollover,
	ReportEpicCompletion,
	ReportLeadTime,
}

const (
	sprintKPISQL = `SELECT sprint, sort_num, planned_count, done_count
FROM vw_kpi_sprint ORDER BY sort_num, sprint`

	velocitySQL = `SELECT sprint, sort_num, velocity_sp
FROM vw_velocity_sp ORDER BY sort_num, sprint`

	rolloverSQL = `SELECT sprint, sort_num, rollover_count
FROM vw_rollover ORDER BY sort_num, sprint`

	epicCompletionSQL = `SELECT epic, planned_count, done_count, pct_done
FROM vw_epic_completion ORDER BY pct_done DESC NULLS LAST, planned_count DESC, epic`

	leadTimeSQL = `SELECT sprint, sort_num, leadtime_days_avg, leadtime_days_p50
FROM vw_lead_time ORDER BY sort_num NULLS LAST, sprint`
)

// Reports reads the metric views computed over the canonical table.
type Reports struct {
	db *sqlx.DB
}

// NewReports creates a Reports reader.
func NewReports(db *sqlx.DB) *Reports {
	return &Reports{db: db}
}

// SprintKPIs returns planned and done counts per planned sprint.
func (r *Reports) SprintKPIs(ctx context.Context) ([]models.SprintKPI, error) {
	out := []models.SprintKPI{}
	if err := r.db.SelectContext(ctx, &out, sprintKPISQL); err != nil {
		return nil, errors.Wrap(err, "query vw_kpi_sprint")
	}
	return out, nil
}

// Velocity returns the story points completed per done sprint.
func (r *Reports) Velocity(ctx context.Context) ([]models.SprintVelocity, error) {
	out := []models.SprintVelocity{}
	if err := r.db.SelectContext(ctx, &out, velocitySQL); err != nil {
		return nil, errors.Wrap(err, "query vw_velocity_sp")
	}
	return out, nil
}

// Rollover returns, per done sprint, how many issues finished in a later
// sprint than planned.
func (r *Reports) Rollover(ctx context.Context) ([]models.SprintRollover, error) {
	out := []models.SprintRollover{}
	if err := r.db.SelectContext(ctx, &out, rolloverSQL); err != nil {
		return nil, errors.Wrap(err, "query vw_rollover")
	}
	return out, nil
}

// EpicCompletion returns the share of done issues per epic.
func (r *Reports) EpicCompletion(ctx context.Context) ([]models.EpicCompletion, error) {
	out := []models.EpicCompletion{}
	if err := r.db.SelectContext(ctx, &out, epicCompletionSQL); err != nil {
		return nil, errors.Wrap(err, "query vw_epic_completion")
	}
	return out, nil
}

// LeadTime returns average and median days from creation to resolution.
func (r *Reports) LeadTime(ctx context.Context) ([]models.SprintLeadTime, error) {
	out := []models.SprintLeadTime{}
	if err := r.db.SelectContext(ctx, &out, leadTimeSQL); err != nil {
		return nil, errors.Wrap(err, "query vw_lead_time")
	}
	return out, nil
}

// ByName runs the report with the given name.
func (r *Reports) ByName(ctx context.Context, name string) (any, error) {
	switch name {
	case ReportSprintKPI:
		return r.SprintKPIs(ctx)
	case ReportVelocity:
		return r.Velocity(ctx)
	case ReportRollover:
		return r.Rollover(ctx)
	case ReportEpicCompletion:
		return r.EpicCompletion(ctx)
	case ReportLeadTime:
		return r.LeadTime(ctx)
	default:
		return nil, errors.Wrapf(ErrUnknownReport, "%q", name)
	}
}
