package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/sprintlens/pkg/models"
)

func newMockReports(t *testing.T) (*Reports, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewReports(sqlx.NewDb(db, "sqlmock")), mock
}

func TestSprintKPIs(t *testing.T) {
	r, mock := newMockReports(t)

	mock.ExpectQuery(regexp.QuoteMeta(sprintKPISQL)).
		WillReturnRows(sqlmock.NewRows([]string{"sprint", "sort_num", "planned_count", "done_count"}).
			AddRow("Sprint 0 - Unassigned", 0, 4, 1).
			AddRow("Sprint 1", 1, 10, 7))

	got, err := r.SprintKPIs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.SprintKPI{
		{Sprint: "Sprint 0 - Unassigned", SortNum: 0, PlannedCount: 4, DoneCount: 1},
		{Sprint: "Sprint 1", SortNum: 1, PlannedCount: 10, DoneCount: 7},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVelocity(t *testing.T) {
	r, mock := newMockReports(t)

	mock.ExpectQuery(regexp.QuoteMeta(velocitySQL)).
		WillReturnRows(sqlmock.NewRows([]string{"sprint", "sort_num", "velocity_sp"}).
			AddRow("Sprint 2", 2, "13.5"))

	got, err := r.Velocity(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sprint 2", got[0].Sprint)
	assert.True(t, decimal.RequireFromString("13.5").Equal(got[0].VelocitySP))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRolloverEmpty(t *testing.T) {
	r, mock := newMockReports(t)

	mock.ExpectQuery(regexp.QuoteMeta(rolloverSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"sprint", "sort_num", "rollover_count"}))

	got, err := r.Rollover(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEpicCompletion(t *testing.T) {
	r, mock := newMockReports(t)

	mock.ExpectQuery(regexp.QuoteMeta(epicCompletionSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"epic", "planned_count", "done_count", "pct_done"}).
			AddRow("Checkout", 4, 3, "75.0").
			AddRow("No epic", 0, 0, nil))

	got, err := r.EpicCompletion(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].PctDone.Valid)
	assert.True(t, decimal.NewFromInt(75).Equal(got[0].PctDone.Decimal))
	assert.False(t, got[1].PctDone.Valid)
}

func TestLeadTime(t *testing.T) {
	r, mock := newMockReports(t)

	mock.ExpectQuery(regexp.QuoteMeta(leadTimeSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"sprint", "sort_num", "leadtime_days_avg", "leadtime_days_p50"}).
			AddRow("Sprint 1", 1, "4.25", "3.00").
			AddRow(nil, nil, "9.00", "9.00"))

	got, err := r.LeadTime(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Sprint)
	assert.Equal(t, "Sprint 1", *got[0].Sprint)
	assert.Nil(t, got[1].Sprint)
	assert.Nil(t, got[1].SortNum)
	assert.True(t, decimal.RequireFromString("4.25").Equal(got[0].AvgDays.Decimal))
}

func TestReportQueryError(t *testing.T) {
	r, mock := newMockReports(t)
	boom := errors.New("relation does not exist")

	mock.ExpectQuery(regexp.QuoteMeta(velocitySQL)).WillReturnError(boom)

	_, err := r.Velocity(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "vw_velocity_sp")
}

func TestByName(t *testing.T) {
	r, mock := newMockReports(t)

	mock.ExpectQuery(regexp.QuoteMeta(rolloverSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"sprint", "sort_num", "rollover_count"}).
			AddRow("Sprint 3", 3, 2))

	got, err := r.ByName(context.Background(), ReportRollover)
	require.NoError(t, err)
	assert.Equal(t, []models.SprintRollover{{Sprint: "Sprint 3", SortNum: 3, RolloverCount: 2}}, got)

	_, err = r.ByName(context.Background(), "burndown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownReport))
	assert.NoError(t, mock.ExpectationsWereMet())
}
