// Package store persists canonical issues in Postgres and reads the report
// views derived from them.
package store

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danielolaszy/sprintlens/internal/logging"
	"github.com/danielolaszy/sprintlens/pkg/models"
)

const (
	// IssuesTable is the canonical collection.
	IssuesTable = "jira_csv_issues"

	// DefaultBatchSize is the number of rows sent per COPY.
	DefaultBatchSize = 1000

	lockIssuesSQL     = `LOCK TABLE jira_csv_issues IN ACCESS EXCLUSIVE MODE`
	truncateIssuesSQL = `TRUNCATE TABLE jira_csv_issues`
)

var issueColumns = []string{
	"issue_key",
	"summary",
	"status",
	"sprint_planned",
	"sprint_done",
	"sprint_list",
	"sort_num",
	"raw",
}

// Tx is the part of pgx.Tx the writer needs.
type Tx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store writes canonical issues to Postgres.
type Store struct {
	begin     func(ctx context.Context) (Tx, error)
	batchSize int
}

// NewStore creates a Store on top of a connection pool.
func NewStore(pool *pgxpool.Pool, batchSize int) *Store {
	return newStore(func(ctx context.Context) (Tx, error) {
		return pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	}, batchSize)
}

func newStore(begin func(ctx context.Context) (Tx, error), batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{begin: begin, batchSize: batchSize}
}

// ReplaceAll swaps the contents of the canonical table for issues in a
// single transaction. The table is locked exclusively until commit, so
// concurrent replaces run one after the other and readers see either the
// old or the new dataset. On error the transaction is rolled back.
func (s *Store) ReplaceAll(ctx context.Context, issues []models.CanonicalIssue) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, lockIssuesSQL); err != nil {
		return errors.Wrap(err, "lock issues table")
	}
	if _, err := tx.Exec(ctx, truncateIssuesSQL); err != nil {
		return errors.Wrap(err, "truncate issues table")
	}

	for start := 0; start < len(issues); start += s.batchSize {
		end := min(start+s.batchSize, len(issues))
		chunk := issues[start:end]

		n, err := tx.CopyFrom(ctx, pgx.Identifier{IssuesTable}, issueColumns,
			pgx.CopyFromSlice(len(chunk), func(i int) ([]any, error) {
				return issueValues(chunk[i])
			}))
		if err != nil {
			return errors.Wrapf(err, "copy issues %d-%d", start, end)
		}
		if int(n) != len(chunk) {
			return errors.Errorf("copy issues %d-%d: wrote %d rows, want %d", start, end, n, len(chunk))
		}
		logging.Debug("copied issue batch", "from", start, "to", end)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

// issueValues encodes an issue in issueColumns order. Absent sprint fields
// and raw rows become NULL.
func issueValues(issue models.CanonicalIssue) ([]any, error) {
	var raw any
	if issue.Raw != nil {
		b, err := json.Marshal(issue.Raw)
		if err != nil {
			return nil, errors.Wrapf(err, "encode raw row of %s", issue.IssueKey)
		}
		raw = b
	}

	var sprintList any
	if len(issue.SprintList) > 0 {
		sprintList = issue.SprintList
	}

	return []any{
		issue.IssueKey,
		issue.Summary,
		issue.Status,
		nullString(issue.SprintPlanned),
		nullString(issue.SprintDone),
		sprintList,
		issue.SortNum,
		raw,
	}, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
