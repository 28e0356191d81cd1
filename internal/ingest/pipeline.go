// Package ingest turns a Jira-style export into canonical issues and hands
// them to a Writer that replaces the stored dataset.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/danielolaszy/sprintlens/internal/logging"
	"github.com/danielolaszy/sprintlens/pkg/models"
)

// DefaultPreviewSize is the number of issues echoed back in an IngestResult.
const DefaultPreviewSize = 3

// Writer replaces the canonical collection with a new batch of issues.
// Implementations must be all-or-nothing.
type Writer interface {
	ReplaceAll(ctx context.Context, issues []models.CanonicalIssue) error
}

// Batch is the output of one pipeline run, ready to be written.
type Batch struct {
	Issues     []models.CanonicalIssue
	Headers    []string
	Columns    Columns
	Dropped    int
	Duplicates int
}

// Pipeline derives canonical issues from a tokenized export. It is pure and
// safe for concurrent use.
type Pipeline struct {
	Vocabulary Vocabulary
	KeepRaw    bool
}

// Build resolves headers and applies the sprint rules to every row. Rows
// without a key are dropped. When a key repeats, the later row replaces the
// earlier one in place.
func (p Pipeline) Build(t Table) (Batch, error) {
	if t.Header == nil {
		return Batch{}, ErrEmptyInput
	}

	headers := DedupeHeaders(t.Header)
	cols, err := ResolveColumns(headers, p.Vocabulary)
	if err != nil {
		return Batch{}, err
	}

	batch := Batch{
		Issues:  make([]models.CanonicalIssue, 0, len(t.Rows)),
		Headers: headers,
		Columns: cols,
	}
	position := make(map[string]int, len(t.Rows))

	for _, fields := range t.Rows {
		row := NormalizeRow(headers, fields)

		issue, ok := p.buildIssue(row, cols)
		if !ok {
			batch.Dropped++
			continue
		}

		if i, exists := position[issue.IssueKey]; exists {
			batch.Issues[i] = issue
			batch.Duplicates++
			continue
		}
		position[issue.IssueKey] = len(batch.Issues)
		batch.Issues = append(batch.Issues, issue)
	}

	return batch, nil
}

func (p Pipeline) buildIssue(row models.ResolvedRow, cols Columns) (models.CanonicalIssue, bool) {
	key := strings.TrimSpace(row[cols.Key])
	if key == "" {
		return models.CanonicalIssue{}, false
	}

	var summary, status string
	if cols.Summary != "" {
		summary = strings.TrimSpace(row[cols.Summary])
	}
	if cols.Status != "" {
		status = strings.TrimSpace(row[cols.Status])
	}

	sprints := UnifySprints(row, cols.Sprints)
	plan := PlanSprints(sprints, p.Vocabulary.IsDone(status))

	issue := models.CanonicalIssue{
		IssueKey:      key,
		Summary:       summary,
		Status:        status,
		SprintPlanned: plan.Planned,
		SprintDone:    plan.Done,
		SprintList:    sprints,
		SortNum:       plan.SortNum,
	}
	if p.KeepRaw {
		issue.Raw = row
	}
	return issue, true
}

// Ingester runs the pipeline and writes its output.
type Ingester struct {
	pipeline    Pipeline
	writer      Writer
	previewSize int
}

// NewIngester creates an Ingester. A negative previewSize falls back to
// DefaultPreviewSize.
func NewIngester(p Pipeline, w Writer, previewSize int) *Ingester {
	if previewSize < 0 {
		previewSize = DefaultPreviewSize
	}
	return &Ingester{
		pipeline:    p,
		writer:      w,
		previewSize: previewSize,
	}
}

// Ingest tokenizes an uploaded file and replaces the canonical collection
// with its issues. Content errors are returned before the Writer is called.
func (i *Ingester) Ingest(ctx context.Context, content []byte) (*models.IngestResult, error) {
	start := time.Now()

	table, err := TokenizeUpload(content)
	if err != nil {
		logging.Warn("upload rejected", "error", err, "bytes", len(content))
		return nil, err
	}

	return i.run(ctx, start, table)
}

// IngestTable is Ingest for sources that are already tabular.
func (i *Ingester) IngestTable(ctx context.Context, t Table) (*models.IngestResult, error) {
	return i.run(ctx, time.Now(), t)
}

// Preview builds the batch without writing it.
func (i *Ingester) Preview(content []byte) (Batch, error) {
	table, err := TokenizeUpload(content)
	if err != nil {
		return Batch{}, err
	}
	return i.pipeline.Build(table)
}

func (i *Ingester) run(ctx context.Context, start time.Time, t Table) (*models.IngestResult, error) {
	runID := uuid.New()
	log := logging.With("run_id", runID.String())

	batch, err := i.pipeline.Build(t)
	if err != nil {
		log.WithError(err).Warn("ingestion rejected")
		return nil, err
	}

	log.WithField("key_column", batch.Columns.Key).
		WithField("sprint_columns", batch.Columns.Sprints).
		Debug("columns resolved")

	if err := i.writer.ReplaceAll(ctx, batch.Issues); err != nil {
		log.WithError(err).Error("replacing canonical issues failed")
		return nil, &WriteFailureError{Err: errors.Wrap(err, "replace issues")}
	}

	n := i.previewSize
	if n > len(batch.Issues) {
		n = len(batch.Issues)
	}
	preview := make([]models.CanonicalIssue, n)
	copy(preview, batch.Issues[:n])

	result := &models.IngestResult{
		RunID:      runID,
		Rows:       len(batch.Issues),
		Dropped:    batch.Dropped,
		Duplicates: batch.Duplicates,
		ElapsedMS:  time.Since(start).Milliseconds(),
		Preview:    preview,
	}

	log.WithField("rows", result.Rows).
		WithField("dropped", result.Dropped).
		WithField("duplicates", result.Duplicates).
		WithField("elapsed_ms", result.ElapsedMS).
		Info("ingestion complete")

	return result, nil
}
