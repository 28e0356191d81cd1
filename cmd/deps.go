package cmd

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danielolaszy/sprintlens/internal/config"
	"github.com/danielolaszy/sprintlens/internal/ingest"
	"github.com/danielolaszy/sprintlens/internal/logging"
	"github.com/danielolaszy/sprintlens/internal/store"
)

// vocabularyFrom applies the configured overrides to the default vocabulary.
func vocabularyFrom(cfg config.IngestConfig) ingest.Vocabulary {
	return ingest.DefaultVocabulary().Merge(ingest.Vocabulary{
		KeyColumns:     cfg.KeyColumns,
		SummaryColumns: cfg.SummaryColumns,
		StatusColumns:  cfg.StatusColumns,
		DoneTokens:     cfg.DoneTokens,
		SprintPrefix:   cfg.SprintPrefix,
	})
}

func pipelineFrom(cfg config.IngestConfig) ingest.Pipeline {
	return ingest.Pipeline{
		Vocabulary: vocabularyFrom(cfg),
		KeepRaw:    cfg.KeepRaw,
	}
}

// connect validates the database settings and opens a pool.
func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := config.ValidateDatabaseConfig(cfg); err != nil {
		return nil, err
	}

	logging.Debug("connecting to postgres",
		"host", cfg.Database.Host,
		"database", cfg.Database.Name,
		"password", logging.MaskSensitive(cfg.Database.Password))

	pool, err := store.Connect(ctx, cfg.Database.ConnString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	return pool, nil
}

// newIngester wires the pipeline to the Postgres writer.
func newIngester(cfg *config.Config, pool *pgxpool.Pool) *ingest.Ingester {
	return ingest.NewIngester(
		pipelineFrom(cfg.Ingest),
		store.NewStore(pool, cfg.Ingest.BatchSize),
		cfg.Ingest.PreviewSize,
	)
}
