package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/danielolaszy/sprintlens/internal/config"
	"github.com/danielolaszy/sprintlens/internal/logging"
	"github.com/danielolaszy/sprintlens/internal/server"
	"github.com/danielolaszy/sprintlens/internal/store"
)

const shutdownTimeout = 10 * time.Second

// serveCmd runs the upload and report HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload endpoint and report API",
	Long: `Start the HTTP server.

POST a multipart form with a "file" field to / or /api/upload to replace the
issues table with the contents of a Jira export. Reports are available at
/api/reports/{name}, metrics at /metrics and a health check at /healthz.

Example:
  curl -F file=@jira.csv http://localhost:8080/api/upload`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pool, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.Server.AutoMigrate {
			if err := store.Migrate(ctx, pool); err != nil {
				return err
			}
		}

		srv := server.New(
			newIngester(cfg, pool),
			store.NewReports(store.SQLX(pool)),
			server.Options{
				MaxUploadBytes:     int64(cfg.Server.MaxUploadMB) << 20,
				CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
				Health:             pool,
			},
		)

		httpServer := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logging.Info("http server listening", "addr", cfg.Server.Addr)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "http server")
			}
			return nil
		case <-ctx.Done():
		}

		logging.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown http server")
		}
		return nil
	},
}
