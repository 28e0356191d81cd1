// Package server exposes the ingestion pipeline and the report views over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/danielolaszy/sprintlens/internal/logging"
	"github.com/danielolaszy/sprintlens/pkg/models"
)

// DefaultMaxUploadBytes caps multipart uploads when Options leaves it unset.
const DefaultMaxUploadBytes int64 = 32 << 20

// Ingester runs one ingestion over uploaded bytes.
type Ingester interface {
	Ingest(ctx context.Context, content []byte) (*models.IngestResult, error)
}

// ReportSource returns the rows of a named report.
type ReportSource interface {
	ByName(ctx context.Context, name string) (any, error)
}

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	MaxUploadBytes     int64
	CORSAllowedOrigins []string

	// Health is pinged by /healthz when set.
	Health Pinger
}

// Server routes uploads and report queries.
type Server struct {
	ingester Ingester
	reports  ReportSource
	opts     Options
	metrics  *metrics
}

// New creates a Server. reports may be nil, in which case report routes are
// not registered.
func New(ingester Ingester, reports ReportSource, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{
		ingester: ingester,
		reports:  reports,
		opts:     opts,
		metrics:  metricsSingleton(),
	}
}

// Router registers every route on a new mux.Router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/upload", s.handleUpload).Methods(http.MethodPost)
	if s.reports != nil {
		r.HandleFunc("/api/reports", s.handleReportList).Methods(http.MethodGet)
		r.HandleFunc("/api/reports/{name}", s.handleReport).Methods(http.MethodGet)
	}
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// Handler wraps the router with CORS and gzip compression.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	})
	return c.Handler(gziphandler.GzipHandler(s.Router()))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
