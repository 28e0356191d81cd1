package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/danielolaszy/sprintlens/internal/ingest"
	"github.com/danielolaszy/sprintlens/internal/logging"
	"github.com/danielolaszy/sprintlens/internal/store"
	"github.com/danielolaszy/sprintlens/pkg/models"
)

type uploadResponse struct {
	OK bool `json:"ok"`
	*models.IngestResult
}

type errorResponse struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error"`
	Headers []string `json:"headers,omitempty"`
}

type reportResponse struct {
	OK     bool   `json:"ok"`
	Report string `json:"report"`
	Rows   any    `json:"rows"`
}

type reportListResponse struct {
	OK      bool     `json:"ok"`
	Reports []string `json:"reports"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, errors.Errorf("upload exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, errors.New("missing file field"))
		default:
			writeError(w, http.StatusBadRequest, errors.Wrap(err, "parse multipart form"))
		}
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "read upload"))
		return
	}

	start := time.Now()
	result, err := s.ingester.Ingest(r.Context(), content)
	if err != nil {
		s.writeIngestError(w, start, err)
		return
	}
	s.metrics.observe(resultSuccess, time.Since(start), result)

	writeJSON(w, http.StatusOK, uploadResponse{OK: true, IngestResult: result})
}

func (s *Server) writeIngestError(w http.ResponseWriter, start time.Time, err error) {
	if !ingest.IsClientError(err) {
		s.metrics.observe(resultWriteError, time.Since(start), nil)
		logging.Error("ingestion failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.metrics.observe(resultClientError, time.Since(start), nil)

	var missing *ingest.MissingKeyColumnError
	if errors.As(err, &missing) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Headers: missing.Headers})
		return
	}
	writeError(w, http.StatusBadRequest, err)
}

func (s *Server) handleReportList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, reportListResponse{OK: true, Reports: store.ReportNames})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	rows, err := s.reports.ByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrUnknownReport) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		logging.Error("report query failed", "report", name, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{OK: true, Report: name, Rows: rows})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		if err := s.opts.Health.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, errors.Wrap(err, "database unreachable"))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("writing response failed", "error", err)
	}
}
