package server

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielolaszy/sprintlens/pkg/models"
)

const (
	resultSuccess     = "success"
	resultClientError = "client_error"
	resultWriteError  = "write_error"
)

type metrics struct {
	runsTotal *prometheus.CounterVec
	rowsTotal *prometheus.CounterVec
	duration  prometheus.Histogram
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		runsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sprintlens",
			Name:      "ingest_runs_total",
			Help:      "Total number of ingestion runs by result.",
		}, []string{"result"}),
		rowsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sprintlens",
			Name:      "ingest_rows_total",
			Help:      "Total number of data rows seen by outcome.",
		}, []string{"outcome"}),
		duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sprintlens",
			Name:      "ingest_duration_seconds",
			Help:      "Wall time of ingestion runs, including the database write.",
			Buckets: []float64{
				0.01, 0.05, 0.1,
				0.25, 0.5, 1,
				2.5, 5, 10, 30,
			},
		}),
	}
})

func (m *metrics) observe(result string, elapsed time.Duration, r *models.IngestResult) {
	m.runsTotal.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
	if r == nil {
		return
	}
	m.rowsTotal.WithLabelValues("written").Add(float64(r.Rows))
	m.rowsTotal.WithLabelValues("dropped").Add(float64(r.Dropped))
	m.rowsTotal.WithLabelValues("duplicate").Add(float64(r.Duplicates))
}
