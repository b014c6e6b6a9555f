package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
)

// MetricsSnapshot is a lightweight view of the process counters.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	TimetablesGenerated      uint64    `json:"timetablesGenerated"`
	TimetableFailures        uint64    `json:"timetableFailures"`
	UploadsDeleted           uint64    `json:"uploadsDeleted"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic and timetable generation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	timetablesGenerated *prometheus.CounterVec
	timetableFailures   *prometheus.CounterVec
	generationDuration  prometheus.Histogram
	rowsRead            prometheus.Counter
	rowsDropped         prometheus.Counter
	subjectsNormalized  *prometheus.CounterVec
	hoursRequired       prometheus.Counter
	hoursAssigned       prometheus.Counter
	underScheduled      prometheus.Counter
	uploadsDeleted      *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	generatedCount       uint64
	failureCount         uint64
	deletedCount         uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	timetablesGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetables_generated_total",
		Help: "Timetables generated by output format",
	}, []string{"format"})

	timetableFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_failures_total",
		Help: "Timetable generations that failed by error code",
	}, []string{"code"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_seconds",
		Help:    "Time spent reading, normalizing, building and exporting a timetable",
		Buckets: prometheus.DefBuckets,
	})

	rowsRead := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workload_rows_read_total",
		Help: "Workload rows read from uploaded sheets",
	})

	rowsDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workload_rows_dropped_total",
		Help: "Workload rows dropped for missing faculty, subject or code",
	})

	subjectsNormalized := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workload_subjects_total",
		Help: "Subjects produced by normalization by type",
	}, []string{"type"})

	hoursRequired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_hours_required_total",
		Help: "Weekly hours requested by normalized subjects",
	})

	hoursAssigned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_hours_assigned_total",
		Help: "Weekly hours placed on generated grids",
	})

	underScheduled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_subjects_under_scheduled_total",
		Help: "Subjects that received fewer hours than required",
	})

	uploadsDeleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uploads_deleted_total",
		Help: "Uploaded workload files removed by mode",
	}, []string{"mode"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal,
		timetablesGenerated, timetableFailures, generationDuration,
		rowsRead, rowsDropped, subjectsNormalized,
		hoursRequired, hoursAssigned, underScheduled,
		uploadsDeleted, goroutines,
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:            registry,
		handler:             handler,
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		timetablesGenerated: timetablesGenerated,
		timetableFailures:   timetableFailures,
		generationDuration:  generationDuration,
		rowsRead:            rowsRead,
		rowsDropped:         rowsDropped,
		subjectsNormalized:  subjectsNormalized,
		hoursRequired:       hoursRequired,
		hoursAssigned:       hoursAssigned,
		underScheduled:      underScheduled,
		uploadsDeleted:      uploadsDeleted,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveTimetable records a successful generation.
func (m *MetricsService) ObserveTimetable(format dto.TimetableFormat, info dto.WorkbookInfo, subjects []models.SubjectSummary, stats models.BuildStats, duration time.Duration) {
	if m == nil {
		return
	}
	m.timetablesGenerated.WithLabelValues(string(format)).Inc()
	m.generationDuration.Observe(duration.Seconds())
	m.rowsRead.Add(float64(info.Rows))
	m.rowsDropped.Add(float64(info.Dropped))
	for _, subject := range subjects {
		m.subjectsNormalized.WithLabelValues(string(subject.Type)).Inc()
	}
	m.hoursRequired.Add(float64(stats.RequiredHours))
	m.hoursAssigned.Add(float64(stats.AssignedHours))
	m.underScheduled.Add(float64(len(stats.UnderScheduled)))
	atomic.AddUint64(&m.generatedCount, 1)
}

// ObserveTimetableFailure records a failed generation by error code.
func (m *MetricsService) ObserveTimetableFailure(code string) {
	if m == nil {
		return
	}
	m.timetableFailures.WithLabelValues(code).Inc()
	atomic.AddUint64(&m.failureCount, 1)
}

// ObserveUploadsDeleted records removed uploads. Mode is "queue", "inline" or "sweep".
func (m *MetricsService) ObserveUploadsDeleted(mode string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.uploadsDeleted.WithLabelValues(mode).Add(float64(count))
	atomic.AddUint64(&m.deletedCount, uint64(count))
}

// Snapshot returns aggregated counters suitable for the readiness endpoint.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		TimetablesGenerated:      atomic.LoadUint64(&m.generatedCount),
		TimetableFailures:        atomic.LoadUint64(&m.failureCount),
		UploadsDeleted:           atomic.LoadUint64(&m.deletedCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
