package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/service"
)

type probeStub struct {
	err error
}

func (p probeStub) Ready() error { return p.err }

type backlogStub int

func (b backlogStub) Pending() int { return int(b) }

func metricsRouter(h *MetricsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
	return r
}

func TestHealthAndReady(t *testing.T) {
	r := metricsRouter(NewMetricsHandler(service.NewMetricsService(), backlogStub(2), probeStub{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)
	assert.Contains(t, w.Body.String(), `"cleanup_pending":2`)
}

func TestReadyReportsFailedProbe(t *testing.T) {
	r := metricsRouter(NewMetricsHandler(service.NewMetricsService(), nil, probeStub{err: errors.New("uploads missing")}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "uploads missing")
}

func TestPrometheusExposesTimetableCollectors(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveTimetableFailure("UNREADABLE_FILE")
	r := metricsRouter(NewMetricsHandler(metrics, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `timetable_failures_total{code="UNREADABLE_FILE"} 1`)
}

func TestPrometheusWithoutService(t *testing.T) {
	r := metricsRouter(NewMetricsHandler(nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
