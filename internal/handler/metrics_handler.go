package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/service"
)

type readinessProbe interface {
	Ready() error
}

type backlogReporter interface {
	Pending() int
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	backlog backlogReporter
	probes  []readinessProbe
}

// NewMetricsHandler constructs a metrics handler. Probes gate the readiness endpoint;
// backlog, when set, reports queued upload deletions.
func NewMetricsHandler(metrics *service.MetricsService, backlog backlogReporter, probes ...readinessProbe) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, backlog: backlog, probes: probes}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the upload directory is usable along with process counters.
func (h *MetricsHandler) Ready(c *gin.Context) {
	for _, probe := range h.probes {
		if err := probe.Ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": err.Error()})
			return
		}
	}
	body := gin.H{"status": "ready", "metrics": h.metrics.Snapshot()}
	if h.backlog != nil {
		body["cleanup_pending"] = h.backlog.Pending()
	}
	c.JSON(http.StatusOK, body)
}
