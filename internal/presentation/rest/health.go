package rest

import (
	"log/slog"
	"net/http"
	"reflect"
	"time"
)

// VersionReporter is satisfied by the loaded classifier.
type VersionReporter interface {
	Version() string
}

// HealthHandler provides HTTP health check endpoints for the fraud predictor.
type HealthHandler struct {
	startTime  time.Time
	classifier VersionReporter
	logger     *slog.Logger
	service    string
}

// NewHealthHandler creates a new health check handler. A nil classifier,
// including a nil pointer held in the interface, reports the service as not
// ready.
func NewHealthHandler(service string, classifier VersionReporter, logger *slog.Logger) *HealthHandler {
	if isNilReporter(classifier) {
		classifier = nil
	}
	return &HealthHandler{
		startTime:  time.Now(),
		classifier: classifier,
		logger:     logger,
		service:    service,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Checks  map[string]string `json:"checks"`
	Status  string            `json:"status"`
	Service string            `json:"service"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.service,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Readyz handles readiness probe requests.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	if h.classifier == nil {
		h.logger.Warn("readiness check failed", "reason", "classifier not loaded")
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{
			Status:  "not ready",
			Service: h.service,
			Checks:  map[string]string{"classifier": "not loaded"},
		})
		return
	}

	writeJSON(w, http.StatusOK, ReadinessResponse{
		Status:  "ready",
		Service: h.service,
		Checks:  map[string]string{"classifier": h.classifier.Version()},
	})
}

func isNilReporter(r VersionReporter) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
