package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status constants for health check responses.
const (
	healthStatusOK            = "ok"
	healthStatusNotReady      = "not ready"
	healthStatusShuttingDown  = "shutting down"
	healthStatusNotConfigured = "not configured"
)

// HealthChecker provides health check endpoints for Kubernetes probes.
type HealthChecker struct {
	// ready indicates whether the server is ready to receive traffic
	ready atomic.Bool
	// serverContext provides access to dependencies for health checks
	serverContext *ServerContext
	// startTime tracks when the server started
	startTime time.Time
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	// Server starts as ready by default
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// checkReady reports whether the server has been marked ready for traffic.
func (h *HealthChecker) checkReady() (string, bool) {
	if !h.ready.Load() {
		return healthStatusNotReady, false
	}
	return healthStatusOK, true
}

// checkShutdown reports whether the server context is shutting down.
// Passes if serverContext is nil (safe for testing).
func (h *HealthChecker) checkShutdown() (string, bool) {
	if h.serverContext != nil && h.serverContext.IsShutdown() {
		return healthStatusShuttingDown, false
	}
	return healthStatusOK, true
}

// checkGateway reports whether the usaspending.gov gateway client is wired.
func (h *HealthChecker) checkGateway() (string, bool) {
	if h.serverContext == nil || h.serverContext.Spending() == nil {
		return healthStatusNotConfigured, false
	}
	return healthStatusOK, true
}

// runChecks evaluates every readiness check by name.
func (h *HealthChecker) runChecks() (map[string]string, bool) {
	checks := make(map[string]string)
	allOk := true

	for name, check := range map[string]func() (string, bool){
		"ready":    h.checkReady,
		"shutdown": h.checkShutdown,
		"gateway":  h.checkGateway,
	} {
		status, ok := check()
		checks[name] = status
		if !ok {
			allOk = false
		}
	}

	return checks, allOk
}

// version returns the server version, or empty when no context is attached.
func (h *HealthChecker) version() string {
	if h.serverContext == nil {
		return ""
	}
	return h.serverContext.Version()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse provides comprehensive health information.
type DetailedHealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// LivenessHandler returns an HTTP handler for the /healthz endpoint.
// Liveness probes indicate whether the process should be restarted.
// This should be a simple check that the server process is running.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		response := HealthResponse{
			Status: healthStatusOK,
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// ReadinessHandler returns an HTTP handler for the /readyz endpoint.
// Readiness probes indicate whether the server is ready to receive traffic.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks, allOk := h.runChecks()

		response := HealthResponse{
			Checks: checks,
		}

		if allOk {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// DetailedHealthHandler returns an HTTP handler for the /healthz/detailed
// endpoint. This endpoint provides comprehensive health information.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks, allOk := h.runChecks()

		response := DetailedHealthResponse{
			Version: h.version(),
			Uptime:  time.Since(h.startTime).Truncate(time.Second).String(),
			Checks:  checks,
		}

		if allOk {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// RegisterHealthEndpoints registers health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
