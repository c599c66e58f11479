package server

import (
	"net/http"
	"sync/atomic"
	"time"
)

// HealthChecker serves the liveness probe of the MCP endpoint and the
// readiness and uptime probes of the metrics server.
type HealthChecker struct {
	service   string
	ready     atomic.Bool
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker reporting service as its name.
// It starts out ready.
func NewHealthChecker(service string) *HealthChecker {
	h := &HealthChecker{
		service:   service,
		startTime: time.Now(),
	}
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

// LivenessResponse is the body of the liveness probe.
type LivenessResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

// ReadinessResponse is the body of the readiness probe.
type ReadinessResponse struct {
	OK     bool   `json:"ok"`
	Uptime string `json:"uptime"`
}

// LivenessHandler answers 200 {"ok":true,"service":...}. It needs neither
// authentication nor configuration.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, LivenessResponse{OK: true, Service: h.service})
	})
}

// ReadinessHandler answers 200 while ready and 503 during shutdown.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status := http.StatusOK
		if !h.IsReady() {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, ReadinessResponse{
			OK:     h.IsReady(),
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		})
	})
}
