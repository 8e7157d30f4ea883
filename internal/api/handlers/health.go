package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"legal-literacy-portal/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is a dependency checked by /ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checks    map[string]Pinger
	version   string
	logger    *logger.Logger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. Nil checks are reported as not configured.
func NewHealthHandler(checks map[string]Pinger, version string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		version:   version,
		logger:    log.WithComponent("health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready. Dependencies are pinged in parallel, each with its own deadline.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed bool
	)
	checks := make(map[string]string, len(h.checks))

	for name, p := range h.checks {
		if p == nil {
			checks[name] = "not configured"
			continue
		}
		wg.Add(1)
		go func(name string, p Pinger) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()

			result := "healthy"
			if err := p.Ping(ctx); err != nil {
				h.logger.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
				result = "unhealthy: " + err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			checks[name] = result
			failed = failed || result != "healthy"
		}(name, p)
	}
	wg.Wait()

	status, overall := http.StatusOK, "ready"
	if failed {
		status, overall = http.StatusServiceUnavailable, "not ready"
	}
	respondJSON(w, status, HealthResponse{
		Status:    overall,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
