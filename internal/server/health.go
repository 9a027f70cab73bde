package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/morgenstille/bethere/internal/logging"
)

// Health status constants for health check responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusUnreachable  = "unreachable"
)

// Calendar probe defaults.
const (
	DefaultProbeInterval = 30 * time.Second
	DefaultProbeTimeout  = 5 * time.Second
)

// HealthChecker provides health check endpoints for Kubernetes probes.
// Readiness reflects both the server state and the reachability of the
// calendar backend, which every event operation depends on.
type HealthChecker struct {
	// ready indicates whether the server is ready to receive traffic
	ready atomic.Bool
	// calendarReachable holds the latest calendar probe result
	calendarReachable atomic.Bool
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
	// Server starts as ready by default; the calendar counts as
	// reachable until the first probe reports.
	h.ready.Store(true)
	h.calendarReachable.Store(true)
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

// CalendarReachable returns the latest calendar probe result.
func (h *HealthChecker) CalendarReachable() bool {
	return h.calendarReachable.Load()
}

// StartCalendarProbe pings the calendar backend on the given interval
// and drives readiness from the result. The first probe runs
// immediately; the goroutine stops when ctx is cancelled.
func (h *HealthChecker) StartCalendarProbe(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}

	go func() {
		h.probeCalendar(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.probeCalendar(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (h *HealthChecker) probeCalendar(ctx context.Context) {
	if h.serverContext == nil {
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	err := h.serverContext.CalendarClient().Ping(probeCtx)
	reachable := err == nil

	// Log only on state changes to keep the probe quiet.
	if h.calendarReachable.Swap(reachable) != reachable {
		if reachable {
			slog.Info("calendar backend reachable again")
		} else {
			slog.Warn("calendar backend unreachable", logging.Err(err))
		}
	}
}

// isServerShuttingDown checks if the server context is shutting down.
// Returns false if serverContext is nil (safe for testing).
func (h *HealthChecker) isServerShuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// HealthResponse is the JSON body served by the health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Uptime string            `json:"uptime,omitempty"`
}

func writeHealthJSON(w http.ResponseWriter, code int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response)
}

// LivenessHandler serves /healthz. A live process always answers ok;
// restarts are for hangs, not for unreachable backends.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealthJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz. The server is ready only while it is
// marked ready, not shutting down, and the calendar probe reports the
// backend reachable.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := map[string]string{
			"ready":    healthStatusOK,
			"shutdown": healthStatusOK,
			"calendar": healthStatusOK,
		}
		if !h.ready.Load() {
			checks["ready"] = healthStatusNotReady
		}
		if h.isServerShuttingDown() {
			checks["shutdown"] = healthStatusShuttingDown
		}
		if !h.calendarReachable.Load() {
			checks["calendar"] = healthStatusUnreachable
		}

		status, code := healthStatusOK, http.StatusOK
		for _, result := range checks {
			if result != healthStatusOK {
				status, code = healthStatusNotReady, http.StatusServiceUnavailable
				break
			}
		}

		writeHealthJSON(w, code, HealthResponse{Status: status, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed, adding process uptime
// to the readiness picture.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := HealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		}
		code := http.StatusOK

		switch {
		case !h.ready.Load():
			response.Status = healthStatusNotReady
			code = http.StatusServiceUnavailable
		case h.isServerShuttingDown():
			response.Status = healthStatusShuttingDown
			code = http.StatusServiceUnavailable
		}

		writeHealthJSON(w, code, response)
	})
}

// RegisterHealthEndpoints registers the health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
