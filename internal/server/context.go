package server

import (
	"context"
	"sync"

	"github.com/morgenstille/bethere/internal/calendar"
	"github.com/morgenstille/bethere/internal/config"
	"github.com/morgenstille/bethere/internal/geocode"
	"github.com/morgenstille/bethere/internal/instrumentation"
	"github.com/morgenstille/bethere/internal/routing"
)

// ServerContext holds the shared dependencies of a running server:
// configuration, lazily-built backend clients, and instrumentation.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config

	calendarClient *calendar.Client
	geocodeClient  *geocode.Client
	routingClient  *routing.Client

	sessions *SessionRegistry

	provider    *instrumentation.Provider
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. Backend clients are
// built on first use from the given configuration.
func NewServerContext(ctx context.Context, cfg *config.Config) (*ServerContext, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		cfg:    cfg,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// CalendarClient returns the calendar backend client, building it on
// first use.
func (sc *ServerContext) CalendarClient() *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.calendarClient == nil {
		sc.calendarClient = calendar.NewClient(sc.cfg.Calendar.BaseURL)
	}
	return sc.calendarClient
}

// SetCalendarClient sets the calendar client, replacing the lazily
// built one.
func (sc *ServerContext) SetCalendarClient(client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClient = client
}

// GeocodeClient returns the geocoding client, building it on first use.
func (sc *ServerContext) GeocodeClient() *geocode.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.geocodeClient == nil {
		sc.geocodeClient = geocode.NewClient(sc.cfg.Maps.GeocodeURL, sc.cfg.Maps.APIKey)
	}
	return sc.geocodeClient
}

// SetGeocodeClient sets the geocoding client.
func (sc *ServerContext) SetGeocodeClient(client *geocode.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.geocodeClient = client
}

// RoutingClient returns the routing client, building it on first use.
func (sc *ServerContext) RoutingClient() *routing.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.routingClient == nil {
		sc.routingClient = routing.NewClient(sc.cfg.Maps.RoutesURL, sc.cfg.Maps.APIKey)
	}
	return sc.routingClient
}

// SetRoutingClient sets the routing client.
func (sc *ServerContext) SetRoutingClient(client *routing.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.routingClient = client
}

// Sessions returns the session registry, starting it on first use.
func (sc *ServerContext) Sessions() *SessionRegistry {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.sessions == nil {
		metrics := sc.metrics
		if metrics == nil && sc.provider != nil {
			metrics = sc.provider.Metrics()
		}
		sc.sessions = NewSessionRegistryWithOptions(DefaultSessionTimeout, nil, metrics)
	}
	return sc.sessions
}

// TouchSession refreshes a session's idle timer. A no-op when no
// registry is running or the ID is unknown.
func (sc *ServerContext) TouchSession(id string) {
	sc.mu.RLock()
	sessions := sc.sessions
	sc.mu.RUnlock()

	if sessions != nil {
		sessions.Touch(id)
	}
}

// SetInstrumentation attaches the instrumentation provider.
func (sc *ServerContext) SetInstrumentation(provider *instrumentation.Provider) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.provider = provider
}

// Instrumentation returns the instrumentation provider, or nil when
// none is configured.
func (sc *ServerContext) Instrumentation() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.provider
}

// SetMetrics sets the metrics recorder directly, ahead of whatever the
// instrumentation provider would supply.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if sc.metrics != nil {
		return sc.metrics
	}
	if sc.provider == nil {
		return nil
	}
	return sc.provider.Metrics()
}

// SetAuditLogger attaches the audit logger for tool invocations.
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// AuditLogger returns the audit logger, or nil when none is configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	if sc.sessions != nil {
		sc.sessions.Stop()
	}
	sc.cancel()
	return nil
}
