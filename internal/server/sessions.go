package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/morgenstille/bethere/internal/instrumentation"
)

// DefaultSessionTimeout is how long a session may stay idle before the
// registry expires it.
const DefaultSessionTimeout = 24 * time.Hour

// sessionInfo tracks session metadata for cleanup
type sessionInfo struct {
	lastAccess time.Time
}

// SessionRegistry tracks active conversation sessions. Each chat run or
// connected client owns one session ID, which threads through tool
// audit logs and the history store. Idle sessions are expired in the
// background.
type SessionRegistry struct {
	sessions       map[string]*sessionInfo
	mu             sync.RWMutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan bool
	sessionTimeout time.Duration
	logger         *slog.Logger
	metrics        *instrumentation.Metrics
}

// NewSessionRegistry creates a session registry with the default idle
// timeout.
func NewSessionRegistry() *SessionRegistry {
	return NewSessionRegistryWithOptions(DefaultSessionTimeout, slog.Default(), nil)
}

// NewSessionRegistryWithOptions creates a session registry with a
// custom idle timeout, logger and metrics recorder. Metrics may be nil.
func NewSessionRegistryWithOptions(timeout time.Duration, logger *slog.Logger, metrics *instrumentation.Metrics) *SessionRegistry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &SessionRegistry{
		sessions:       make(map[string]*sessionInfo),
		cleanupTicker:  time.NewTicker(10 * time.Minute),
		cleanupDone:    make(chan bool),
		sessionTimeout: timeout,
		logger:         logger,
		metrics:        metrics,
	}

	// Start cleanup goroutine
	go r.cleanupExpiredSessions()

	return r
}

// Begin registers a new session and returns its ID.
func (r *SessionRegistry) Begin() string {
	id := uuid.NewString()

	r.mu.Lock()
	r.sessions[id] = &sessionInfo{lastAccess: time.Now()}
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.IncrementActiveSessions(context.Background())
	}
	r.logger.Debug("session started", "session", instrumentation.ShortSession(id))
	return id
}

// Touch refreshes the last-access time of a session. Unknown IDs are
// ignored.
func (r *SessionRegistry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.sessions[id]; ok {
		info.lastAccess = time.Now()
	}
}

// End removes a session from the registry.
func (r *SessionRegistry) End(id string) {
	r.mu.Lock()
	_, existed := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if existed && r.metrics != nil {
		r.metrics.DecrementActiveSessions(context.Background())
	}
}

// Active returns the IDs of all live sessions.
func (r *SessionRegistry) Active() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// cleanupExpiredSessions periodically removes expired sessions
func (r *SessionRegistry) cleanupExpiredSessions() {
	for {
		select {
		case <-r.cleanupTicker.C:
			now := time.Now()
			expired := make([]string, 0)

			r.mu.Lock()
			for id, info := range r.sessions {
				if now.Sub(info.lastAccess) > r.sessionTimeout {
					delete(r.sessions, id)
					expired = append(expired, id)
				}
			}
			r.mu.Unlock()

			for range expired {
				if r.metrics != nil {
					r.metrics.DecrementActiveSessions(context.Background())
				}
			}
			if len(expired) > 0 {
				r.logger.Info("Cleaned up expired sessions", "count", len(expired))
			}
		case <-r.cleanupDone:
			return
		}
	}
}

// Stop stops the session cleanup goroutine
func (r *SessionRegistry) Stop() {
	if r.cleanupTicker != nil {
		r.cleanupTicker.Stop()
	}
	if r.cleanupDone != nil {
		close(r.cleanupDone)
	}
}
