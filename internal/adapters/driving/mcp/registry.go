package mcp

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
)

// Session is the per-connection state tracked by the registry.
// Exactly one Session serves a given id at a time.
type Session struct {
	// ID is the opaque session token.
	ID string

	// Kind is the transport binding the session arrived on.
	Kind domain.TransportKind

	// CreatedAt is when the session was registered.
	CreatedAt time.Time

	closeOnce sync.Once
	closed    atomic.Bool
}

// Closed reports whether the session has been closed.
// A closed session is terminal; its id is never reused for it.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Registry multiplexes the transport bindings onto one session map.
// Insertion (Resolve) and removal (Close) are the only two mutations.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *zap.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Resolve returns the non-closed session registered under id, creating
// and registering one when the id is unknown. The second return value
// is true when a new session was created.
func (r *Registry) Resolve(id string, kind domain.TransportKind) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[id]; ok && !existing.Closed() {
		return existing, false
	}

	session := &Session{
		ID:        id,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	r.sessions[id] = session
	r.logger.Debug("session registered",
		zap.String("id", id),
		zap.String("transport", kind.String()))
	return session, true
}

// Get returns the session registered under id, or nil.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

// Close marks the session closed and removes it from the map.
// Removal happens exactly once per session no matter how many callers
// observe the connection closing.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return
	}

	session.closeOnce.Do(func() {
		session.closed.Store(true)
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		r.logger.Debug("session removed",
			zap.String("id", id),
			zap.String("transport", session.Kind.String()))
	})
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
