package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/google/uuid"
)

// Factory builds the presenter of a new session.
type Factory func(id string) *lectern.Presenter

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	factory Factory

	mu       sync.Mutex // Global lock for both maps
	sessions map[string]*lectern.Presenter
	locks    map[string]*lockEntry

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager. A nil factory uses lectern.New with the session ID.
func NewManager(factory Factory, opts ...Option) *Manager {
	if factory == nil {
		factory = func(id string) *lectern.Presenter {
			return lectern.New(lectern.WithID(id))
		}
	}
	m := &Manager{
		factory:  factory,
		sessions: make(map[string]*lectern.Presenter),
		locks:    make(map[string]*lockEntry),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

func (m *Manager) lookup(sessionID string) (*lectern.Presenter, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.sessions[sessionID]
	return p, ok
}

// Create starts a new session presenting d, with a random ID.
func (m *Manager) Create(ctx context.Context, d *domain.Deck) (string, domain.Snapshot, error) {
	id := uuid.NewString()
	snap, err := m.Open(ctx, id, d)
	return id, snap, err
}

// Open creates (or replaces) the session sessionID presenting d.
// The session is registered only if the deck loads.
func (m *Manager) Open(ctx context.Context, sessionID string, d *domain.Deck) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		p := m.factory(sessionID)
		if err := p.Load(ctx, d); err != nil {
			return err
		}
		m.mu.Lock()
		m.sessions[sessionID] = p
		m.mu.Unlock()

		m.logger.Info("Session opened", "session_id", sessionID)
		snap = p.Snapshot()
		return nil
	})
	return snap, err
}

// Reload swaps the deck of an existing session. The cursor restarts at the first slide.
func (m *Manager) Reload(ctx context.Context, sessionID string, d *domain.Deck) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.With(ctx, sessionID, func(ctx context.Context, p *lectern.Presenter) error {
		if err := p.Load(ctx, d); err != nil {
			return err
		}
		snap = p.Snapshot()
		return nil
	})
	return snap, err
}

// Dispatch applies cmd to the session and returns the resulting snapshot.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, cmd domain.Command) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.With(ctx, sessionID, func(ctx context.Context, p *lectern.Presenter) error {
		err := p.Dispatch(ctx, cmd)
		snap = p.Snapshot()
		return err
	})
	return snap, err
}

// Snapshot returns the current position of the session.
func (m *Manager) Snapshot(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.With(ctx, sessionID, func(_ context.Context, p *lectern.Presenter) error {
		snap = p.Snapshot()
		return nil
	})
	return snap, err
}

// Delete removes the session. Deleting an unknown session is not an error.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(context.Context) error {
		m.mu.Lock()
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		m.logger.Info("Session deleted", "session_id", sessionID)
		return nil
	})
}

// List returns the IDs of every open session, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// With executes fn on the session's presenter while holding the session lock.
// It returns domain.ErrSessionNotFound if the session does not exist.
func (m *Manager) With(ctx context.Context, sessionID string, fn func(context.Context, *lectern.Presenter) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		p, ok := m.lookup(sessionID)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return fn(ctx, p)
	})
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	return fn(ctx)
}
