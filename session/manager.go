package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"avatar-studio/drawing"
	"avatar-studio/gesture"
	"avatar-studio/models"
	"avatar-studio/placement"
	"avatar-studio/slots"
	"avatar-studio/store"
)

// ErrNotFound is returned for unknown or expired session ids
var ErrNotFound = errors.New("session not found")

// Options configure new sessions
type Options struct {
	Placement    placement.Options
	HistoryLimit int
	// TTL is the idle time after which a session is swept
	TTL    time.Duration
	Clock  func() time.Time
	Logger logr.Logger
}

// DefaultOptions returns the standard session settings
func DefaultOptions() Options {
	return Options{
		Placement:    placement.DefaultOptions(),
		HistoryLimit: 50,
		TTL:          2 * time.Hour,
	}
}

// Manager owns the in-memory sessions keyed by id
type Manager struct {
	catalog  placement.Catalog
	registry *slots.Registry
	opts     Options
	log      logr.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager placing from catalog
func NewManager(catalog placement.Catalog, registry *slots.Registry, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	if registry == nil {
		registry = slots.NewRegistry(slots.DesignCanvasWidth)
	}
	if opts.Placement.Clock == nil {
		opts.Placement.Clock = opts.Clock
	}
	return &Manager{
		catalog:  catalog,
		registry: registry,
		opts:     opts,
		log:      opts.Logger.WithName("session"),
		sessions: make(map[string]*Session),
	}
}

// New creates a session for an avatar gender with the default wallpaper as background
func (m *Manager) New(gender models.Gender) (*Session, error) {
	id := uuid.NewString()
	log := m.opts.Logger.WithValues("session", id)

	st := store.New()
	dm, err := drawing.NewManager(st, 1, 1, m.opts.HistoryLimit, log)
	if err != nil {
		return nil, fmt.Errorf("error creating drawing layer: %w", err)
	}

	popts := m.opts.Placement
	popts.Logger = log
	now := m.opts.Clock()
	s := &Session{
		id:       id,
		gender:   gender,
		created:  now,
		touched:  now,
		store:    st,
		engine:   placement.NewEngine(m.catalog, m.registry, st, popts),
		gestures: gesture.NewMachine(st, log),
		drawing:  dm,
		layout:   Layout{DPR: 1},
		pen:      DefaultPen,
		log:      log.WithName("session"),
	}
	s.engine.SetWallpaper(models.Wallpapers[0].ID)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.log.Info("session created", "id", id, "gender", gender)
	return s, nil
}

// Get returns a live session and marks it as used
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.opts.Clock())
	return s, nil
}

// Delete drops a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	m.log.Info("session deleted", "id", id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many went
func (m *Manager) Sweep() int {
	if m.opts.TTL <= 0 {
		return 0
	}
	now := m.opts.Clock()

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.opts.TTL {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info("expired sessions swept", "count", removed)
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
