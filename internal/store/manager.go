package store

import (
	"fmt"
	"sync"
)

// BuildFunc produces a fresh configuration table snapshot together with the
// list of files it was read from.
type BuildFunc func() (*Store, []string, error)

// Manager owns the active configuration. The snapshot is built lazily on
// first access and discarded by Invalidate, so the next access re-runs the
// full load-and-merge sequence. Access is guarded with a RWMutex so a
// background refresher can invalidate while readers look values up.
type Manager struct {
	mu      sync.RWMutex
	build   BuildFunc
	store   *Store
	sources []string
}

// NewManager creates a Manager around the given build function.
func NewManager(build BuildFunc) *Manager {
	return &Manager{build: build}
}

// Current returns the active snapshot, building it first if needed.
func (m *Manager) Current() (*Store, error) {
	m.mu.RLock()
	s := m.store
	m.mu.RUnlock()
	if s != nil {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store != nil {
		return m.store, nil
	}

	s, sources, err := m.build()
	if err != nil {
		return nil, fmt.Errorf("build configuration: %w", err)
	}
	m.store = s
	m.sources = sources
	return s, nil
}

// Invalidate discards the active snapshot. Source files remain known until
// the next successful build replaces them.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.store = nil
	m.mu.Unlock()
}

// Sources lists the files the active snapshot was built from. Empty until the
// first successful build.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.sources))
	copy(out, m.sources)
	return out
}
