package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/simulation"
)

// ErrUnknownObject is returned when registering an object the scene does not contain.
var ErrUnknownObject = errors.New("object not found in scene")

// Scene answers whether a host object still exists.
type Scene interface {
	Exists(ref simulation.HostRef) bool
}

// Memory is an in-process simulation.Registry.
// Ids are random UUIDs unless WithIDGenerator says otherwise. Objects deleted
// from the scene are dropped the next time List is called.
type Memory struct {
	mu    sync.Mutex
	scene Scene
	newID func() behavior.AgentID

	ids   map[simulation.HostRef]behavior.AgentID
	order []simulation.HostRef
}

var _ simulation.Registry = (*Memory)(nil)

// Option configures a Memory registry.
type Option func(*Memory)

// WithIDGenerator replaces the UUID generator, mostly for tests.
func WithIDGenerator(fn func() behavior.AgentID) Option {
	return func(m *Memory) {
		m.newID = fn
	}
}

// NewMemory creates a registry backed by scene.
func NewMemory(scene Scene, opts ...Option) *Memory {
	m := &Memory{
		scene: scene,
		newID: func() behavior.AgentID { return behavior.AgentID(uuid.NewString()) },
		ids:   make(map[simulation.HostRef]behavior.AgentID),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Register(ref simulation.HostRef) (behavior.AgentID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.ids[ref]; ok {
		return id, nil
	}
	if !m.scene.Exists(ref) {
		return "", fmt.Errorf("%w: %s", ErrUnknownObject, ref)
	}
	id := m.newID()
	m.ids[ref] = id
	m.order = append(m.order, ref)
	return id, nil
}

func (m *Memory) Unregister(ref simulation.HostRef) (behavior.AgentID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.ids[ref]
	if !ok {
		return "", false
	}
	m.forget(ref)
	return id, true
}

func (m *Memory) List() []behavior.AgentID {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stale []simulation.HostRef
	ids := make([]behavior.AgentID, 0, len(m.order))
	for _, ref := range m.order {
		if !m.scene.Exists(ref) {
			stale = append(stale, ref)
			continue
		}
		ids = append(ids, m.ids[ref])
	}
	for _, ref := range stale {
		m.forget(ref)
	}
	return ids
}

func (m *Memory) IsValid(ref simulation.HostRef) bool {
	return m.scene.Exists(ref)
}

// Len returns the number of registered objects, stale ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// forget must be called with mu held.
func (m *Memory) forget(ref simulation.HostRef) {
	delete(m.ids, ref)
	for i, r := range m.order {
		if r == ref {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
