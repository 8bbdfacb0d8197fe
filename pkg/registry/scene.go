package registry

import (
	"sync"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/simulation"
)

// ObjectSet is a minimal Scene: a set of object names that can be added and deleted.
type ObjectSet struct {
	mu      sync.RWMutex
	objects map[simulation.HostRef]struct{}
}

// NewObjectSet creates a scene containing refs.
func NewObjectSet(refs ...simulation.HostRef) *ObjectSet {
	s := &ObjectSet{objects: make(map[simulation.HostRef]struct{}, len(refs))}
	for _, ref := range refs {
		s.objects[ref] = struct{}{}
	}
	return s
}

func (s *ObjectSet) Add(ref simulation.HostRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[ref] = struct{}{}
}

// Delete removes ref from the scene, invalidating any registration pointing at it.
func (s *ObjectSet) Delete(ref simulation.HostRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, ref)
}

func (s *ObjectSet) Exists(ref simulation.HostRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[ref]
	return ok
}
