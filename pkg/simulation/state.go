package simulation

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
)

// State is the set of boids taking part in the simulation.
// Boids are unique by ID and kept in insertion order so every pass over the
// flock visits them in the same sequence.
type State struct {
	boids []*behavior.Boid
	index map[behavior.AgentID]int
}

// NewState creates an empty flock.
func NewState() *State {
	return &State{index: make(map[behavior.AgentID]int)}
}

// Add appends b to the flock.
func (s *State) Add(b *behavior.Boid) error {
	if _, ok := s.index[b.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, b.ID)
	}
	s.index[b.ID] = len(s.boids)
	s.boids = append(s.boids, b)
	return nil
}

// Get returns the boid with the given id.
func (s *State) Get(id behavior.AgentID) (*behavior.Boid, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.boids[i], true
}

// Remove drops the boid with the given id and reports whether it was present.
func (s *State) Remove(id behavior.AgentID) bool {
	removed := s.Retain(func(b *behavior.Boid) bool { return b.ID != id })
	return len(removed) > 0
}

// Retain keeps the boids for which keep returns true, preserving their order,
// and returns the ids of the dropped ones.
func (s *State) Retain(keep func(b *behavior.Boid) bool) []behavior.AgentID {
	var removed []behavior.AgentID
	kept := s.boids[:0]
	for _, b := range s.boids {
		if keep(b) {
			kept = append(kept, b)
			continue
		}
		removed = append(removed, b.ID)
		b.Neighbors = nil
	}
	clear(s.boids[len(kept):])
	s.boids = kept

	if len(removed) > 0 {
		clear(s.index)
		for i, b := range s.boids {
			s.index[b.ID] = i
		}
	}
	return removed
}

// Boids returns the flock in insertion order. The slice must not be modified.
func (s *State) Boids() []*behavior.Boid {
	return s.boids
}

// IDs returns the agent ids in insertion order.
func (s *State) IDs() []behavior.AgentID {
	ids := make([]behavior.AgentID, len(s.boids))
	for i, b := range s.boids {
		ids[i] = b.ID
	}
	return ids
}

// Len returns the number of boids.
func (s *State) Len() int {
	return len(s.boids)
}
