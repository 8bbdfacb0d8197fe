package behavior

import (
	"fmt"
	"strings"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
)

// AgentID is the stable handle of a boid, decoupled from the host object it animates.
type AgentID string

// AgentKind tags a boid with its role in the flock.
// The steering rules treat every kind the same way for now.
type AgentKind int

const (
	KindNormal AgentKind = iota
	KindPrey
	KindPredator
)

func (k AgentKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindPrey:
		return "prey"
	case KindPredator:
		return "predator"
	default:
		return fmt.Sprintf("AgentKind(%d)", int(k))
	}
}

// ParseAgentKind converts a config value ("normal", "prey", "predator") to an AgentKind.
// The empty string maps to KindNormal.
func ParseAgentKind(s string) (AgentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return KindNormal, nil
	case "prey":
		return KindPrey, nil
	case "predator":
		return KindPredator, nil
	default:
		return KindNormal, fmt.Errorf("unknown agent kind %q", s)
	}
}

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// https://en.wikipedia.org/wiki/Boids
//
// LastPosition holds the position at the start of the current step; other
// boids measure their distance against it during neighbor discovery.
type Boid struct {
	ID           AgentID
	Kind         AgentKind
	Position     geometry.Vector3
	Velocity     geometry.Vector3
	LastPosition geometry.Vector3
	Orientation  geometry.Vector3 // Euler XYZ, radians

	Neighbors []*Boid
}

// Pose is what gets recorded for a boid at a given frame.
type Pose struct {
	Position    geometry.Vector3
	Orientation geometry.Vector3
}

// New creates a boid at position, moving with velocity. LastPosition starts at position.
func New(id AgentID, kind AgentKind, position, velocity geometry.Vector3) *Boid {
	b := &Boid{
		ID:           id,
		Kind:         kind,
		Position:     position,
		Velocity:     velocity,
		LastPosition: position,
	}
	b.Rotate()
	return b
}

// Pose returns the current position and orientation.
func (b *Boid) Pose() Pose {
	return Pose{Position: b.Position, Orientation: b.Orientation}
}

// FindNeighbors rebuilds b.Neighbors from flock.
// Another boid is a neighbor when its LastPosition lies within radius of b's
// current Position. b itself is never included.
func (b *Boid) FindNeighbors(flock []*Boid, radius float64) {
	b.Neighbors = b.Neighbors[:0]
	for _, other := range flock {
		if other == b {
			continue
		}
		// plain distance: squared values can round a boid on the radius out
		if other.LastPosition.DistanceTo(b.Position) <= radius {
			b.Neighbors = append(b.Neighbors, other)
		}
	}
}

// Move integrates one frame: LastPosition takes the current position, then
// Position advances by Velocity.
func (b *Boid) Move() {
	b.LastPosition = b.Position
	b.Position = b.Position.Add(b.Velocity)
}

// Rotate faces the boid along its velocity. A zero velocity leaves the orientation untouched.
func (b *Boid) Rotate() {
	if euler, ok := geometry.TrackEuler(b.Velocity); ok {
		b.Orientation = euler
	}
}
