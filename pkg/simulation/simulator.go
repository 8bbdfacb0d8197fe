package simulation

import (
	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
)

// Simulator advances a flock one frame at a time.
type Simulator struct {
	state   *State
	workers int

	// scratch buffer reused across steps
	velocities []geometry.Vector3
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithWorkers spreads the neighbor and velocity passes over n goroutines.
// Each pass still completes for the whole flock before the next one starts,
// so results are identical to the sequential run. n <= 1 means sequential.
func WithWorkers(n int) SimulatorOption {
	return func(s *Simulator) {
		s.workers = n
	}
}

// NewSimulator creates a simulator driving state.
func NewSimulator(state *State, opts ...SimulatorOption) *Simulator {
	s := &Simulator{state: state, workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the flock driven by the simulator.
func (s *Simulator) State() *State {
	return s.state
}

// Step runs one frame:
//  1. every boid rebuilds its neighbor set from the start-of-frame snapshot,
//  2. every boid's pose entering the frame is recorded to sink,
//  3. new velocities are computed from the snapshot, then applied,
//  4. boids move by their velocity,
//  5. boids turn to face their velocity.
//
// When the sink fails the step stops before any velocity or position changes.
func (s *Simulator) Step(frame int, settings behavior.Settings, sink Sink) error {
	boids := s.state.Boids()

	s.forEach(boids, func(_ int, b *behavior.Boid) {
		b.FindNeighbors(boids, settings.VisionRadius)
	})

	for _, b := range boids {
		if err := sink.RecordPose(b.ID, frame, b.Pose()); err != nil {
			return &SinkError{Op: "record", Agent: b.ID, Frame: frame, Err: err}
		}
	}

	if cap(s.velocities) < len(boids) {
		s.velocities = make([]geometry.Vector3, len(boids))
	}
	velocities := s.velocities[:len(boids)]
	s.forEach(boids, func(i int, b *behavior.Boid) {
		velocities[i] = behavior.ComputeVelocity(b, settings)
	})

	for i, b := range boids {
		b.Velocity = velocities[i]
		b.Move()
		b.Rotate()
	}
	return nil
}

// forEach calls fn for every boid and returns once all calls are done.
func (s *Simulator) forEach(boids []*behavior.Boid, fn func(i int, b *behavior.Boid)) {
	if s.workers <= 1 || len(boids) < 2 {
		for i, b := range boids {
			fn(i, b)
		}
		return
	}

	chunk := (len(boids) + s.workers - 1) / s.workers
	var g errgroup.Group
	for lo := 0; lo < len(boids); lo += chunk {
		hi := min(lo+chunk, len(boids))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				fn(i, boids[i])
			}
			return nil
		})
	}
	// Wait is the barrier between passes; the workers never fail.
	_ = g.Wait()
}
