package simulation_test

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/animation"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/registry"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/simulation"
)

// countingSink records into memory and counts calls. failAt and onRecord let
// tests inject sink failures or scene changes in the middle of a run.
type countingSink struct {
	*animation.MemorySink
	records  int
	clears   int
	failAt   func(id behavior.AgentID, frame int) error
	onRecord func(id behavior.AgentID, frame int)
}

func newCountingSink() *countingSink {
	return &countingSink{MemorySink: animation.NewMemorySink()}
}

func (s *countingSink) RecordPose(id behavior.AgentID, frame int, pose behavior.Pose) error {
	s.records++
	if s.failAt != nil {
		if err := s.failAt(id, frame); err != nil {
			return err
		}
	}
	if s.onRecord != nil {
		s.onRecord(id, frame)
	}
	return s.MemorySink.RecordPose(id, frame, pose)
}

func (s *countingSink) ClearRecorded(id behavior.AgentID) error {
	s.clears++
	return s.MemorySink.ClearRecorded(id)
}

func (s *countingSink) calls() int { return s.records + s.clears }

type fixture struct {
	scene  *registry.ObjectSet
	sink   *countingSink
	driver *simulation.Driver
}

func newFixture(opts ...simulation.DriverOption) *fixture {
	scene := registry.NewObjectSet()
	n := 0
	reg := registry.NewMemory(scene, registry.WithIDGenerator(func() behavior.AgentID {
		n++
		return behavior.AgentID(fmt.Sprintf("agent-%d", n))
	}))
	sink := newCountingSink()
	return &fixture{
		scene:  scene,
		sink:   sink,
		driver: simulation.NewDriver(reg, sink, opts...),
	}
}

func (f *fixture) add(name string, pos, vel geometry.Vector3) behavior.AgentID {
	ref := simulation.HostRef(name)
	f.scene.Add(ref)
	id, err := f.driver.Register(ref, simulation.Placement{Position: pos, Velocity: vel})
	if err != nil {
		panic(err)
	}
	return id
}

func vec(x, y, z float64) geometry.Vector3 { return geometry.Vector3{X: x, Y: y, Z: z} }

func scenarioSettings() behavior.Settings {
	return behavior.Settings{
		MaxSpeed:           1,
		MaxForce:           0.1,
		VisionRadius:       10,
		CohesionStrength:   1,
		AlignmentStrength:  1,
		SeparationStrength: 1,
	}
}
