package simulation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/registry"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/simulation"
)

func TestDriver_RunRejectsInvalidRange(t *testing.T) {
	f := newFixture()
	f.add("Cube", vec(0, 0, 0), vec(1, 0, 0))

	_, err := f.driver.Run(10, 5, scenarioSettings())

	assert.ErrorIs(t, err, simulation.ErrInvalidRange)
	assert.Zero(t, f.sink.calls(), "no sink call may happen on an invalid range")
}

func TestDriver_RunRejectsEmptyFlock(t *testing.T) {
	f := newFixture()
	_, err := f.driver.Run(1, 5, scenarioSettings())
	assert.ErrorIs(t, err, simulation.ErrEmptyFlock)
	assert.Zero(t, f.sink.calls())
}

func TestDriver_RunRejectsInvalidSettings(t *testing.T) {
	f := newFixture()
	f.add("Cube", vec(0, 0, 0), vec(1, 0, 0))

	s := scenarioSettings()
	s.CohesionStrength = 3
	_, err := f.driver.Run(1, 5, s)
	assert.ErrorIs(t, err, behavior.ErrInvalidSettings)
	assert.Zero(t, f.sink.calls())
}

func TestDriver_SingleBoidMovesLinearly(t *testing.T) {
	f := newFixture()
	v := vec(1, 0.5, 0)
	id := f.add("Cube", vec(0, 0, 0), v)

	report, err := f.driver.Run(1, 10, scenarioSettings())
	require.NoError(t, err)
	assert.Equal(t, 10, report.Frames)
	assert.Equal(t, 1, report.Agents)

	track := f.sink.Keyframes(id)
	require.Len(t, track, 10)
	for i, kf := range track {
		assert.Equal(t, i+1, kf.Frame)
		assert.Equal(t, v.Mul(float64(i)), kf.Pose.Position, "frame %d", kf.Frame)
	}

	b, ok := f.driver.State().Get(id)
	require.True(t, ok)
	assert.Equal(t, v, b.Velocity)
	assert.Equal(t, v.Mul(10), b.Position)
}

func TestDriver_IsolatedBoidsKeepTheirVelocity(t *testing.T) {
	f := newFixture()
	ids := []behavior.AgentID{
		f.add("a", vec(0, 0, 0), vec(0.2, 0, 0)),
		f.add("b", vec(100, 0, 0), vec(0, 0.3, 0)),
		f.add("c", vec(0, 100, 0), vec(0, 0, -0.4)),
	}
	want := []geometry.Vector3{vec(0.2, 0, 0), vec(0, 0.3, 0), vec(0, 0, -0.4)}

	_, err := f.driver.Run(1, 20, scenarioSettings())
	require.NoError(t, err)

	for i, id := range ids {
		b, _ := f.driver.State().Get(id)
		assert.Equal(t, want[i], b.Velocity)
	}
}

func TestDriver_TwoBoidScenario(t *testing.T) {
	f := newFixture()
	a := f.add("a", vec(0, 0, 0), geometry.Zero)
	b := f.add("b", vec(1, 0, 0), geometry.Zero)

	s := scenarioSettings()
	s.SeparationStrength = 0.9
	_, err := f.driver.Run(0, 0, s)
	require.NoError(t, err)

	ba, _ := f.driver.State().Get(a)
	bb, _ := f.driver.State().Get(b)
	assert.Greater(t, ba.Velocity.X, 0.0, "a is pulled towards b")
	assert.Less(t, bb.Velocity.X, 0.0, "b is pulled towards a")
	assert.LessOrEqual(t, ba.Velocity.Len(), s.MaxSpeed)
	assert.LessOrEqual(t, bb.Velocity.Len(), s.MaxSpeed)

	// The keyframe at frame 0 holds the pose entering the frame.
	assert.Equal(t, vec(0, 0, 0), f.sink.Keyframes(a)[0].Pose.Position)
}

func TestDriver_PrunesDeletedObjects(t *testing.T) {
	f := newFixture()
	f.add("a", vec(0, 0, 0), vec(0.1, 0, 0))
	stale := f.add("b", vec(1, 0, 0), vec(0.1, 0, 0))
	f.add("c", vec(2, 0, 0), vec(0.1, 0, 0))

	f.scene.Delete("b")
	report, err := f.driver.Run(1, 6, scenarioSettings())
	require.NoError(t, err)

	assert.Equal(t, []behavior.AgentID{stale}, report.Pruned)
	assert.Equal(t, 2, report.Agents)
	assert.Len(t, f.sink.Agents(), 2)
	for _, id := range f.sink.Agents() {
		assert.NotEqual(t, stale, id)
		assert.Len(t, f.sink.Keyframes(id), 6)
	}
}

func TestDriver_PrunesObjectsDeletedDuringRun(t *testing.T) {
	f := newFixture()
	f.add("a", vec(0, 0, 0), vec(0.1, 0, 0))
	gone := f.add("b", vec(50, 0, 0), vec(0.1, 0, 0))
	f.sink.onRecord = func(id behavior.AgentID, frame int) {
		if id == gone && frame == 3 {
			f.scene.Delete("b")
		}
	}

	report, err := f.driver.Run(1, 5, scenarioSettings())
	require.NoError(t, err)
	assert.Equal(t, []behavior.AgentID{gone}, report.Pruned)
	assert.Len(t, f.sink.Keyframes(gone), 3, "frames recorded before deletion stay")
	assert.Equal(t, 5, report.Frames)
}

func TestDriver_SinkFailureAbortsWithoutRollback(t *testing.T) {
	f := newFixture()
	f.add("a", vec(0, 0, 0), vec(0.1, 0, 0))
	bad := f.add("b", vec(100, 0, 0), vec(0.1, 0, 0))
	boom := errors.New("disk full")
	f.sink.failAt = func(id behavior.AgentID, frame int) error {
		if id == bad && frame == 3 {
			return boom
		}
		return nil
	}

	report, err := f.driver.Run(1, 10, scenarioSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, simulation.ErrSinkWrite)
	assert.ErrorIs(t, err, boom)

	var sinkErr *simulation.SinkError
	require.True(t, errors.As(err, &sinkErr))
	assert.Equal(t, bad, sinkErr.Agent)
	assert.Equal(t, 3, sinkErr.Frame)
	assert.Equal(t, 2, report.Frames)

	assert.Len(t, f.sink.Keyframes(bad), 2)
	b, _ := f.driver.State().Get(bad)
	assert.True(t, b.Position.Eq(vec(100.2, 0, 0)), "the failed frame left the flock untouched, got %v", b.Position)
}

func TestDriver_RunsAreDeterministic(t *testing.T) {
	build := func(opts ...simulation.DriverOption) *fixture {
		f := newFixture(opts...)
		f.add("a", vec(0, 0, 0), vec(0.3, 0.1, 0))
		f.add("b", vec(2, 1, 0), vec(-0.2, 0, 0.1))
		f.add("c", vec(-1, 3, 1), vec(0, -0.2, 0))
		f.add("d", vec(4, -2, 2), vec(0.1, 0.1, 0.1))
		f.add("e", vec(1, 1, -1), geometry.Zero)
		return f
	}
	s := scenarioSettings()
	s.SeparationStrength = 0.9

	f := build()
	_, err := f.driver.Run(1, 60, s)
	require.NoError(t, err)
	first := f.sink.Fingerprint()

	_, err = f.driver.Run(1, 60, s)
	require.NoError(t, err)
	assert.Equal(t, first, f.sink.Fingerprint(), "rerun on the same driver")

	g := build()
	_, err = g.driver.Run(1, 60, s)
	require.NoError(t, err)
	assert.Equal(t, first, g.sink.Fingerprint(), "fresh driver")

	p := build(simulation.WithParallelism(3))
	_, err = p.driver.Run(1, 60, s)
	require.NoError(t, err)
	assert.Equal(t, first, p.sink.Fingerprint(), "parallel passes")
}

func TestDriver_RunClearsPreviousAnimation(t *testing.T) {
	f := newFixture()
	id := f.add("a", vec(0, 0, 0), vec(1, 0, 0))

	_, err := f.driver.Run(1, 10, scenarioSettings())
	require.NoError(t, err)
	_, err = f.driver.Run(5, 7, scenarioSettings())
	require.NoError(t, err)

	track := f.sink.Keyframes(id)
	require.Len(t, track, 3)
	assert.Equal(t, 5, track[0].Frame)
	assert.Equal(t, geometry.Zero, track[0].Pose.Position, "each run starts from the registered placement")
}

func TestDriver_RegisterAndUnregister(t *testing.T) {
	f := newFixture()
	id := f.add("a", vec(0, 0, 0), geometry.Zero)

	again, err := f.driver.Register("a", simulation.Placement{Position: vec(9, 9, 9)})
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, f.driver.State().Len())
	b, _ := f.driver.State().Get(id)
	assert.Equal(t, vec(0, 0, 0), b.Position, "re-registering keeps the first placement")

	_, err = f.driver.Register("missing", simulation.Placement{})
	assert.Error(t, err)

	assert.True(t, f.driver.Unregister("a"))
	assert.False(t, f.driver.Unregister("a"))
	assert.Zero(t, f.driver.State().Len())
}

func TestDriver_RegisterRollsBackOnIDCollision(t *testing.T) {
	scene := registry.NewObjectSet("a", "b")
	reg := registry.NewMemory(scene, registry.WithIDGenerator(func() behavior.AgentID { return "same" }))
	driver := simulation.NewDriver(reg, newCountingSink())

	id, err := driver.Register("a", simulation.Placement{Position: vec(1, 0, 0)})
	require.NoError(t, err)

	_, err = driver.Register("b", simulation.Placement{Position: vec(2, 0, 0)})
	assert.ErrorIs(t, err, simulation.ErrDuplicateAgent)

	_, stillRegistered := reg.Unregister("b")
	assert.False(t, stillRegistered, "a failed registration leaves nothing in the registry")
	assert.Equal(t, []behavior.AgentID{id}, reg.List())

	b, ok := driver.State().Get(id)
	require.True(t, ok)
	assert.Equal(t, vec(1, 0, 0), b.Position)
}

func TestDriver_BoidsAddedOutsideRegisterArePruned(t *testing.T) {
	f := newFixture()
	a := f.add("a", vec(0, 0, 0), vec(0.1, 0, 0))
	rogue := behavior.New("rogue", behavior.KindNormal, vec(5, 5, 5), vec(0, 0.1, 0))
	require.NoError(t, f.driver.State().Add(rogue))

	report, err := f.driver.Run(1, 3, scenarioSettings())
	require.NoError(t, err)

	assert.Equal(t, []behavior.AgentID{"rogue"}, report.Pruned)
	assert.Empty(t, f.sink.Keyframes("rogue"))
	assert.Len(t, f.sink.Keyframes(a), 3)
	assert.Equal(t, vec(5, 5, 5), rogue.Position, "an unregistered boid is dropped, not reset")
}
