package simulation

import (
	"fmt"

	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
)

// HostRef identifies an object in the host scene. It is opaque to the simulation.
type HostRef string

// Registry keeps track of which host objects take part in the flock.
type Registry interface {
	// Register returns the id of ref, allocating one on first registration.
	Register(ref HostRef) (behavior.AgentID, error)
	// Unregister forgets ref and returns the id it had.
	Unregister(ref HostRef) (behavior.AgentID, bool)
	// List returns the ids of every registered object still present in the
	// host scene, dropping the ones that disappeared.
	List() []behavior.AgentID
	// IsValid reports whether ref still exists in the host scene.
	IsValid(ref HostRef) bool
}

// Sink stores the animation produced by a run. Each call is one atomic write.
type Sink interface {
	RecordPose(id behavior.AgentID, frame int, pose behavior.Pose) error
	ClearRecorded(id behavior.AgentID) error
}

// Placement is the state a boid starts every run with.
type Placement struct {
	Position geometry.Vector3
	Velocity geometry.Vector3
	Kind     behavior.AgentKind
}

// RunReport summarizes a completed run.
type RunReport struct {
	Start  int
	End    int
	Frames int
	Agents int
	Pruned []behavior.AgentID
}

// Driver registers boids and runs the simulation over a frame range.
type Driver struct {
	registry   Registry
	sink       Sink
	state      *State
	sim        *Simulator
	placements map[behavior.AgentID]Placement
	refs       map[behavior.AgentID]HostRef
	logger     log.Logger
}

// DriverOption configures a Driver.
type DriverOption func(*driverOptions)

type driverOptions struct {
	logger  log.Logger
	workers int
}

// WithLogger sets the logger used by the driver.
func WithLogger(logger log.Logger) DriverOption {
	return func(o *driverOptions) {
		o.logger = logger
	}
}

// WithParallelism sets the number of workers of the underlying Simulator.
func WithParallelism(workers int) DriverOption {
	return func(o *driverOptions) {
		o.workers = workers
	}
}

// NewDriver creates a driver recording into sink the flock listed by registry.
func NewDriver(registry Registry, sink Sink, opts ...DriverOption) *Driver {
	o := driverOptions{logger: log.DiscardLogger, workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	state := NewState()
	return &Driver{
		registry:   registry,
		sink:       sink,
		state:      state,
		sim:        NewSimulator(state, WithWorkers(o.workers)),
		placements: make(map[behavior.AgentID]Placement),
		refs:       make(map[behavior.AgentID]HostRef),
		logger:     o.logger,
	}
}

// State returns the flock owned by the driver.
func (d *Driver) State() *State {
	return d.state
}

// Register adds the host object ref to the flock, starting at p.
// Registering an object twice keeps its first id and placement.
func (d *Driver) Register(ref HostRef, p Placement) (behavior.AgentID, error) {
	id, err := d.registry.Register(ref)
	if err != nil {
		return "", fmt.Errorf("register %q: %w", ref, err)
	}
	if owner, ok := d.refs[id]; ok && owner == ref {
		return id, nil
	}
	if err := d.state.Add(behavior.New(id, p.Kind, p.Position, p.Velocity)); err != nil {
		d.registry.Unregister(ref)
		return "", fmt.Errorf("register %q: %w", ref, err)
	}
	d.placements[id] = p
	d.refs[id] = ref
	d.logger.Debugf("registered %s as %s (%s) at %s", ref, id, p.Kind, p.Position)
	return id, nil
}

// Unregister removes the host object ref from the flock.
func (d *Driver) Unregister(ref HostRef) bool {
	id, ok := d.registry.Unregister(ref)
	if !ok {
		return false
	}
	d.state.Remove(id)
	delete(d.placements, id)
	delete(d.refs, id)
	d.logger.Debugf("unregistered %s (%s)", ref, id)
	return true
}

// Run clears the animation recorded for every boid, then steps the flock once
// per frame in [start, end]. Invalid input is rejected before the sink is touched.
// A sink failure aborts the run, frames already recorded stay in the sink.
func (d *Driver) Run(start, end int, settings behavior.Settings) (RunReport, error) {
	report := RunReport{Start: start, End: end}

	if end < start {
		return report, fmt.Errorf("%w: end frame %d is before start frame %d", ErrInvalidRange, end, start)
	}
	if err := settings.Validate(); err != nil {
		return report, err
	}

	report.Pruned = append(report.Pruned, d.prune()...)
	if d.state.Len() == 0 {
		return report, ErrEmptyFlock
	}

	d.reset()
	for _, id := range d.state.IDs() {
		if err := d.sink.ClearRecorded(id); err != nil {
			return report, &SinkError{Op: "clear", Agent: id, Frame: start, Err: err}
		}
	}

	d.logger.Infof("running frames %d..%d with %d agents", start, end, d.state.Len())
	for frame := start; frame <= end; frame++ {
		report.Pruned = append(report.Pruned, d.prune()...)
		if err := d.sim.Step(frame, settings, d.sink); err != nil {
			report.Agents = d.state.Len()
			return report, err
		}
		report.Frames++
	}
	report.Agents = d.state.Len()
	d.logger.Infof("run finished: %d frames, %d agents, %d pruned", report.Frames, report.Agents, len(report.Pruned))
	return report, nil
}

// prune drops the boids the registry no longer lists.
func (d *Driver) prune() []behavior.AgentID {
	listed := make(map[behavior.AgentID]struct{}, d.state.Len())
	for _, id := range d.registry.List() {
		listed[id] = struct{}{}
	}

	removed := d.state.Retain(func(b *behavior.Boid) bool {
		_, ok := listed[b.ID]
		return ok
	})
	for _, id := range removed {
		delete(d.placements, id)
		delete(d.refs, id)
		d.logger.Debugf("pruned %s: %v", id, ErrStaleAgent)
	}
	return removed
}

// reset puts every boid back on its registered placement. Boids without one
// keep their current state.
func (d *Driver) reset() {
	for _, b := range d.state.Boids() {
		p, ok := d.placements[b.ID]
		if !ok {
			continue
		}
		*b = *behavior.New(b.ID, p.Kind, p.Position, p.Velocity)
	}
}
