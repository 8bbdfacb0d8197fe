package simulation

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
)

var (
	// ErrInvalidRange is returned when a run ends before it starts.
	ErrInvalidRange = errors.New("invalid frame range")
	// ErrEmptyFlock is returned when a run is requested with no registered agent.
	ErrEmptyFlock = errors.New("no agent registered in the flock")
	// ErrStaleAgent marks an agent whose host object no longer exists.
	// Such agents are pruned, the error only shows up in logs.
	ErrStaleAgent = errors.New("stale agent reference")
	// ErrSinkWrite matches every *SinkError.
	ErrSinkWrite = errors.New("animation sink write failed")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid flock config")
	// ErrDuplicateAgent is returned by State.Add for an id already in the flock.
	ErrDuplicateAgent = errors.New("agent already in the flock")
)

// SinkError reports the agent and frame at which the animation sink failed.
type SinkError struct {
	Op    string // "record" or "clear"
	Agent behavior.AgentID
	Frame int
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("animation sink %s failed for agent %s at frame %d: %v", e.Op, e.Agent, e.Frame, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSinkWrite) true for any SinkError.
func (e *SinkError) Is(target error) bool { return target == ErrSinkWrite }
