package behavior

import (
	"errors"
	"fmt"
)

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid flocking settings")

// Settings controls the physics constants for the simulation.
// It is an immutable snapshot handed to every step; boids never own it.
type Settings struct {
	MaxSpeed     float64 `json:"maxSpeed" yaml:"maxSpeed"`
	MaxForce     float64 `json:"maxForce" yaml:"maxForce"`         // steering (acceleration) limit
	VisionRadius float64 `json:"visionRadius" yaml:"visionRadius"` // neighbor and separation range

	CohesionStrength   float64 `json:"cohesionStrength" yaml:"cohesionStrength"`
	AlignmentStrength  float64 `json:"alignmentStrength" yaml:"alignmentStrength"`
	SeparationStrength float64 `json:"separationStrength" yaml:"separationStrength"`
}

// DefaultSettings returns the stock values of the boid settings panel.
func DefaultSettings() Settings {
	return Settings{
		MaxSpeed:           1,
		MaxForce:           0.1,
		VisionRadius:       10,
		CohesionStrength:   1,
		AlignmentStrength:  1,
		SeparationStrength: 0.9,
	}
}

// Validate checks the ranges of every field.
func (s Settings) Validate() error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"maxSpeed", s.MaxSpeed},
		{"maxForce", s.MaxForce},
		{"visionRadius", s.VisionRadius},
	}
	for _, f := range nonNegative {
		if !(f.value >= 0) {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidSettings, f.name, f.value)
		}
	}

	unit := []struct {
		name  string
		value float64
	}{
		{"cohesionStrength", s.CohesionStrength},
		{"alignmentStrength", s.AlignmentStrength},
		{"separationStrength", s.SeparationStrength},
	}
	for _, f := range unit {
		if !(f.value >= 0 && f.value <= 1) {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidSettings, f.name, f.value)
		}
	}
	return nil
}
