package behavior

import "github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"

// Steer turns a desired direction into a bounded steering force:
// the desired velocity at MaxSpeed, minus the current velocity, clamped to MaxForce.
func Steer(desired, velocity geometry.Vector3, s Settings) geometry.Vector3 {
	steer := desired.SetLen(s.MaxSpeed)
	steer = steer.Sub(velocity)
	return steer.ClampLen(s.MaxForce)
}

// Cohesion steers b toward the average position of its neighbors.
func Cohesion(b *Boid, neighbors []*Boid, s Settings) geometry.Vector3 {
	positions := make([]geometry.Vector3, len(neighbors))
	for i, n := range neighbors {
		positions[i] = n.Position
	}
	desired := geometry.Average(positions).Sub(b.Position)
	return Steer(desired, b.Velocity, s).Mul(s.CohesionStrength)
}

// Alignment steers b toward the average velocity of its neighbors.
func Alignment(b *Boid, neighbors []*Boid, s Settings) geometry.Vector3 {
	velocities := make([]geometry.Vector3, len(neighbors))
	for i, n := range neighbors {
		velocities[i] = n.Velocity
	}
	desired := geometry.Average(velocities)
	return Steer(desired, b.Velocity, s).Mul(s.AlignmentStrength)
}

// Separation steers b away from its neighbors. Every neighbor inside the
// vision radius weighs the same, whatever its distance.
func Separation(b *Boid, neighbors []*Boid, s Settings) geometry.Vector3 {
	offsets := make([]geometry.Vector3, len(neighbors))
	for i, n := range neighbors {
		offsets[i] = b.Position.Sub(n.Position)
	}
	desired := geometry.Average(offsets)
	return Steer(desired, b.Velocity, s).Mul(s.SeparationStrength)
}

// ComputeVelocity returns the velocity b should have after applying the three
// rules against its current Neighbors. Without neighbors the velocity is
// returned as is.
func ComputeVelocity(b *Boid, s Settings) geometry.Vector3 {
	if len(b.Neighbors) == 0 {
		return b.Velocity
	}

	cohesion := Cohesion(b, b.Neighbors, s)
	alignment := Alignment(b, b.Neighbors, s)
	separation := Separation(b, b.Neighbors, s)

	v := b.Velocity.Add(cohesion).Add(alignment).Add(separation)
	return v.ClampLen(s.MaxSpeed)
}
