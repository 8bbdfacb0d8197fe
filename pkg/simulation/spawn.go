package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
)

// Validate rejects negative counts, spreads and speeds.
func (s *SpawnConfig) Validate() error {
	if s.Count < 0 {
		return fmt.Errorf("%w: spawn count must be >= 0, got %d", ErrInvalidConfig, s.Count)
	}
	if !(s.Spread >= 0) || !(s.Speed >= 0) {
		return fmt.Errorf("%w: spawn spread and speed must be >= 0, got %v and %v", ErrInvalidConfig, s.Spread, s.Speed)
	}
	return nil
}

// Generate scatters Count agents in a cube of half side Spread around Center,
// each with a random heading at Speed. The same Seed always yields the same flock.
func (s *SpawnConfig) Generate() ([]NamedPlacement, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	kind, err := behavior.ParseAgentKind(s.Kind)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = "Boid"
	}

	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	jitter := func() float64 { return (rng.Float64()*2 - 1) * s.Spread }

	out := make([]NamedPlacement, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		pos := s.Center.Add(geometry.Vector3{X: jitter(), Y: jitter(), Z: jitter()})
		out = append(out, NamedPlacement{
			Ref: HostRef(fmt.Sprintf("%s.%03d", prefix, i+1)),
			Placement: Placement{
				Position: pos,
				Velocity: randomHeading(rng).Mul(s.Speed),
				Kind:     kind,
			},
		})
	}
	return out, nil
}

// randomHeading returns a unit vector uniformly distributed on the sphere.
func randomHeading(rng *rand.Rand) geometry.Vector3 {
	z := rng.Float64()*2 - 1
	theta := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return geometry.Vector3{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
}
