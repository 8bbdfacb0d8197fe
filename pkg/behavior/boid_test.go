package behavior

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
)

func TestNew_StartsWithLastPositionAtPosition(t *testing.T) {
	b := New("a", KindPrey, vec(1, 2, 3), geometry.Zero)
	assert.Equal(t, b.Position, b.LastPosition)
	assert.Equal(t, KindPrey, b.Kind)
	assert.Equal(t, geometry.Zero, b.Orientation)
}

func TestFindNeighbors(t *testing.T) {
	me := New("me", KindNormal, geometry.Zero, geometry.Zero)
	inside := New("in", KindNormal, vec(3, 4, 0), geometry.Zero)    // exactly 5 away
	outside := New("out", KindNormal, vec(0, 0, 5.01), geometry.Zero) // just out of range
	flock := []*Boid{me, inside, outside}

	me.FindNeighbors(flock, 5)

	require.Len(t, me.Neighbors, 1)
	assert.Same(t, inside, me.Neighbors[0])
}

func TestFindNeighbors_IncludesBoidsOnTheRadius(t *testing.T) {
	offsets := []geometry.Vector3{
		vec(0.1, 0.56, 0.3),
		vec(0.7, -0.2, 1.3),
		vec(-2.9, 0.01, 4.4),
		vec(0.3, 0.3, 0.3),
	}
	for _, offset := range offsets {
		me := New("me", KindNormal, geometry.Zero, geometry.Zero)
		other := New("other", KindNormal, offset, geometry.Zero)

		me.FindNeighbors([]*Boid{me, other}, offset.Len())

		assert.Len(t, me.Neighbors, 1, "boid at %v lies on radius %v", offset, offset.Len())
	}
}

func TestFindNeighbors_NeverIncludesSelf(t *testing.T) {
	flock := []*Boid{
		New("a", KindNormal, geometry.Zero, geometry.Zero),
		New("b", KindNormal, geometry.Zero, geometry.Zero),
		New("c", KindNormal, vec(0.5, 0, 0), geometry.Zero),
	}
	for _, radius := range []float64{0, 1, 1000} {
		for _, b := range flock {
			b.FindNeighbors(flock, radius)
			for _, n := range b.Neighbors {
				assert.NotSame(t, b, n, "boid %s is its own neighbor at radius %v", b.ID, radius)
			}
		}
	}
}

func TestFindNeighbors_UsesOtherLastPosition(t *testing.T) {
	me := New("me", KindNormal, geometry.Zero, geometry.Zero)
	other := New("other", KindNormal, vec(1, 0, 0), vec(10, 0, 0))
	other.Move() // now at 11, but was at 1 when the step started

	me.FindNeighbors([]*Boid{me, other}, 2)
	require.Len(t, me.Neighbors, 1)

	// The querying boid's own LastPosition does not matter.
	me.LastPosition = vec(100, 0, 0)
	me.FindNeighbors([]*Boid{me, other}, 2)
	assert.Len(t, me.Neighbors, 1)
}

func TestMoveAndRotate(t *testing.T) {
	b := New("a", KindNormal, vec(1, 1, 1), vec(0, 2, 0))
	b.Move()
	b.Rotate()

	assert.Equal(t, vec(1, 1, 1), b.LastPosition)
	assert.Equal(t, vec(1, 3, 1), b.Position)
	assert.InDelta(t, math.Pi/2, b.Orientation.Z, geometry.Epsilon)

	facing := b.Orientation
	b.Velocity = geometry.Zero
	b.Rotate()
	assert.Equal(t, facing, b.Orientation, "zero velocity keeps the previous facing")
}

func TestParseAgentKind(t *testing.T) {
	tests := []struct {
		in      string
		want    AgentKind
		wantErr bool
	}{
		{"", KindNormal, false},
		{"normal", KindNormal, false},
		{"Prey", KindPrey, false},
		{" predator ", KindPredator, false},
		{"wolf", KindNormal, true},
	}
	for _, tt := range tests {
		got, err := ParseAgentKind(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.want.String(), got.String())
	}
}

func TestSettings_Validate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"negative max speed", func(s *Settings) { s.MaxSpeed = -1 }},
		{"negative max force", func(s *Settings) { s.MaxForce = -0.1 }},
		{"negative vision", func(s *Settings) { s.VisionRadius = -3 }},
		{"NaN vision", func(s *Settings) { s.VisionRadius = math.NaN() }},
		{"cohesion above one", func(s *Settings) { s.CohesionStrength = 1.5 }},
		{"alignment below zero", func(s *Settings) { s.AlignmentStrength = -0.2 }},
		{"separation above one", func(s *Settings) { s.SeparationStrength = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}
