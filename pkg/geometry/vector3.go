package geometry

import (
	"fmt"
	"math"
)

// Epsilon Precision constant used for float64 comparisons.
const (
	Epsilon = 1e-9
)

// Vector3 represents a 3D vector or point in cartesian space.
// Fields are public because they are fundamental data, not internal state,
// so literals like Vector3{X: 1, Y: 2, Z: 3} stay readable.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Zero is the zero vector.
var Zero = Vector3{}

// NewVector creates a new Vector3.
func NewVector(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// ---------------------------------------------------------------------
// Stringer Interface
// ---------------------------------------------------------------------

// String implements the fmt.Stringer interface.
func (v Vector3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// These methods use value receivers and return new Values.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub subtracts the other vector from the current vector.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Mul scales the vector by a scalar value.
func (v Vector3) Mul(scalar float64) Vector3 {
	return Vector3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Dot calculates the dot product of two vectors.
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
func (v Vector3) LenSqr() float64 {
	return v.Dot(v)
}

// Len calculates the magnitude (length) of the vector.
func (v Vector3) Len() float64 {
	return math.Sqrt(v.LenSqr())
}

// IsZero reports whether all three components are exactly zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to the zero vector.
func (v Vector3) Normalize() Vector3 {
	if v.IsZero() {
		return Zero
	}
	return v.Mul(1 / v.Len())
}

// SetLen returns a vector pointing like v with magnitude m.
func (v Vector3) SetLen(m float64) Vector3 {
	return v.Normalize().Mul(m)
}

// ClampLen returns v unchanged when its magnitude is at most limit,
// otherwise v rescaled to exactly limit.
func (v Vector3) ClampLen(limit float64) Vector3 {
	if v.Len() <= limit {
		return v
	}
	return v.SetLen(limit)
}

// Average returns the component-wise mean of vs, or the zero vector for an empty list.
func Average(vs []Vector3) Vector3 {
	if len(vs) == 0 {
		return Zero
	}
	var sum Vector3
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(vs)))
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector3) DistanceTo(other Vector3) float64 {
	return v.Sub(other).Len()
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector3) Eq(other Vector3) bool {
	return math.Abs(v.X-other.X) <= Epsilon &&
		math.Abs(v.Y-other.Y) <= Epsilon &&
		math.Abs(v.Z-other.Z) <= Epsilon
}
