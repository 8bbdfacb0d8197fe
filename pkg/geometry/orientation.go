package geometry

import "math"

// TrackEuler returns the Euler rotation (XYZ order, radians) that turns the
// local +X axis onto dir while keeping +Z as the up reference.
// Roll is always zero. ok is false for the zero vector, which has no facing.
func TrackEuler(dir Vector3) (euler Vector3, ok bool) {
	if dir.IsZero() {
		return Zero, false
	}
	d := dir.Normalize()
	// asin is only defined on [-1, 1]; rounding can push a unit Z just past it.
	z := math.Max(-1, math.Min(1, d.Z))
	return Vector3{
		X: 0,
		Y: -math.Asin(z),
		Z: math.Atan2(d.Y, d.X),
	}, true
}
