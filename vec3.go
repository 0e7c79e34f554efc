package latentspace

import "math"

// Epsilon is the minimum length below which a direction vector is treated as
// degenerate and is not normalized.
const Epsilon = 1e-9

// Vec3 is a 3D vector used for positions, offsets, and directions.
// Value semantics throughout; no method mutates its receiver.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length and true, or the zero vector and
// false when v is shorter than Epsilon.
func (v Vec3) Normalize() (Vec3, bool) {
	l := v.Len()
	if l < Epsilon || !isFinite(l) {
		return Vec3{}, false
	}
	inv := 1.0 / l
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, true
}

// Lerp linearly interpolates between v and to by t.
func (v Vec3) Lerp(to Vec3, t float64) Vec3 {
	return Vec3{lerp(v.X, to.X, t), lerp(v.Y, to.Y, t), lerp(v.Z, to.Z, t)}
}

// IsFinite reports whether every component is neither NaN nor infinite.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}
