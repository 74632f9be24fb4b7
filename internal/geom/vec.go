// Package geom provides the small 3D vector toolkit shared by every entity.
package geom

import "math"

// Vec3 is a point or direction in world space. Y is depth (negative below the water line).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V is shorthand for constructing a Vec3.
func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale multiplies every component by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Len returns the Euclidean length.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// DistXZ returns the distance projected onto the horizontal plane.
func (v Vec3) DistXZ(o Vec3) float64 { return math.Hypot(v.X-o.X, v.Z-o.Z) }

// Normalize returns a unit vector in the direction of v. The zero vector stays zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Lerp blends linearly from v toward o by t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// ClampLen limits the length of v to max.
func (v Vec3) ClampLen(max float64) Vec3 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// Midpoint returns the point halfway between v and o.
func (v Vec3) Midpoint(o Vec3) Vec3 { return v.Lerp(o, 0.5) }

// Overlaps reports whether spheres at a and b with the given radii intersect.
func Overlaps(a Vec3, ra float64, b Vec3, rb float64) bool {
	return a.Dist(b) < ra+rb
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
