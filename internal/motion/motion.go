// Package motion integrates velocity and direction for every moving entity.
package motion

import (
	"math"

	"submarine-sim/internal/geom"
)

// Body is the kinematic state shared by submarines, enemies and torpedoes.
// Position is the single source of truth; renderers derive transforms from it.
type Body struct {
	Position  geom.Vec3 `json:"position"`
	Velocity  geom.Vec3 `json:"velocity"`
	Direction geom.Vec3 `json:"direction"`
	Radius    float64   `json:"radius"`
}

// Heading returns the unit facing vector for a yaw angle.
func Heading(rotY float64) geom.Vec3 {
	return geom.V(math.Sin(rotY), 0, math.Cos(rotY))
}

// ApplyDrag scales velocity by drag. Called before new forces each tick.
func (b *Body) ApplyDrag(drag float64) {
	b.Velocity = b.Velocity.Scale(drag)
}

// Accelerate pushes velocity along the current direction.
func (b *Body) Accelerate(amount float64) {
	b.Velocity = b.Velocity.Add(b.Direction.Scale(amount))
}

// AccelerateXZ pushes velocity along the horizontal part of the direction only.
func (b *Body) AccelerateXZ(amount float64) {
	b.Velocity.X += b.Direction.X * amount
	b.Velocity.Z += b.Direction.Z * amount
}

// ClampSpeed limits the velocity magnitude to max.
func (b *Body) ClampSpeed(max float64) {
	b.Velocity = b.Velocity.ClampLen(max)
}

// Integrate commits one tick of velocity to position.
func (b *Body) Integrate() {
	b.Position = b.Position.Add(b.Velocity)
}

// Seek turns the direction gradually toward target. blend is the fraction of
// the remaining turn applied this tick.
func (b *Body) Seek(target geom.Vec3, blend float64) {
	want := target.Sub(b.Position).Normalize()
	if want == (geom.Vec3{}) {
		return
	}
	next := b.Direction.Lerp(want, blend).Normalize()
	if next == (geom.Vec3{}) {
		next = want
	}
	b.Direction = next
}

// Wander perturbs the horizontal direction with probability chance.
// rnd must return values in [0, 1).
func (b *Body) Wander(rnd func() float64, chance, jitter float64) bool {
	if rnd() >= chance {
		return false
	}
	b.Direction.X += (rnd() - 0.5) * jitter
	b.Direction.Z += (rnd() - 0.5) * jitter
	b.Direction = b.Direction.Normalize()
	return true
}

// Box is a cuboid world boundary with hard walls.
type Box struct {
	Horizontal float64
	MinY       float64
	MaxY       float64
	// VerticalRestitution scales vertical velocity on a floor or ceiling hit;
	// the sign is flipped so the body moves back into the box.
	VerticalRestitution float64
}

// Reflect clamps b inside the box and reflects the offending components.
// It reports whether any wall was touched.
func (x Box) Reflect(b *Body) bool {
	hit := false
	if math.Abs(b.Position.X) > x.Horizontal {
		b.Position.X = math.Copysign(x.Horizontal, b.Position.X)
		b.Velocity.X = -b.Velocity.X
		b.Direction.X = -b.Direction.X
		hit = true
	}
	if math.Abs(b.Position.Z) > x.Horizontal {
		b.Position.Z = math.Copysign(x.Horizontal, b.Position.Z)
		b.Velocity.Z = -b.Velocity.Z
		b.Direction.Z = -b.Direction.Z
		hit = true
	}
	if x.MinY < x.MaxY {
		if b.Position.Y < x.MinY {
			b.Position.Y = x.MinY
			b.Velocity.Y = -b.Velocity.Y * x.VerticalRestitution
			hit = true
		} else if b.Position.Y > x.MaxY {
			b.Position.Y = x.MaxY
			b.Velocity.Y = -b.Velocity.Y * x.VerticalRestitution
			hit = true
		}
	}
	return hit
}
