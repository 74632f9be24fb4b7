// Package player models the player-controlled submarine.
package player

import (
	"submarine-sim/internal/combat"
	"submarine-sim/internal/config"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/motion"
)

// Controls is the input held during one tick.
type Controls struct {
	Forward   bool `json:"forward,omitempty" yaml:"forward"`
	Backward  bool `json:"backward,omitempty" yaml:"backward"`
	TurnLeft  bool `json:"turn_left,omitempty" yaml:"turn_left"`
	TurnRight bool `json:"turn_right,omitempty" yaml:"turn_right"`
	Surface   bool `json:"surface,omitempty" yaml:"surface"`
	Dive      bool `json:"dive,omitempty" yaml:"dive"`
	Fire      bool `json:"fire,omitempty" yaml:"fire"`
}

// Submarine is the player's vessel. Direction is always derived from
// RotationY so facing and travel never desync.
type Submarine struct {
	Body         motion.Body
	RotationY    float64
	Stats        *combat.PlayerStats
	Invulnerable combat.Window

	cfg          config.PlayerConfig
	surfaceLimit float64
	firePressed  bool
}

// New places a submarine at the configured spawn point.
func New(cfg config.PlayerConfig, world config.WorldConfig, invulnerableMs int, stats *combat.PlayerStats) *Submarine {
	s := &Submarine{
		Stats:        stats,
		Invulnerable: combat.Window{Length: config.Ms(invulnerableMs)},
		cfg:          cfg,
		surfaceLimit: world.WaterLevel - world.SurfaceMargin,
	}
	s.Respawn()
	return s
}

// Respawn resets position and motion. Invulnerability is not granted.
func (s *Submarine) Respawn() {
	s.RotationY = 0
	s.Body = motion.Body{
		Position:  s.cfg.Spawn,
		Direction: motion.Heading(0),
		Radius:    s.cfg.Radius,
	}
	s.firePressed = false
}

// Steer applies drag, rotation and thrust for one tick. It updates velocity
// only; the collision engine commits the position.
func (s *Submarine) Steer(c Controls) {
	s.Body.ApplyDrag(s.cfg.Drag)

	if c.TurnLeft {
		s.RotationY += s.cfg.RotationSpeed
	}
	if c.TurnRight {
		s.RotationY -= s.cfg.RotationSpeed
	}
	s.Body.Direction = motion.Heading(s.RotationY)

	if c.Forward {
		s.Body.Accelerate(s.cfg.Acceleration)
	}
	if c.Backward {
		s.Body.Accelerate(-s.cfg.Acceleration)
	}
	if c.Surface && s.Body.Position.Y < s.surfaceLimit {
		s.Body.Velocity.Y = s.cfg.VerticalSpeed
	}
	if c.Dive {
		s.Body.Velocity.Y = -s.cfg.VerticalSpeed
	}
	s.Body.ClampSpeed(s.cfg.MaxSpeed)
}

// TriggerPulled reports a rising edge on the fire control, so holding the
// button fires once.
func (s *Submarine) TriggerPulled(c Controls) bool {
	pulled := c.Fire && !s.firePressed
	s.firePressed = c.Fire
	return pulled
}

// Muzzle returns the launch point offset ahead of the bow and the launch direction.
func (s *Submarine) Muzzle(offset float64) (geom.Vec3, geom.Vec3) {
	dir := s.Body.Direction
	return s.Body.Position.Add(dir.Scale(offset)), dir
}

// TryFire spends cost rounds and returns the muzzle if the shot is allowed.
func (s *Submarine) TryFire(cost int, offset float64) (pos, dir geom.Vec3, ok bool) {
	if s.Stats == nil || s.Stats.GameOver() || !s.Stats.UseAmmo(cost) {
		return geom.Vec3{}, geom.Vec3{}, false
	}
	pos, dir = s.Muzzle(offset)
	return pos, dir, true
}
