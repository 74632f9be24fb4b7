// Package torpedo owns every torpedo in flight, for both sides.
package torpedo

import (
	"log/slog"

	"github.com/google/uuid"

	"submarine-sim/internal/config"
	"submarine-sim/internal/event"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/host"
	"submarine-sim/internal/motion"
)

// Side tags which collision rules a torpedo follows.
type Side string

const (
	Player Side = "player"
	Enemy  Side = "enemy"
)

// Torpedo is a straight-running projectile with a tick-count lifetime.
type Torpedo struct {
	ID     string
	Side   Side
	Body   motion.Body
	Speed  float64
	Life   int
	Target geom.Vec3
}

// Registry holds live torpedoes in launch order.
type Registry struct {
	Torpedoes []*Torpedo

	cfg     config.TorpedoConfig
	world   config.WorldConfig
	combat  config.CombatConfig
	scene   host.Scene
	effects host.Effects
	log     *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg *config.GameConfig, scene host.Scene, effects host.Effects, log *slog.Logger) *Registry {
	if scene == nil {
		scene = host.Nop{}
	}
	if effects == nil {
		effects = host.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Registry{cfg: cfg.Torpedo, world: cfg.World, combat: cfg.Combat, scene: scene, effects: effects, log: log}
}

// Attach subscribes the registry to enemy launch events on bus. Enemy
// torpedoes still running when a new wave starts are dropped.
func (r *Registry) Attach(bus *event.Bus) {
	bus.Subscribe(event.EnemyTorpedoFired, func(e event.Event) {
		r.Launch(Enemy, e.Position, e.Direction, e.Target)
	})
	bus.Subscribe(event.WaveStarted, func(event.Event) { r.ClearSide(Enemy) })
}

// Launch adds a torpedo travelling along dir from pos.
func (r *Registry) Launch(side Side, pos, dir, target geom.Vec3) *Torpedo {
	speed := r.cfg.PlayerSpeed
	kind := host.KindTorpedo
	if side == Enemy {
		speed = r.cfg.EnemySpeed
		kind = host.KindEnemyTorpedo
	}
	t := &Torpedo{
		ID:   uuid.New().String(),
		Side: side,
		Body: motion.Body{
			Position:  pos,
			Direction: dir.Normalize(),
			Radius:    r.cfg.Radius,
		},
		Speed:  speed,
		Life:   r.cfg.Lifetime,
		Target: target,
	}
	r.Torpedoes = append(r.Torpedoes, t)
	r.scene.SpawnVisual(kind, t.ID, pos)
	return t
}

// Step advances every torpedo one tick and expires those that reach the
// floor or run out of lifetime.
func (r *Registry) Step() {
	for i := len(r.Torpedoes) - 1; i >= 0; i-- {
		t := r.Torpedoes[i]
		r.advance(t)

		if t.Body.Position.Y < r.world.FloorLevel {
			r.effects.TriggerExplosion(t.Body.Position, r.combat.FloorExplosionSize)
			r.effects.PlaySound(host.SoundExplosion)
			r.RemoveAt(i)
			continue
		}
		t.Life--
		if t.Life <= 0 {
			r.RemoveAt(i)
		}
	}
}

// advance moves a torpedo in a straight line. Player torpedoes run level and
// sink slowly once under water; enemy torpedoes follow their full 3D aim.
func (r *Registry) advance(t *Torpedo) {
	p := &t.Body.Position
	d := t.Body.Direction
	switch t.Side {
	case Player:
		p.X += d.X * t.Speed
		p.Z += d.Z * t.Speed
		if p.Y < r.world.WaterLevel {
			p.Y -= r.cfg.Drift
		}
	default:
		*p = p.Add(d.Scale(t.Speed))
	}
	t.Body.Velocity = d.Scale(t.Speed)
}

// RemoveAt drops the torpedo at index i. Callers iterating in reverse may
// remove the current element safely.
func (r *Registry) RemoveAt(i int) {
	if i < 0 || i >= len(r.Torpedoes) {
		return
	}
	r.scene.RemoveVisual(r.Torpedoes[i].ID)
	r.Torpedoes = append(r.Torpedoes[:i], r.Torpedoes[i+1:]...)
}

// Clear removes every torpedo.
func (r *Registry) Clear() {
	for _, t := range r.Torpedoes {
		r.scene.RemoveVisual(t.ID)
	}
	r.Torpedoes = nil
}

// ClearSide removes every torpedo fired by side.
func (r *Registry) ClearSide(side Side) {
	for i := len(r.Torpedoes) - 1; i >= 0; i-- {
		if r.Torpedoes[i].Side == side {
			r.RemoveAt(i)
		}
	}
}

// Count returns the number of live torpedoes fired by side.
func (r *Registry) Count(side Side) int {
	n := 0
	for _, t := range r.Torpedoes {
		if t.Side == side {
			n++
		}
	}
	return n
}
