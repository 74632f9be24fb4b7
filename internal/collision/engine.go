// Package collision detects and resolves overlaps between entities and the
// static world. It owns no entities; registries are passed in per call.
package collision

import (
	"log/slog"
	"math"
	"time"

	"submarine-sim/internal/config"
	"submarine-sim/internal/enemy"
	"submarine-sim/internal/event"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/host"
	"submarine-sim/internal/motion"
	"submarine-sim/internal/player"
	"submarine-sim/internal/torpedo"
)

// Engine resolves collisions for one tick at a time.
type Engine struct {
	world   config.WorldConfig
	combat  config.CombatConfig
	torp    config.TorpedoConfig
	bounds  motion.Box
	pub     event.Publisher
	effects host.Effects
	log     *slog.Logger
}

// NewEngine creates a collision engine for the configured world.
func NewEngine(cfg *config.GameConfig, pub event.Publisher, effects host.Effects, log *slog.Logger) *Engine {
	if pub == nil {
		pub = event.Discard{}
	}
	if effects == nil {
		effects = host.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		world:   cfg.World,
		combat:  cfg.Combat,
		torp:    cfg.Torpedo,
		bounds:  motion.Box{Horizontal: cfg.Player.Bounds},
		pub:     pub,
		effects: effects,
		log:     log,
	}
}

// Ceiling is the highest Y a submarine may reach.
func (c *Engine) Ceiling() float64 { return c.world.WaterLevel - c.world.SurfaceMargin }

// Floor is the lowest Y a submarine may reach.
func (c *Engine) Floor() float64 { return c.world.FloorLevel }

// MovePlayer commits one tick of the player's velocity. Islands are resolved
// against the candidate position before it is committed, then the depth band
// and world bounds are enforced. It reports whether an island was hit.
func (c *Engine) MovePlayer(sub *player.Submarine) bool {
	b := &sub.Body
	next := b.Position.Add(b.Velocity)
	hit := c.resolveIslands(&next, &b.Velocity, b.Radius)
	b.Position = next
	c.clampDepth(b)
	c.bounds.Reflect(b)
	b.Direction = motion.Heading(sub.RotationY)
	return hit
}

func (c *Engine) resolveIslands(pos, vel *geom.Vec3, radius float64) bool {
	hit := false
	for _, is := range c.world.Islands {
		limit := is.Size*c.world.IslandScale + radius
		dx, dz := pos.X-is.X, pos.Z-is.Z
		dist := math.Hypot(dx, dz)
		if dist >= limit {
			continue
		}
		n := geom.V(1, 0, 0)
		if dist > 0 {
			n = geom.V(dx/dist, 0, dz/dist)
		}
		if dot := vel.Dot(n); dot < 0 {
			*vel = vel.Sub(n.Scale((1 + c.world.IslandBounce) * dot))
		}
		*pos = pos.Add(n.Scale(limit - dist))
		hit = true
	}
	return hit
}

func (c *Engine) clampDepth(b *motion.Body) {
	if top := c.Ceiling(); b.Position.Y > top {
		b.Position.Y = top
		b.Velocity.Y = 0
	}
	if b.Position.Y < c.world.FloorLevel {
		b.Position.Y = c.world.FloorLevel
		b.Velocity.Y = -b.Velocity.Y * c.world.FloorBounce
		b.Velocity.X *= c.world.FloorDrag
		b.Velocity.Z *= c.world.FloorDrag
	}
}

// PlayerVsEnemies applies ramming damage to the player and the first
// overlapping live enemy, once per invulnerability window.
func (c *Engine) PlayerVsEnemies(now time.Duration, sub *player.Submarine, enemies *enemy.Engine) bool {
	if sub.Stats.GameOver() || sub.Invulnerable.Active(now) {
		return false
	}
	p := sub.Body.Position
	for _, en := range enemies.Enemies {
		if !en.Alive() {
			continue
		}
		if !geom.Overlaps(p, sub.Body.Radius, en.Body.Position, en.Body.Radius) {
			continue
		}
		sub.Invulnerable.Start(now)
		c.effects.TriggerExplosion(p.Midpoint(en.Body.Position), c.combat.CollisionExplosionSize)
		c.effects.PlaySound(host.SoundExplosion)
		knock := p.Sub(en.Body.Position).Normalize().Scale(c.combat.Knockback)
		sub.Body.Velocity = sub.Body.Velocity.Add(knock)
		c.log.Debug("player rammed enemy", "enemy", en.Name)
		sub.Stats.TakeDamage(c.combat.CollisionDamage)
		enemies.Damage(en, c.combat.CollisionDamage)
		return true
	}
	return false
}

// TorpedoesVsEnemies resolves player torpedo hits. Each torpedo damages at
// most one enemy: the first live overlap in registry order wins and the
// torpedo is consumed. It returns the number of hits.
func (c *Engine) TorpedoesVsEnemies(now time.Duration, torps *torpedo.Registry, enemies *enemy.Engine) int {
	hits := 0
	for i := len(torps.Torpedoes) - 1; i >= 0; i-- {
		t := torps.Torpedoes[i]
		if t.Side != torpedo.Player {
			continue
		}
		for _, en := range enemies.Enemies {
			if !en.Alive() {
				continue
			}
			if !geom.Overlaps(t.Body.Position, t.Body.Radius, en.Body.Position, en.Body.Radius) {
				continue
			}
			pos := t.Body.Position
			enemies.Damage(en, c.combat.TorpedoDamage)
			c.effects.TriggerExplosion(pos, c.combat.TorpedoExplosionSize)
			c.effects.PlaySound(host.SoundExplosion)
			torps.RemoveAt(i)
			c.pub.Publish(event.Event{
				Kind:     event.TorpedoHit,
				Time:     now,
				EntityID: en.ID,
				Position: pos,
				Radius:   c.combat.HitRadius,
			})
			hits++
			break
		}
	}
	return hits
}

// EnemyTorpedoesVsPlayer resolves enemy torpedo hits on the player.
func (c *Engine) EnemyTorpedoesVsPlayer(torps *torpedo.Registry, sub *player.Submarine) int {
	if sub.Stats.GameOver() {
		return 0
	}
	hits := 0
	for i := len(torps.Torpedoes) - 1; i >= 0; i-- {
		t := torps.Torpedoes[i]
		if t.Side != torpedo.Enemy {
			continue
		}
		if !geom.Overlaps(t.Body.Position, t.Body.Radius, sub.Body.Position, sub.Body.Radius) {
			continue
		}
		c.effects.TriggerExplosion(t.Body.Position, c.combat.CollisionExplosionSize)
		c.effects.PlaySound(host.SoundExplosion)
		torps.RemoveAt(i)
		sub.Stats.TakeDamage(c.combat.EnemyTorpedoDamage)
		hits++
	}
	return hits
}
