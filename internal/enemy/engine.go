package enemy

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"submarine-sim/internal/clock"
	"submarine-sim/internal/combat"
	"submarine-sim/internal/config"
	"submarine-sim/internal/event"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/host"
	"submarine-sim/internal/motion"
)

// Engine owns every enemy submarine: spawning, AI steering, firing,
// damage and deferred removal.
type Engine struct {
	Enemies []*Enemy

	cfg           config.EnemyConfig
	combat        config.CombatConfig
	maxDifficulty float64
	box           motion.Box

	clock      *clock.Clock
	pub        event.Publisher
	scene      host.Scene
	difficulty func() float64
	rand       *rand.Rand
	randFloat  func() float64
	log        *slog.Logger
}

// NewEngine creates an empty engine. A nil rnd seeds from the current time.
func NewEngine(cfg *config.GameConfig, clk *clock.Clock, pub event.Publisher, scene host.Scene, rnd *rand.Rand, log *slog.Logger) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if pub == nil {
		pub = event.Discard{}
	}
	if scene == nil {
		scene = host.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	base := cfg.Difficulty
	return &Engine{
		cfg:           cfg.Enemy,
		combat:        cfg.Combat,
		maxDifficulty: cfg.Waves.MaxDifficulty,
		box: motion.Box{
			Horizontal:          cfg.Enemy.Bounds,
			MinY:                cfg.Enemy.MinDepth,
			MaxY:                cfg.Enemy.MaxDepth,
			VerticalRestitution: cfg.Enemy.DepthRestitution,
		},
		clock:      clk,
		pub:        pub,
		scene:      scene,
		difficulty: func() float64 { return base },
		rand:       rnd,
		randFloat:  rnd.Float64,
		log:        log,
	}
}

// SetDifficultySource makes aim accuracy follow fn, read once per shot.
func (e *Engine) SetDifficultySource(fn func() float64) {
	if fn != nil {
		e.difficulty = fn
	}
}

// Spawn adds an enemy at a random position inside the spawn volume.
func (e *Engine) Spawn() *Enemy {
	r := e.cfg.SpawnRange
	pos := geom.V(
		e.randFloat()*2*r-r,
		e.cfg.SpawnMaxDepth-e.randFloat()*(e.cfg.SpawnMaxDepth-e.cfg.SpawnMinDepth),
		e.randFloat()*2*r-r,
	)
	return e.SpawnAt(pos)
}

// SpawnAt adds an enemy at pos facing a random horizontal direction.
func (e *Engine) SpawnAt(pos geom.Vec3) *Enemy {
	dir := geom.V(e.randFloat()-0.5, 0, e.randFloat()-0.5).Normalize()
	if dir == (geom.Vec3{}) {
		dir = geom.V(0, 0, 1)
	}
	en := &Enemy{
		ID:   uuid.New().String(),
		Name: Names[e.rand.Intn(len(Names))],
		Size: e.cfg.Size,
		Body: motion.Body{
			Position:  pos,
			Direction: dir,
			Radius:    e.cfg.Radius * e.cfg.Size,
		},
		Health: combat.NewHealth(e.cfg.MaxHealth),
		Fire:   combat.Cooldown{Interval: config.Ms(e.cfg.FireCooldownMs)},
	}
	e.Enemies = append(e.Enemies, en)
	e.scene.SpawnVisual(host.KindEnemy, en.ID, pos)
	e.log.Debug("enemy spawned", "id", en.ID, "name", en.Name, "x", pos.X, "y", pos.Y, "z", pos.Z)
	return en
}

// Clear removes every enemy immediately.
func (e *Engine) Clear() {
	for _, en := range e.Enemies {
		en.Health.MarkRemoved()
		e.scene.RemoveVisual(en.ID)
	}
	e.Enemies = nil
}

// Active returns enemies that still take part in collisions.
func (e *Engine) Active() []*Enemy {
	out := make([]*Enemy, 0, len(e.Enemies))
	for _, en := range e.Enemies {
		if en.Alive() {
			out = append(out, en)
		}
	}
	return out
}

// AliveCount returns the number of living enemies.
func (e *Engine) AliveCount() int {
	n := 0
	for _, en := range e.Enemies {
		if en.Alive() {
			n++
		}
	}
	return n
}

// Step advances every living enemy by one tick against the player's position.
func (e *Engine) Step(now time.Duration, target geom.Vec3) {
	for _, en := range e.Enemies {
		if !en.Alive() {
			continue
		}
		e.steer(en, now, target)
	}
}

func (e *Engine) steer(en *Enemy, now time.Duration, target geom.Vec3) {
	b := &en.Body
	b.ApplyDrag(e.cfg.Drag)

	dist := b.Position.Dist(target)
	if dist < e.cfg.DetectionRange {
		b.Seek(target, e.cfg.SeekBlend)
		b.AccelerateXZ(e.cfg.Acceleration)
		dy := target.Y - b.Position.Y
		if dy != 0 {
			b.Velocity.Y += math.Copysign(e.cfg.VerticalAcceleration, dy)
		}
		if dist < e.cfg.AttackRange && en.Fire.Try(now) {
			e.fire(en, now, target)
		}
	} else {
		b.Wander(e.randFloat, e.cfg.WanderChance, e.cfg.WanderJitter)
		b.AccelerateXZ(e.cfg.WanderAcceleration)
	}

	b.ClampSpeed(e.cfg.MaxSpeed)
	b.Integrate()
	e.box.Reflect(b)
}

func (e *Engine) fire(en *Enemy, now time.Duration, target geom.Vec3) {
	variance := combat.AccuracyVariance(e.difficulty(), e.maxDifficulty, e.combat.MaxAccuracyVariance, e.combat.MinAccuracyVariance)
	aim := combat.AimPoint(target, variance, e.randFloat)
	dir := aim.Sub(en.Body.Position).Normalize()
	e.pub.Publish(event.Event{
		Kind:      event.EnemyTorpedoFired,
		Time:      now,
		EntityID:  en.ID,
		Position:  en.Body.Position,
		Direction: dir,
		Target:    aim,
		Value:     variance,
	})
}

// Damage applies amount to en and reports whether it was destroyed by this
// call. A destroyed enemy leaves collision checks at once; its removal from
// the engine follows after the grace period.
func (e *Engine) Damage(en *Enemy, amount float64) bool {
	if !en.Health.TakeDamage(amount) {
		return false
	}
	now := e.clock.Now()
	en.DestroyedAt = now
	e.log.Debug("enemy destroyed", "id", en.ID, "name", en.Name)
	e.pub.Publish(event.Event{
		Kind:     event.EnemyDestroyed,
		Time:     now,
		EntityID: en.ID,
		Position: en.Body.Position,
		Size:     en.Size * 2,
	})
	id := en.ID
	e.clock.After(config.Ms(e.cfg.RemovalDelayMs), func() { e.remove(id) })
	return true
}

func (e *Engine) remove(id string) {
	for i, en := range e.Enemies {
		if en.ID != id {
			continue
		}
		en.Health.MarkRemoved()
		e.scene.RemoveVisual(id)
		e.Enemies = append(e.Enemies[:i], e.Enemies[i+1:]...)
		return
	}
}

// Snapshots returns the visible state of every enemy, including destroyed ones.
func (e *Engine) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(e.Enemies))
	for _, en := range e.Enemies {
		out = append(out, en.Snapshot())
	}
	return out
}
