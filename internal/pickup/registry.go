// Package pickup spawns ammo and health pickups away from islands and applies
// them when the player swims through one.
package pickup

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"submarine-sim/internal/config"
	"submarine-sim/internal/event"
	"submarine-sim/internal/geom"
	"submarine-sim/internal/host"
)

// Stats is the part of the player's stats pickups restock.
type Stats interface {
	AddAmmo(n int) int
	AddHealth(n float64) float64
	HealthRatio() float64
}

// Pickup is a collectable resting just above the floor.
type Pickup struct {
	ID        string        `json:"id"`
	Tier      Tier          `json:"tier"`
	Position  geom.Vec3     `json:"position"`
	SpawnedAt time.Duration `json:"spawned_at"`
}

// Registry owns live pickups and the spawn timer.
type Registry struct {
	Pickups []*Pickup

	cfg     config.PickupConfig
	islands []config.Island
	floor   float64

	healthDrops int
	ammoDrops   int
	lastSpawn   time.Duration

	stats     Stats
	scene     host.Scene
	effects   host.Effects
	ui        host.UI
	pub       event.Publisher
	randFloat func() float64
	log       *slog.Logger
}

// NewRegistry creates an empty registry. Pass a seeded rnd for reproducible
// placement.
func NewRegistry(cfg *config.GameConfig, stats Stats, scene host.Scene, effects host.Effects, ui host.UI, pub event.Publisher, rnd *rand.Rand, log *slog.Logger) *Registry {
	if scene == nil {
		scene = host.Nop{}
	}
	if effects == nil {
		effects = host.Nop{}
	}
	if ui == nil {
		ui = host.Nop{}
	}
	if pub == nil {
		pub = event.Discard{}
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		cfg:       cfg.Pickups,
		islands:   cfg.World.Islands,
		floor:     cfg.World.FloorLevel,
		stats:     stats,
		scene:     scene,
		effects:   effects,
		ui:        ui,
		pub:       pub,
		randFloat: rnd.Float64,
		log:       log.With("component", "pickup"),
	}
}

// Init clears the field and places the starting pickups.
func (r *Registry) Init(now time.Duration) {
	r.Clear()
	r.healthDrops, r.ammoDrops = 0, 0
	r.lastSpawn = now
	r.Spawn("ammoMedium", now)
	r.Spawn("healthMedium", now)
}

// Update collects overlapped pickups, then spawns a new one when the
// interval has passed.
func (r *Registry) Update(now time.Duration, player geom.Vec3) {
	r.Collect(now, player)
	if now-r.lastSpawn > config.Ms(r.cfg.IntervalMs) {
		r.SpawnRandom(r.ChooseCategory(), now)
		r.lastSpawn = now
	}
}

// ChooseCategory decides what the next timed spawn restores.
func (r *Registry) ChooseCategory() Category {
	switch r.cfg.Policy {
	case config.PolicyReactive:
		if r.stats != nil && r.stats.HealthRatio() < r.cfg.ReactiveThreshold {
			return Health
		}
		return Ammo
	default:
		share := float64(r.healthDrops) / (float64(r.healthDrops+r.ammoDrops) + 0.001)
		if share < r.cfg.TargetHealthShare {
			return Health
		}
		return Ammo
	}
}

// SpawnRandom spawns a weighted tier of cat.
func (r *Registry) SpawnRandom(cat Category, now time.Duration) (*Pickup, bool) {
	return r.Spawn(PickTier(cat, r.randFloat()).Name, now)
}

// Spawn places a pickup of the named tier. It does nothing when the field is
// full or the tier is unknown.
func (r *Registry) Spawn(name string, now time.Duration) (*Pickup, bool) {
	if len(r.Pickups) >= r.cfg.Max {
		return nil, false
	}
	tier, ok := TierByName(name)
	if !ok {
		r.log.Warn("unknown pickup tier", "tier", name)
		return nil, false
	}
	pos, _ := r.SafePosition()
	p := &Pickup{ID: uuid.New().String(), Tier: tier, Position: pos, SpawnedAt: now}
	r.Pickups = append(r.Pickups, p)
	if tier.Category == Health {
		r.healthDrops++
	} else {
		r.ammoDrops++
	}
	r.scene.SpawnVisual(visualKind(tier), p.ID, pos)
	r.log.Debug("pickup spawned", "tier", tier.Name, "x", pos.X, "z", pos.Z)
	return p, true
}

// SafePosition draws candidates inside the spawn area and rejects those
// within SafeDistance of an island's edge. After Attempts rejections it
// returns an unchecked position and false.
func (r *Registry) SafePosition() (geom.Vec3, bool) {
	y := r.floor + r.cfg.HeightAboveFloor
	for i := 0; i < r.cfg.Attempts; i++ {
		c := geom.V(r.coord(), y, r.coord())
		if r.clearOfIslands(c) {
			return c, true
		}
	}
	r.log.Debug("no safe pickup position", "attempts", r.cfg.Attempts)
	return geom.V(r.coord(), y, r.coord()), false
}

func (r *Registry) coord() float64 {
	return r.randFloat()*2*r.cfg.Area - r.cfg.Area
}

func (r *Registry) clearOfIslands(p geom.Vec3) bool {
	for _, is := range r.islands {
		if math.Hypot(p.X-is.X, p.Z-is.Z) < is.Size+r.cfg.SafeDistance {
			return false
		}
	}
	return true
}

// Collect applies and removes every pickup within Radius of the player and
// returns how many were taken.
func (r *Registry) Collect(now time.Duration, player geom.Vec3) int {
	n := 0
	for i := len(r.Pickups) - 1; i >= 0; i-- {
		p := r.Pickups[i]
		if player.Dist(p.Position) >= r.cfg.Radius {
			continue
		}
		r.apply(p)
		r.remove(i)
		r.pub.Publish(event.Event{
			Kind:     event.PickupCollected,
			Time:     now,
			EntityID: p.ID,
			Position: p.Position,
			Value:    p.Tier.Value,
			Message:  p.Tier.Name,
		})
		n++
	}
	return n
}

func (r *Registry) apply(p *Pickup) {
	switch p.Tier.Category {
	case Health:
		if r.stats != nil {
			r.stats.AddHealth(p.Tier.Value)
		}
		r.effects.PlaySound(host.SoundPickupHealth)
		r.ui.ShowMessage(fmt.Sprintf("Health +%d", int(p.Tier.Value)), r.cfg.MessageMs)
	default:
		if r.stats != nil {
			r.stats.AddAmmo(int(p.Tier.Value))
		}
		r.effects.PlaySound(host.SoundPickupAmmo)
		r.ui.ShowMessage(fmt.Sprintf("Ammo +%d", int(p.Tier.Value)), r.cfg.MessageMs)
	}
}

func (r *Registry) remove(i int) {
	r.scene.RemoveVisual(r.Pickups[i].ID)
	r.Pickups = append(r.Pickups[:i], r.Pickups[i+1:]...)
}

// Clear removes every pickup.
func (r *Registry) Clear() {
	for _, p := range r.Pickups {
		r.scene.RemoveVisual(p.ID)
	}
	r.Pickups = nil
}

// Count returns the number of live pickups of cat.
func (r *Registry) Count(cat Category) int {
	n := 0
	for _, p := range r.Pickups {
		if p.Tier.Category == cat {
			n++
		}
	}
	return n
}

func visualKind(t Tier) host.EntityKind {
	if t.Category == Health {
		return host.KindPickupHealth
	}
	return host.KindPickupAmmo
}
