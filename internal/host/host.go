// Package host declares the collaborators the simulation core notifies:
// scene, effects and UI. Implementations live with the frontends.
package host

import (
	"submarine-sim/internal/geom"
)

// EntityKind names the kind of entity a visual represents.
type EntityKind string

const (
	KindPlayer       EntityKind = "player"
	KindEnemy        EntityKind = "enemy"
	KindTorpedo      EntityKind = "torpedo"
	KindEnemyTorpedo EntityKind = "enemy_torpedo"
	KindPickupAmmo   EntityKind = "pickup_ammo"
	KindPickupHealth EntityKind = "pickup_health"
)

// Stat names pushed to the UI.
const (
	StatHealth    = "health"
	StatAmmo      = "ammo"
	StatLives     = "lives"
	StatWave      = "wave"
	StatScore     = "score"
	StatEnemies   = "enemies"
	StatCountdown = "countdown"
)

// Sound names played through Effects.
const (
	SoundTorpedo      = "torpedo"
	SoundEmpty        = "empty"
	SoundExplosion    = "explosion"
	SoundPickupAmmo   = "pickup_ammo"
	SoundPickupHealth = "pickup_health"
)

// Scene is told when entities appear and disappear.
type Scene interface {
	SpawnVisual(kind EntityKind, id string, pos geom.Vec3)
	RemoveVisual(id string)
}

// Effects receives fire-and-forget explosion and sound notifications.
type Effects interface {
	TriggerExplosion(pos geom.Vec3, size float64)
	PlaySound(kind string)
}

// UI receives stat updates and transient messages.
type UI interface {
	SetStatValue(kind string, value float64)
	ShowMessage(text string, durationMs int)
}

// Nop implements every collaborator and does nothing.
type Nop struct{}

func (Nop) SpawnVisual(EntityKind, string, geom.Vec3) {}
func (Nop) RemoveVisual(string)                       {}
func (Nop) TriggerExplosion(geom.Vec3, float64)       {}
func (Nop) PlaySound(string)                          {}
func (Nop) SetStatValue(string, float64)              {}
func (Nop) ShowMessage(string, int)                   {}
