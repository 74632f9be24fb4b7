package enemy

import (
	"time"

	"submarine-sim/internal/combat"
	"submarine-sim/internal/motion"
)

// Names is the roster enemy submarines are christened from.
var Names = []string{
	"Red October", "Typhoon", "Akula", "Seawolf", "Virginia",
	"Ohio", "Triton", "Nautilus", "Trident", "Poseidon",
	"Kraken", "Leviathan", "Barracuda", "Stingray", "Hammerhead",
	"Mako", "Shark", "Piranha", "Orca", "Narwhal",
}

// Enemy represents one hostile submarine.
type Enemy struct {
	ID     string
	Name   string
	Size   float64
	Body   motion.Body
	Health combat.Health
	Fire   combat.Cooldown

	DestroyedAt time.Duration
}

// Alive reports whether the enemy still takes part in collisions.
func (e *Enemy) Alive() bool { return e.Health.Alive() }

// Snapshot is a serialisable view of an enemy.
type Snapshot struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Health    float64 `json:"health"`
	Lifecycle string  `json:"lifecycle"`
}

// Snapshot copies the enemy's externally visible state.
func (e *Enemy) Snapshot() Snapshot {
	p := e.Body.Position
	return Snapshot{
		ID:        e.ID,
		Name:      e.Name,
		X:         p.X,
		Y:         p.Y,
		Z:         p.Z,
		Health:    e.Health.Current,
		Lifecycle: e.Health.State().String(),
	}
}
