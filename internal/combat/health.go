// Package combat implements damage, destruction, cooldown gates and aim.
package combat

import (
	"fmt"
	"math"
	"time"
)

// Lifecycle is the one-way state of a damageable entity.
type Lifecycle int

const (
	Alive Lifecycle = iota
	Destroyed
	Removed
)

func (l Lifecycle) String() string {
	switch l {
	case Alive:
		return "alive"
	case Destroyed:
		return "destroyed"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("lifecycle(%d)", int(l))
}

// Health tracks hit points and the Alive -> Destroyed -> Removed lifecycle.
// Current stays within [0, Max].
type Health struct {
	Current float64
	Max     float64
	state   Lifecycle
}

// NewHealth returns full health.
func NewHealth(max float64) Health {
	return Health{Current: max, Max: max}
}

// State returns the lifecycle state.
func (h *Health) State() Lifecycle { return h.state }

// Alive reports whether the entity still takes part in combat.
func (h *Health) Alive() bool { return h.state == Alive }

// TakeDamage subtracts amount and reports whether this call destroyed the
// entity. Damage after destruction and non-positive amounts are no-ops.
func (h *Health) TakeDamage(amount float64) bool {
	if h.state != Alive || amount <= 0 {
		return false
	}
	h.Current = math.Max(0, h.Current-amount)
	if h.Current > 0 {
		return false
	}
	h.state = Destroyed
	return true
}

// Heal adds amount up to Max and returns how much was applied. Destroyed
// entities cannot be healed.
func (h *Health) Heal(amount float64) float64 {
	if h.state != Alive || amount <= 0 {
		return 0
	}
	before := h.Current
	h.Current = math.Min(h.Max, h.Current+amount)
	return h.Current - before
}

// MarkRemoved finishes the lifecycle of a destroyed entity.
func (h *Health) MarkRemoved() {
	if h.state == Destroyed {
		h.state = Removed
	}
}

// Revive restores full health. Only the player respawn path uses it.
func (h *Health) Revive() {
	h.Current = h.Max
	h.state = Alive
}

// Ratio returns Current/Max.
func (h *Health) Ratio() float64 {
	if h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

// Cooldown is a hard rate gate: the first trigger always passes, later ones
// only once strictly more than Interval has elapsed.
type Cooldown struct {
	Interval time.Duration
	last     time.Duration
	used     bool
}

// Ready reports whether the gate would open at now.
func (c *Cooldown) Ready(now time.Duration) bool {
	return !c.used || now-c.last > c.Interval
}

// Try opens the gate at now if ready and records the time.
func (c *Cooldown) Try(now time.Duration) bool {
	if !c.Ready(now) {
		return false
	}
	c.last = now
	c.used = true
	return true
}

// Window is an invulnerability period started by Start.
type Window struct {
	Length time.Duration
	until  time.Duration
	set    bool
}

// Active reports whether now falls inside the window.
func (w *Window) Active(now time.Duration) bool {
	return w.set && now < w.until
}

// Start opens the window at now.
func (w *Window) Start(now time.Duration) {
	w.until = now + w.Length
	w.set = true
}

// Until returns the end of the current window.
func (w *Window) Until() time.Duration { return w.until }

// Reset clears the window.
func (w *Window) Reset() { w.until, w.set = 0, false }
