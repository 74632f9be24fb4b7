// Package event provides the typed, synchronous dispatcher that decouples
// combat, wave progression, pickups and the output writers.
package event

import (
	"time"

	"submarine-sim/internal/geom"
)

// Kind identifies an event type.
type Kind string

const (
	TorpedoHit        Kind = "torpedo_hit"
	TorpedoFired      Kind = "torpedo_fired"
	EnemyTorpedoFired Kind = "enemy_torpedo_fired"
	EnemyDestroyed    Kind = "enemy_destroyed"
	PlayerDamaged     Kind = "player_damaged"
	PlayerRespawn     Kind = "player_respawn"
	GameOver          Kind = "game_over"
	WaveStarted       Kind = "wave_started"
	WaveCompleted     Kind = "wave_completed"
	PickupCollected   Kind = "pickup_collected"
)

// Event is the payload delivered to subscribers. Fields not meaningful for a
// kind are left zero.
type Event struct {
	Kind        Kind          `json:"kind"`
	Time        time.Duration `json:"time"`
	EntityID    string        `json:"entity_id,omitempty"`
	Position    geom.Vec3     `json:"position"`
	Direction   geom.Vec3     `json:"direction"`
	Target      geom.Vec3     `json:"target"`
	Radius      float64       `json:"radius,omitempty"`
	Size        float64       `json:"size,omitempty"`
	Wave        int           `json:"wave,omitempty"`
	HighestWave int           `json:"highest_wave,omitempty"`
	Value       float64       `json:"value,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// Handler receives published events.
type Handler func(Event)

// Publisher is the narrow interface components use to emit events.
type Publisher interface {
	Publish(Event)
}

// Bus dispatches events synchronously, in subscription order, on the
// publisher's goroutine. It is not safe for concurrent use; the simulator
// owns it from a single tick loop.
type Bus struct {
	byKind map[Kind][]Handler
	all    []Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{byKind: make(map[Kind][]Handler)}
}

// Subscribe registers h for events of kind k.
func (b *Bus) Subscribe(k Kind, h Handler) {
	b.byKind[k] = append(b.byKind[k], h)
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

// Publish delivers e to kind subscribers first, then catch-all subscribers.
// Handlers added during delivery only see later events.
func (b *Bus) Publish(e Event) {
	hs := b.byKind[e.Kind]
	for _, h := range hs[:len(hs):len(hs)] {
		h(e)
	}
	all := b.all
	for _, h := range all[:len(all):len(all)] {
		h(e)
	}
}

// Recorder collects events for later inspection.
type Recorder struct {
	Events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(e Event) { r.Events = append(r.Events, e) }

// Count returns how many events of kind k were recorded.
func (r *Recorder) Count(k Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Last returns the most recent event of kind k.
func (r *Recorder) Last(k Kind) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Kind == k {
			return r.Events[i], true
		}
	}
	return Event{}, false
}

// Discard drops every event.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(Event) {}
