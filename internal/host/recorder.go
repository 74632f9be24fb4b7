package host

import (
	"sync"

	"submarine-sim/internal/geom"
)

// Explosion is a recorded TriggerExplosion call.
type Explosion struct {
	Position geom.Vec3
	Size     float64
}

// Message is a recorded ShowMessage call.
type Message struct {
	Text       string
	DurationMs int
}

// Recorder implements Scene, Effects and UI by remembering every call.
// The admin server reads it from another goroutine, hence the mutex.
type Recorder struct {
	mu         sync.Mutex
	Spawned    map[string]EntityKind
	Removed    []string
	Explosions []Explosion
	Sounds     []string
	Stats      map[string]float64
	Messages   []Message
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Spawned: make(map[string]EntityKind), Stats: make(map[string]float64)}
}

func (r *Recorder) SpawnVisual(kind EntityKind, id string, _ geom.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Spawned[id] = kind
}

func (r *Recorder) RemoveVisual(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Spawned, id)
	r.Removed = append(r.Removed, id)
}

func (r *Recorder) TriggerExplosion(pos geom.Vec3, size float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Explosions = append(r.Explosions, Explosion{Position: pos, Size: size})
}

func (r *Recorder) PlaySound(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sounds = append(r.Sounds, kind)
}

func (r *Recorder) SetStatValue(kind string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stats[kind] = value
}

func (r *Recorder) ShowMessage(text string, durationMs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Text: text, DurationMs: durationMs})
}

// Stat returns the last value pushed for kind.
func (r *Recorder) Stat(kind string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Stats[kind]
}

// LastMessage returns the most recent message, if any.
func (r *Recorder) LastMessage() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

// Visible returns how many spawned visuals have not been removed.
func (r *Recorder) Visible() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Spawned)
}
