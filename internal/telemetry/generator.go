package telemetry

import (
	"time"

	"submarine-sim/internal/event"
)

// Generator stamps rows with the session and wall-clock time.
type Generator struct {
	SessionID string
	now       func() time.Time
}

// NewGenerator creates a generator for a session. now may be nil.
func NewGenerator(sessionID string, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{SessionID: sessionID, now: now}
}

// Now returns the current wall-clock time in UTC.
func (g *Generator) Now() time.Time { return g.now().UTC() }

// Event converts a bus event into a row.
func (g *Generator) Event(e event.Event) EventRow {
	return EventRow{
		SessionID: g.SessionID,
		Kind:      string(e.Kind),
		EntityID:  e.EntityID,
		X:         e.Position.X,
		Y:         e.Position.Y,
		Z:         e.Position.Z,
		Radius:    e.Radius,
		Size:      e.Size,
		Wave:      e.Wave,
		Value:     e.Value,
		Message:   e.Message,
		GameTime:  e.Time.Milliseconds(),
		Timestamp: g.Now(),
	}
}

// Score builds the final score row of a game.
func (g *Generator) Score(player, mode string, score, wave, highest int, difficulty float64, played time.Duration) ScoreRow {
	return ScoreRow{
		SessionID:       g.SessionID,
		PlayerName:      player,
		Score:           score,
		Wave:            wave,
		HighestWave:     highest,
		Difficulty:      difficulty,
		PlayTimeSeconds: int(played.Seconds()),
		GameMode:        mode,
		Timestamp:       g.Now(),
	}
}
