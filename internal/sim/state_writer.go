package sim

import "submarine-sim/internal/telemetry"

// StateWriter handles per-tick game state rows.
type StateWriter interface {
	WriteState(telemetry.StateRow) error
}

// Optional: writers may support batch mode for state rows.
type batchStateWriter interface {
	WriteStates([]telemetry.StateRow) error
}

// EventWriter handles gameplay event rows.
type EventWriter interface {
	WriteEvent(telemetry.EventRow) error
}

// Optional: event writers may support batch mode.
type batchEventWriter interface {
	WriteEvents([]telemetry.EventRow) error
}

// ScoreWriter handles the final score of a game.
type ScoreWriter interface {
	WriteScore(telemetry.ScoreRow) error
}
