package sim

import (
	"submarine-sim/internal/host"
	"submarine-sim/internal/telemetry"
)

// MultiWriter fan-outs state, event and score rows to multiple writers.
// Writers that also implement host.UI receive stat updates and messages.
type MultiWriter struct {
	stateWriters []StateWriter
	eventWriters []EventWriter
	scoreWriters []ScoreWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(sws []StateWriter, ews []EventWriter, scws []ScoreWriter) *MultiWriter {
	return &MultiWriter{stateWriters: sws, eventWriters: ews, scoreWriters: scws}
}

// WriteState sends a state row to all writers.
func (mw *MultiWriter) WriteState(row telemetry.StateRow) error {
	for _, w := range mw.stateWriters {
		if err := w.WriteState(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteStates sends multiple state rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteStates(rows []telemetry.StateRow) error {
	for _, w := range mw.stateWriters {
		if bw, ok := w.(batchStateWriter); ok {
			if err := bw.WriteStates(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteState(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEvent sends an event row to all event writers.
func (mw *MultiWriter) WriteEvent(row telemetry.EventRow) error {
	for _, w := range mw.eventWriters {
		if err := w.WriteEvent(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents sends multiple events to all event writers, using batch if supported.
func (mw *MultiWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, w := range mw.eventWriters {
		if bw, ok := w.(batchEventWriter); ok {
			if err := bw.WriteEvents(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteEvent(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteScore sends the final score to all score writers.
func (mw *MultiWriter) WriteScore(row telemetry.ScoreRow) error {
	for _, w := range mw.scoreWriters {
		if err := w.WriteScore(row); err != nil {
			return err
		}
	}
	return nil
}

// SetStatValue forwards to state writers that render a HUD.
func (mw *MultiWriter) SetStatValue(kind string, value float64) {
	for _, w := range mw.stateWriters {
		if ui, ok := w.(host.UI); ok {
			ui.SetStatValue(kind, value)
		}
	}
}

// ShowMessage forwards to state writers that render a HUD.
func (mw *MultiWriter) ShowMessage(text string, durationMs int) {
	for _, w := range mw.stateWriters {
		if ui, ok := w.(host.UI); ok {
			ui.ShowMessage(text, durationMs)
		}
	}
}
