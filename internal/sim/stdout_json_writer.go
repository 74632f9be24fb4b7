package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"submarine-sim/internal/telemetry"
)

// JSONStdoutWriter prints state, event and score rows as JSON to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

func (w *JSONStdoutWriter) emit(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteState outputs a state row in JSON format.
func (w *JSONStdoutWriter) WriteState(row telemetry.StateRow) error { return w.emit(row) }

// WriteEvent outputs an event row in JSON format.
func (w *JSONStdoutWriter) WriteEvent(row telemetry.EventRow) error { return w.emit(row) }

// WriteEvents outputs multiple event rows in JSON format.
func (w *JSONStdoutWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, r := range rows {
		if err := w.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteScore outputs the final score in JSON format.
func (w *JSONStdoutWriter) WriteScore(row telemetry.ScoreRow) error { return w.emit(row) }
