package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"submarine-sim/internal/config"
	"submarine-sim/internal/telemetry"
)

func TestJSONStdoutWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &JSONStdoutWriter{out: buf}
	if err := w.WriteState(telemetry.StateRow{SessionID: "s1", Tick: 3, Timestamp: time.Unix(0, 0)}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.WriteEvent(telemetry.EventRow{Kind: "wave_started", Wave: 1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	var st telemetry.StateRow
	if err := json.Unmarshal([]byte(lines[0]), &st); err != nil || st.Tick != 3 {
		t.Fatalf("bad state line %q: %v", lines[0], err)
	}
}

func TestColorStdoutWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorStdoutWriter{cfg: config.Default(), out: buf, Every: 10}
	row := telemetry.StateRow{Tick: 10, Wave: 2, Phase: "active", Health: 20, Ammo: 5, Timestamp: time.Unix(0, 0)}
	if err := w.WriteState(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Game Configuration:") || !strings.Contains(output, "Islands:") {
		t.Fatalf("overview not printed: %q", output)
	}
	if !strings.Contains(output, colorRed+"hp=20") {
		t.Fatalf("low health should be red: %q", output)
	}

	buf.Reset()
	row.Tick = 11
	if err := w.WriteState(row); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unsampled tick printed: %q", buf.String())
	}

	row.GameOver = true
	if err := w.WriteState(row); err != nil {
		t.Fatalf("third write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Game Configuration:") {
		t.Fatalf("overview printed more than once")
	}
	if !strings.Contains(buf.String(), "GAME OVER") {
		t.Fatalf("game over row should always print: %q", buf.String())
	}
}

func TestColorStdoutWriterEvent(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorStdoutWriter{out: buf}
	if err := w.WriteEvent(telemetry.EventRow{Kind: "pickup_collected", Value: 25, Message: "ammoSmall"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, colorGreen+"pickup_collected") || !strings.Contains(out, `msg="ammoSmall"`) {
		t.Fatalf("unexpected output %q", out)
	}
}
