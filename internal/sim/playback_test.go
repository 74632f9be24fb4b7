package sim

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"submarine-sim/internal/telemetry"
)

type collectWriter struct{ rows []telemetry.StateRow }

func (c *collectWriter) WriteState(r telemetry.StateRow) error {
	c.rows = append(c.rows, r)
	return nil
}

func TestReplayLog(t *testing.T) {
	rows := []telemetry.StateRow{
		{SessionID: "s1", Tick: 1, Timestamp: time.Unix(0, 0)},
		{SessionID: "s1", Tick: 2, Timestamp: time.Unix(1, 0)},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	cw := &collectWriter{}
	if err := ReplayLog(&buf, cw, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if len(cw.rows) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cw.rows))
	}
	for i, r := range rows {
		if cw.rows[i].Tick != r.Tick {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.rows[i], r)
		}
	}
}

func TestReplayLogBadJSON(t *testing.T) {
	cw := &collectWriter{}
	if err := ReplayLog(bytes.NewBufferString("{\"tick\":1}\nnot json\n"), cw, 0); err == nil {
		t.Fatalf("expected decode error")
	}
	if len(cw.rows) != 1 {
		t.Fatalf("rows before the bad line should be replayed, got %d", len(cw.rows))
	}
}

func TestReplayLogFileMissing(t *testing.T) {
	if err := ReplayLogFile(t.TempDir()+"/missing.json", &collectWriter{}, 0); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
