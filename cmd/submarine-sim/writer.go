package main

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"submarine-sim/internal/config"
	"submarine-sim/internal/sim"
)

// gameWriter receives every output stream.
type gameWriter interface {
	sim.StateWriter
	sim.EventWriter
	sim.ScoreWriter
}

// Output modes for stdout.
const (
	outputAuto  = "auto"
	outputJSON  = "json"
	outputColor = "color"
	outputTUI   = "tui"
)

// newWriters sets up the state, event and score writers based on flags and
// env vars. It returns the writers, the TUI when one is running, and a cleanup
// function that closes any resources.
func newWriters(cfg *config.GameConfig, printOnly bool, output, logFile string, log *slog.Logger) (sim.Writers, *sim.TUIWriter, func(), error) {
	if log == nil {
		log = slog.Default()
	}
	base, tui, err := baseWriters(cfg, printOnly, output, log)
	if err != nil {
		return sim.Writers{}, nil, nil, err
	}
	cleanup := func() {
		if tui != nil {
			tui.Close()
		}
	}
	if logFile == "" {
		return sim.Writers{State: base, Event: base, Score: base}, tui, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".events", logFile+".scores")
	if err != nil {
		cleanup()
		return sim.Writers{}, nil, nil, err
	}
	mw := sim.NewMultiWriter(
		[]sim.StateWriter{base, fw},
		[]sim.EventWriter{base, fw},
		[]sim.ScoreWriter{base, fw},
	)
	closeBase := cleanup
	cleanup = func() {
		if err := fw.Close(); err != nil {
			log.Error("close log files", "err", err)
		}
		closeBase()
	}
	return sim.Writers{State: mw, Event: mw, Score: mw}, tui, cleanup, nil
}

// baseWriters chooses the underlying writer: GreptimeDB when an endpoint is
// configured, otherwise STDOUT in the requested output mode.
func baseWriters(cfg *config.GameConfig, printOnly bool, output string, log *slog.Logger) (gameWriter, *sim.TUIWriter, error) {
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if !printOnly && endpoint != "" {
		database := os.Getenv("GREPTIMEDB_DATABASE")
		if database == "" {
			database = "public"
		}
		w, err := sim.NewGreptimeDBWriter(endpoint, database, log)
		if err != nil {
			return nil, nil, err
		}
		return w, nil, nil
	}

	if output == outputAuto {
		output = outputJSON
		if term.IsTerminal(int(os.Stdout.Fd())) {
			output = outputTUI
		}
	}
	switch output {
	case outputJSON:
		return sim.NewJSONStdoutWriter(), nil, nil
	case outputColor:
		return sim.NewColorStdoutWriter(cfg), nil, nil
	case outputTUI:
		tui := sim.NewTUIWriter(cfg)
		return tui, tui, nil
	default:
		return nil, nil, fmt.Errorf("unknown output mode %q", output)
	}
}

// newStateWriter creates a state-only writer for replay.
func newStateWriter(cfg *config.GameConfig, printOnly bool, output string, log *slog.Logger) (sim.StateWriter, func(), error) {
	w, _, cleanup, err := newWriters(cfg, printOnly, output, "", log)
	if err != nil {
		return nil, nil, err
	}
	return w.State, cleanup, nil
}
