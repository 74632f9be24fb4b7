package sim

import (
	"encoding/json"
	"os"

	"submarine-sim/internal/telemetry"
)

// FileWriter writes state, event and score rows to JSONL files.
type FileWriter struct {
	stateFile *os.File
	eventFile *os.File
	scoreFile *os.File
	stateEnc  *json.Encoder
	eventEnc  *json.Encoder
	scoreEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. eventPath or scorePath may be empty to skip those logs.
func NewFileWriter(statePath, eventPath, scorePath string) (*FileWriter, error) {
	sf, err := os.Create(statePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{stateFile: sf, stateEnc: json.NewEncoder(sf)}
	if eventPath != "" {
		ef, err := os.Create(eventPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.eventFile = ef
		fw.eventEnc = json.NewEncoder(ef)
	}
	if scorePath != "" {
		scf, err := os.Create(scorePath)
		if err != nil {
			if fw.eventFile != nil {
				fw.eventFile.Close()
			}
			sf.Close()
			return nil, err
		}
		fw.scoreFile = scf
		fw.scoreEnc = json.NewEncoder(scf)
	}
	return fw, nil
}

// WriteState logs a single state row.
func (f *FileWriter) WriteState(row telemetry.StateRow) error {
	return f.stateEnc.Encode(row)
}

// WriteStates logs multiple state rows.
func (f *FileWriter) WriteStates(rows []telemetry.StateRow) error {
	for _, r := range rows {
		if err := f.WriteState(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent logs a single event row, if enabled.
func (f *FileWriter) WriteEvent(e telemetry.EventRow) error {
	if f.eventEnc == nil {
		return nil
	}
	return f.eventEnc.Encode(e)
}

// WriteEvents logs multiple event rows.
func (f *FileWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, r := range rows {
		if err := f.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteScore logs a final score row, if enabled.
func (f *FileWriter) WriteScore(row telemetry.ScoreRow) error {
	if f.scoreEnc == nil {
		return nil
	}
	return f.scoreEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	for _, file := range []*os.File{f.stateFile, f.eventFile, f.scoreFile} {
		if file == nil {
			continue
		}
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
