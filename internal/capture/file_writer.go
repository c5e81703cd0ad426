package capture

import (
	"encoding/json"
	"os"

	"posdata/internal/telemetry"
)

// FileWriter mirrors captured rows and session state to JSONL files.
type FileWriter struct {
	rowFile   *os.File
	stateFile *os.File
	rowEnc    *json.Encoder
	stateEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. statePath may be empty to skip the state log.
func NewFileWriter(rowPath, statePath string) (*FileWriter, error) {
	rf, err := os.Create(rowPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{rowFile: rf, rowEnc: json.NewEncoder(rf)}
	if statePath != "" {
		sf, err := os.Create(statePath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		fw.stateFile = sf
		fw.stateEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// Write logs a single position row.
func (f *FileWriter) Write(row telemetry.PositionRow) error {
	return f.rowEnc.Encode(row)
}

// WriteBatch logs multiple position rows.
func (f *FileWriter) WriteBatch(rows []telemetry.PositionRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteState logs a session state row, if enabled.
func (f *FileWriter) WriteState(row telemetry.SessionStateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	return f.stateEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.rowFile != nil {
		if e := f.rowFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.stateFile != nil {
		if e := f.stateFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
