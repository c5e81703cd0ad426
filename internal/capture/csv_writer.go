// CSV sink with header-on-create and flush-per-row semantics
package capture

import (
	"encoding/csv"
	"fmt"
	"os"

	"posdata/internal/telemetry"
)

// CSVWriter appends position rows to a CSV file. The header is written only
// when the file is created or empty, so restarting against an existing file
// appends without duplicating it. Every row is flushed immediately; a killed
// process loses at most the in-flight row.
type CSVWriter struct {
	file *os.File
	csv  *csv.Writer
}

// NewCSVWriter opens path in append mode, creating it if needed. If the
// existing file ends in a partial line from an interrupted write, a newline
// is inserted first so the next row starts a fresh record.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err != nil {
			f.Close()
			return nil, err
		}
		if last[0] != '\n' {
			if _, err := f.Write([]byte("\n")); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	w := &CSVWriter{file: f, csv: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := w.csv.Write(telemetry.CSVHeader()); err != nil {
			f.Close()
			return nil, err
		}
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	return w, nil
}

// Write appends one row and flushes it to the file.
func (w *CSVWriter) Write(row telemetry.PositionRow) error {
	if err := w.csv.Write(row.CSVRecord()); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

// WriteBatch appends multiple rows.
func (w *CSVWriter) WriteBatch(rows []telemetry.PositionRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes pending data and closes the file.
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
