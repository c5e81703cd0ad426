package capture

import "posdata/internal/telemetry"

// MultiWriter fans captured rows and state rows out to multiple writers.
type MultiWriter struct {
	rowWriters   []RowWriter
	stateWriters []StateWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(rws []RowWriter, sws []StateWriter) *MultiWriter {
	return &MultiWriter{rowWriters: rws, stateWriters: sws}
}

// Write sends a position row to all writers.
func (mw *MultiWriter) Write(row telemetry.PositionRow) error {
	for _, w := range mw.rowWriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple rows to all writers, using batch mode if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.PositionRow) error {
	for _, w := range mw.rowWriters {
		if bw, ok := w.(batchRowWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteState sends a session state row to all state writers.
func (mw *MultiWriter) WriteState(row telemetry.SessionStateRow) error {
	for _, w := range mw.stateWriters {
		if err := w.WriteState(row); err != nil {
			return err
		}
	}
	return nil
}
