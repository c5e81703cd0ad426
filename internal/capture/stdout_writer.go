// Writer implementation printing rows to STDOUT
package capture

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"posdata/internal/telemetry"
)

// JSONStdoutWriter prints captured rows as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs a position row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.PositionRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple position rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.PositionRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteState outputs a session state row in JSON format.
func (w *JSONStdoutWriter) WriteState(row telemetry.SessionStateRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}
