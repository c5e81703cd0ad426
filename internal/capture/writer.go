package capture

import "posdata/internal/telemetry"

// RowWriter is an interface to support different output sinks.
type RowWriter interface {
	Write(telemetry.PositionRow) error
}

// Optional: writers can also support batch mode.
type batchRowWriter interface {
	WriteBatch([]telemetry.PositionRow) error
}

// StateWriter handles session state rows.
type StateWriter interface {
	WriteState(telemetry.SessionStateRow) error
}
