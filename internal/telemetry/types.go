// Telemetry row types shared by all sinks
package telemetry

import (
	"os"
	"strconv"
	"time"
)

// PositionRow represents one captured toolhead position sample.
type PositionRow struct {
	PrinterID string    `json:"printer_id"` // TAG
	SessionID string    `json:"session_id"` // TAG
	Filename  string    `json:"filename"`   // FIELD
	RecTime   int64     `json:"rectime"`    // FIELD, local unix ns
	PrintTime float64   `json:"time"`       // FIELD, seconds since print start
	OrigTS    float64   `json:"origts"`     // FIELD, controller eventtime
	X         float64   `json:"live_position_x"`
	Y         float64   `json:"live_position_y"`
	Z         float64   `json:"live_position_z"`
	E         float64   `json:"live_position_e"`
	Velocity  float64   `json:"live_velocity"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"ts"` // TIME INDEX
}

// PositionTableName holds the table name used when writing to GreptimeDB.
// It defaults to "toolhead_position" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var PositionTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "toolhead_position"
}()

func (PositionRow) TableName() string {
	return PositionTableName
}

// CSVHeader lists the CSV columns in output order.
func CSVHeader() []string {
	return []string{
		"filename",
		"rectime",
		"time",
		"origts",
		"live_position_x",
		"live_position_y",
		"live_position_z",
		"live_position_e",
		"live_velocity",
	}
}

// CSVRecord renders the row as one CSV record matching CSVHeader.
func (r PositionRow) CSVRecord() []string {
	return []string{
		r.Filename,
		strconv.FormatInt(r.RecTime, 10),
		formatFloat(r.PrintTime),
		formatFloat(r.OrigTS),
		formatFloat(r.X),
		formatFloat(r.Y),
		formatFloat(r.Z),
		formatFloat(r.E),
		formatFloat(r.Velocity),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// SessionStateRow captures periodic counters for one capture session.
type SessionStateRow struct {
	PrinterID   string    `json:"printer_id"`
	SessionID   string    `json:"session_id"`
	JobState    string    `json:"job_state"`
	RowsWritten int       `json:"rows_written"`
	Skipped     int       `json:"skipped"`
	Timestamp   time.Time `json:"ts"`
}
