package capture

import (
	"fmt"
	"time"

	"posdata/internal/moonraker"
	"posdata/internal/telemetry"
)

// newRow builds a position row from one controller snapshot. It fails when
// the motion report carries no usable live position; the caller skips the
// sample and keeps polling.
func newRow(printerID, sessionID string, snap moonraker.Snapshot, now time.Time) (telemetry.PositionRow, error) {
	pos := snap.MotionReport.LivePosition
	if len(pos) < 4 {
		return telemetry.PositionRow{}, fmt.Errorf("%w: live_position has %d axes", moonraker.ErrIncompleteStatus, len(pos))
	}
	filename := snap.PrintStats.Filename
	if filename == "" {
		filename = "unknown"
	}
	return telemetry.PositionRow{
		PrinterID: printerID,
		SessionID: sessionID,
		Filename:  filename,
		RecTime:   now.UnixNano(),
		PrintTime: snap.PrintStats.TotalDuration,
		OrigTS:    snap.Eventtime,
		X:         pos[0],
		Y:         pos[1],
		Z:         pos[2],
		E:         pos[3],
		Velocity:  snap.MotionReport.LiveVelocity,
		State:     snap.PrintStats.State,
		Timestamp: now.UTC(),
	}, nil
}
