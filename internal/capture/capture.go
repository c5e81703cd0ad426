// Capturer orchestrating poll cycles against the printer API
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"posdata/internal/logging"
	"posdata/internal/moonraker"
	"posdata/internal/telemetry"

	"github.com/google/uuid"
)

// StatusSource abstracts the Moonraker client for testing.
type StatusSource interface {
	QuerySnapshot(ctx context.Context) (moonraker.Snapshot, error)
	WaitKlippyReady(ctx context.Context) error
}

// Capturer polls the printer at a fixed interval and fans captured rows out
// to the configured writers.
type Capturer struct {
	printerID   string
	sessionID   string
	source      StatusSource
	writer      RowWriter
	stateWriter StateWriter

	interval     time.Duration
	readyTimeout time.Duration

	mu          sync.Mutex
	jobState    string
	latest      telemetry.PositionRow
	hasLatest   bool
	rowsWritten int
	skipped     int

	now func() time.Time
}

// New creates a capturer with a fresh session ID.
func New(printerID string, source StatusSource, writer RowWriter, stateWriter StateWriter, interval, readyTimeout time.Duration) *Capturer {
	if interval <= 0 {
		interval = time.Second
	}
	if readyTimeout <= 0 {
		readyTimeout = 10 * time.Second
	}
	return &Capturer{
		printerID:    printerID,
		sessionID:    uuid.New().String(),
		source:       source,
		writer:       writer,
		stateWriter:  stateWriter,
		interval:     interval,
		readyTimeout: readyTimeout,
		now:          time.Now,
	}
}

// SessionID returns the unique ID of this capture run.
func (c *Capturer) SessionID() string {
	return c.sessionID
}

// Run polls until ctx is done or a fatal error occurs. It first waits for
// klippy to report ready; a printer that never comes up is a connection
// failure, not something to retry forever.
func (c *Capturer) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	readyCtx, cancel := context.WithTimeout(ctx, c.readyTimeout)
	err := c.source.WaitKlippyReady(readyCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("printer not ready: %w", err)
	}
	log.Info("klippy ready", "session_id", c.sessionID)

	if snap, err := c.source.QuerySnapshot(ctx); err == nil {
		if snap.Toolhead.HomedAxes != "xyz" {
			log.Warn("printer does not appear to be homed, position data may be incorrect",
				"homed_axes", snap.Toolhead.HomedAxes)
		}
	}

	log.Info("starting capture", "interval", c.interval)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.tick(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		case <-ctx.Done():
			log.Info("stopping capture", "rows_written", c.RowsWritten())
			return nil
		}
	}
}

// tick performs one poll cycle: query, filter on job state, write.
// A malformed sample is skipped; query transport errors and write errors are
// fatal and abort the run.
func (c *Capturer) tick(ctx context.Context) error {
	log := logging.FromContext(ctx)

	snap, err := c.source.QuerySnapshot(ctx)
	if err != nil {
		if errors.Is(err, moonraker.ErrIncompleteStatus) {
			log.Warn("skipping sample", "err", err)
			c.recordSkip("")
			return nil
		}
		return fmt.Errorf("status query failed: %w", err)
	}

	state := snap.PrintStats.State
	c.setJobState(ctx, state)
	if !moonraker.IsCapturing(state) {
		return nil
	}

	row, err := newRow(c.printerID, c.sessionID, snap, c.now())
	if err != nil {
		log.Warn("skipping sample", "err", err)
		c.recordSkip(state)
		return nil
	}

	if err := c.writer.Write(row); err != nil {
		return fmt.Errorf("row write failed: %w", err)
	}
	c.recordRow(row)
	return nil
}

func (c *Capturer) setJobState(ctx context.Context, state string) {
	c.mu.Lock()
	changed := state != c.jobState
	c.jobState = state
	c.mu.Unlock()
	if changed {
		logging.FromContext(ctx).Info("print state changed", "state", state)
		c.writeState()
	}
}

func (c *Capturer) recordRow(row telemetry.PositionRow) {
	c.mu.Lock()
	c.latest = row
	c.hasLatest = true
	c.rowsWritten++
	c.mu.Unlock()
}

func (c *Capturer) recordSkip(state string) {
	c.mu.Lock()
	c.skipped++
	if state != "" {
		c.jobState = state
	}
	c.mu.Unlock()
}

func (c *Capturer) writeState() {
	if c.stateWriter == nil {
		return
	}
	_ = c.stateWriter.WriteState(c.StateSnapshot())
}

// JobState returns the last observed print job state.
func (c *Capturer) JobState() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobState
}

// RowsWritten returns the number of rows captured so far.
func (c *Capturer) RowsWritten() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rowsWritten
}

// LatestRow returns the most recent captured row, if any.
func (c *Capturer) LatestRow() (telemetry.PositionRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.hasLatest
}

// StateSnapshot summarizes the session for the state log and status server.
func (c *Capturer) StateSnapshot() telemetry.SessionStateRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return telemetry.SessionStateRow{
		PrinterID:   c.printerID,
		SessionID:   c.sessionID,
		JobState:    c.jobState,
		RowsWritten: c.rowsWritten,
		Skipped:     c.skipped,
		Timestamp:   c.now().UTC(),
	}
}
