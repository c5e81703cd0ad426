package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"posdata/internal/capture"
	"posdata/internal/config"
	"posdata/internal/telemetry"
)

func testRow() telemetry.PositionRow {
	return telemetry.PositionRow{
		Filename:  "benchy.gcode",
		RecTime:   time.Unix(100, 0).UnixNano(),
		PrintTime: 1.5,
		OrigTS:    900.25,
		X:         10, Y: 20, Z: 5, E: 33.4,
		Velocity:  80,
		Timestamp: time.Unix(100, 0).UTC(),
	}
}

func TestNewWritersDefault(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	captureTUI = false
	captureLogFile = ""

	out := filepath.Join(t.TempDir(), "out.csv")
	cfg := config.Default()
	cfg.Quiet = true
	w, sw, cleanup, err := newWriters(cfg, out)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := w.(*capture.MultiWriter); !ok {
		t.Fatalf("expected *capture.MultiWriter, got %T", w)
	}
	if sw == nil {
		t.Fatalf("expected state writer")
	}
	if err := w.Write(testRow()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cleanup()

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
}

func TestNewWritersLogFile(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	captureTUI = false
	dir := t.TempDir()
	captureLogFile = filepath.Join(dir, "rows.jsonl")
	defer func() { captureLogFile = "" }()

	cfg := config.Default()
	cfg.Quiet = true
	w, _, cleanup, err := newWriters(cfg, filepath.Join(dir, "out.csv"))
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if err := w.Write(testRow()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cleanup()

	if _, err := os.Stat(captureLogFile); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if _, err := os.Stat(captureLogFile + ".state"); err != nil {
		t.Fatalf("state log not created: %v", err)
	}
}
