package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"posdata/internal/capture"
	"posdata/internal/config"
)

// newWriters assembles the sink chain for a capture run: the CSV file is
// always written; stdout echo, TUI, JSONL log, and GreptimeDB are layered on
// top depending on flags and env vars. It returns the writers and a cleanup
// function closing any resources.
func newWriters(cfg *config.CaptureConfig, output string) (capture.RowWriter, capture.StateWriter, func(), error) {
	csvw, err := capture.NewCSVWriter(output)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open output file: %w", err)
	}

	rowWriters := []capture.RowWriter{csvw}
	var stateWriters []capture.StateWriter
	closers := []func(){func() { csvw.Close() }}

	switch {
	case captureTUI:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			csvw.Close()
			return nil, nil, nil, fmt.Errorf("--tui requires a terminal on stdout")
		}
		tw := capture.NewTUIWriter(cfg.PrinterID, output)
		rowWriters = append(rowWriters, tw)
		stateWriters = append(stateWriters, tw)
		closers = append(closers, func() { tw.Close() })
	case !cfg.Quiet:
		sw := capture.NewJSONStdoutWriter()
		rowWriters = append(rowWriters, sw)
		stateWriters = append(stateWriters, sw)
	}

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		gw, err := capture.NewGreptimeDBWriter(endpoint, greptimeDatabase())
		if err != nil {
			csvw.Close()
			return nil, nil, nil, fmt.Errorf("init GreptimeDB writer: %w", err)
		}
		rowWriters = append(rowWriters, gw)
	}

	if captureLogFile != "" {
		fw, err := capture.NewFileWriter(captureLogFile, captureLogFile+".state")
		if err != nil {
			csvw.Close()
			return nil, nil, nil, fmt.Errorf("create log file: %w", err)
		}
		rowWriters = append(rowWriters, fw)
		stateWriters = append(stateWriters, fw)
		closers = append(closers, func() { fw.Close() })
	}

	mw := capture.NewMultiWriter(rowWriters, stateWriters)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return mw, mw, cleanup, nil
}

func greptimeDatabase() string {
	if db := os.Getenv("GREPTIMEDB_DATABASE"); db != "" {
		return db
	}
	return "public"
}
