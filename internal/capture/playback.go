package capture

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"posdata/internal/telemetry"
)

// ReplayCSV replays captured rows from r to writer, pacing by the recorded
// rectime deltas. A speed >1 accelerates playback; speed <= 0 disables the
// artificial delay.
func ReplayCSV(r io.Reader, writer RowWriter, speed float64) error {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if len(header) == 0 || header[0] != "filename" {
		return fmt.Errorf("replay: %q does not look like a capture header", header)
	}

	var prev int64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		row, err := parseRecord(record)
		if err != nil {
			return err
		}
		if prev != 0 && speed > 0 {
			diff := time.Duration(row.RecTime - prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		prev = row.RecTime
	}
}

// ReplayCSVFile opens a capture file and replays its rows.
func ReplayCSVFile(path string, writer RowWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayCSV(f, writer, speed)
}

func parseRecord(record []string) (telemetry.PositionRow, error) {
	if len(record) < 9 {
		return telemetry.PositionRow{}, fmt.Errorf("replay: short record, %d fields", len(record))
	}
	rectime, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return telemetry.PositionRow{}, fmt.Errorf("replay: rectime: %w", err)
	}
	floats := make([]float64, 7)
	for i, idx := range []int{2, 3, 4, 5, 6, 7, 8} {
		v, err := strconv.ParseFloat(record[idx], 64)
		if err != nil {
			return telemetry.PositionRow{}, fmt.Errorf("replay: field %d: %w", idx, err)
		}
		floats[i] = v
	}
	return telemetry.PositionRow{
		Filename:  record[0],
		RecTime:   rectime,
		PrintTime: floats[0],
		OrigTS:    floats[1],
		X:         floats[2],
		Y:         floats[3],
		Z:         floats[4],
		E:         floats[5],
		Velocity:  floats[6],
		Timestamp: time.Unix(0, rectime).UTC(),
	}, nil
}
