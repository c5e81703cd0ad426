package capture

import (
	"context"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"posdata/internal/telemetry"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterPositionRows(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.PositionRow{
		{
			PrinterID: "p1",
			SessionID: "s1",
			Filename:  "benchy.gcode",
			RecTime:   42,
			PrintTime: 12.5,
			OrigTS:    900.25,
			X:         10,
			Y:         20,
			Z:         5,
			E:         33.4,
			Velocity:  80,
			State:     "printing",
			Timestamp: ts,
		},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, table: "toolhead_position"}

	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	got := m.table.GetRows()
	if len(got.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got.Rows))
	}
	if v := got.Rows[0].Values[0].GetStringValue(); v != "p1" {
		t.Errorf("printer_id = %s, want p1", v)
	}
	if v := got.Rows[0].Values[2].GetStringValue(); v != "benchy.gcode" {
		t.Errorf("filename = %s, want benchy.gcode", v)
	}
}

func TestGreptimeWriterEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, table: "toolhead_position"}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch(nil): %v", err)
	}
	if m.table != nil {
		t.Fatalf("no table should be written for an empty batch")
	}
}
