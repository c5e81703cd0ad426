package capture

import (
	"strings"
	"testing"

	"posdata/internal/telemetry"
)

type collectWriter struct{ rows []telemetry.PositionRow }

func (c *collectWriter) Write(r telemetry.PositionRow) error {
	c.rows = append(c.rows, r)
	return nil
}

func TestReplayCSV(t *testing.T) {
	input := strings.Join([]string{
		"filename,rectime,time,origts,live_position_x,live_position_y,live_position_z,live_position_e,live_velocity",
		"benchy.gcode,100,1.5,900.25,10,20,5,33.4,80",
		"benchy.gcode,200,2.5,901.25,11,21,5,34.4,81",
	}, "\n") + "\n"

	cw := &collectWriter{}
	if err := ReplayCSV(strings.NewReader(input), cw, 0); err != nil {
		t.Fatalf("ReplayCSV: %v", err)
	}
	if len(cw.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(cw.rows))
	}
	if cw.rows[0].X != 10 || cw.rows[0].Filename != "benchy.gcode" {
		t.Fatalf("row 0 mismatch: %+v", cw.rows[0])
	}
	if cw.rows[1].RecTime != 200 || cw.rows[1].Y != 21 {
		t.Fatalf("row 1 mismatch: %+v", cw.rows[1])
	}
}

func TestReplayCSVRejectsForeignFile(t *testing.T) {
	input := "a,b,c\n1,2,3\n"
	cw := &collectWriter{}
	if err := ReplayCSV(strings.NewReader(input), cw, 0); err == nil {
		t.Fatal("expected error for non-capture header")
	}
}

func TestReplayCSVEmpty(t *testing.T) {
	cw := &collectWriter{}
	if err := ReplayCSV(strings.NewReader(""), cw, 0); err != nil {
		t.Fatalf("ReplayCSV on empty input: %v", err)
	}
	if len(cw.rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(cw.rows))
	}
}
