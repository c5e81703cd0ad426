package capture

import (
	"context"
	"log"
	"net"
	"strconv"

	"posdata/internal/telemetry"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes position rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client greptimeClient
	table  string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer. The endpoint is
// "host:port" of the gRPC ingest interface.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		host = endpoint
		portStr = "4001"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 4001
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client: client,
		table:  telemetry.PositionTableName,
	}, nil
}

// Write inserts a single position row.
func (w *GreptimeDBWriter) Write(row telemetry.PositionRow) error {
	return w.WriteBatch([]telemetry.PositionRow{row})
}

// WriteBatch inserts multiple position rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.PositionRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := context.Background()

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("printer_id", types.STRING)
	tbl.AddTagColumn("session_id", types.STRING)
	tbl.AddFieldColumn("filename", types.STRING)
	tbl.AddFieldColumn("rectime", types.INT64)
	tbl.AddFieldColumn("time", types.FLOAT64)
	tbl.AddFieldColumn("origts", types.FLOAT64)
	tbl.AddFieldColumn("live_position_x", types.FLOAT64)
	tbl.AddFieldColumn("live_position_y", types.FLOAT64)
	tbl.AddFieldColumn("live_position_z", types.FLOAT64)
	tbl.AddFieldColumn("live_position_e", types.FLOAT64)
	tbl.AddFieldColumn("live_velocity", types.FLOAT64)
	tbl.AddFieldColumn("state", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MICROSECOND)

	for _, r := range rows {
		if err := tbl.AddRow(
			r.PrinterID, r.SessionID,
			r.Filename, r.RecTime, r.PrintTime, r.OrigTS,
			r.X, r.Y, r.Z, r.E, r.Velocity, r.State,
			r.Timestamp,
		); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(ctx, tbl); err != nil {
		log.Printf("[GreptimeDBWriter] Write failed: %v", err)
		return err
	}
	return nil
}
