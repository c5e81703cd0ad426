package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"posdata/internal/capture"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a captured CSV file",
	Long:  "replay feeds position rows from a capture file back into GreptimeDB or STDOUT, pacing by the recorded timestamps.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, err := newReplayWriter()
		if err != nil {
			return err
		}
		return capture.ReplayCSVFile(replayInput, writer, replaySpeed)
	},
}

// newReplayWriter selects the replay sink: GreptimeDB when an endpoint is
// configured, STDOUT otherwise or when --print-only is set.
func newReplayWriter() (capture.RowWriter, error) {
	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" && !replayPrintOnly {
		return capture.NewGreptimeDBWriter(endpoint, greptimeDatabase())
	}
	return capture.NewJSONStdoutWriter(), nil
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to captured CSV file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to GreptimeDB")
	replayCmd.MarkFlagRequired("input")
}
