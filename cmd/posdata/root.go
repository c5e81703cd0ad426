package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "posdata <hostname> <port> <output.csv>",
	Short: "Dump printer toolhead position data from Klipper via the Moonraker API",
	Long: "posdata polls a Moonraker instance for print status and toolhead position\n" +
		"while a job is printing or paused, and appends one CSV row per sample.",
	Args: cobra.ExactArgs(3),
	RunE: runCapture,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
