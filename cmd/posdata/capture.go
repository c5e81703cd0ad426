package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"posdata/internal/admin"
	"posdata/internal/capture"
	"posdata/internal/config"
	"posdata/internal/logging"
	"posdata/internal/moonraker"
)

var (
	captureInterval   time.Duration
	captureAPIKey     string
	captureConfigPath string
	captureSchemaPath string
	captureQuiet      bool
	captureTUI        bool
	captureHTTPAddr   string
	captureLogFile    string
)

func init() {
	rootCmd.Flags().DurationVar(&captureInterval, "interval", time.Second, "Poll interval (e.g. 500ms, 2s)")
	rootCmd.Flags().StringVar(&captureAPIKey, "api-key", "", "Moonraker API key (or MOONRAKER_API_KEY)")
	rootCmd.Flags().StringVar(&captureConfigPath, "config", "", "Path to capture configuration YAML")
	rootCmd.Flags().StringVar(&captureSchemaPath, "schema", "schemas/capture.cue", "Path to CUE schema file")
	rootCmd.Flags().BoolVarP(&captureQuiet, "quiet", "q", false, "Suppress per-row output")
	rootCmd.Flags().BoolVar(&captureTUI, "tui", false, "Render a live capture view")
	rootCmd.Flags().StringVar(&captureHTTPAddr, "http", "", "Status server address (e.g. :8080)")
	rootCmd.Flags().StringVar(&captureLogFile, "log-file", "", "Path to export captured rows as JSONL")
}

func runCapture(cmd *cobra.Command, args []string) error {
	host := args[0]
	port, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", args[1], err)
	}
	output := args[2]

	cfg := config.Default()
	if captureConfigPath != "" {
		cfg, err = config.Load(captureConfigPath, resolveSchemaPath())
		if err != nil {
			return err
		}
	}
	applyFlags(cmd, cfg)

	apiKey := captureAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("MOONRAKER_API_KEY")
	}

	logger := logging.New(cfg.Quiet || captureTUI)
	ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
	defer cancel()

	client := moonraker.NewClient(host, port, apiKey, cfg.HTTPTimeout.Std())

	writer, stateWriter, cleanup, err := newWriters(cfg, output)
	if err != nil {
		return err
	}
	defer cleanup()

	capturer := capture.New(cfg.PrinterID, client, writer, stateWriter,
		cfg.Interval.Std(), cfg.ReadyTimeout.Std())
	logger.Info("capture session", "session_id", capturer.SessionID(), "output", output)

	if addr := statusAddr(cfg); addr != "" {
		srv := admin.NewServer(capturer)
		go func() {
			logger.Info("status server listening", "addr", addr)
			if err := srv.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server failed", "err", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- capturer.Run(ctx)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		cancel()
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil {
		return err
	}
	logger.Info("capture finished", "rows_written", capturer.RowsWritten())
	return nil
}

// resolveSchemaPath returns the --schema path as given when it exists from
// the current directory, otherwise resolved against the source tree root so
// the bundled schema is found regardless of where the binary runs.
func resolveSchemaPath() string {
	if _, err := os.Stat(captureSchemaPath); err == nil || filepath.IsAbs(captureSchemaPath) {
		return captureSchemaPath
	}
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(filepath.Dir(file)))
	return filepath.Join(root, captureSchemaPath)
}

// applyFlags lets explicitly set CLI flags override config file values.
func applyFlags(cmd *cobra.Command, cfg *config.CaptureConfig) {
	if cmd.Flags().Changed("interval") {
		cfg.Interval = config.Duration(captureInterval)
	}
	if cmd.Flags().Changed("quiet") {
		cfg.Quiet = captureQuiet
	}
	if cmd.Flags().Changed("http") {
		cfg.StatusAddr = captureHTTPAddr
	}
}

func statusAddr(cfg *config.CaptureConfig) string {
	if captureHTTPAddr != "" {
		return captureHTTPAddr
	}
	return cfg.StatusAddr
}
