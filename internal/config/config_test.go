package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSchema = `
printer_id?: string
interval?:   string
api_key?:    string
http_timeout?:  string
ready_timeout?: string
status_addr?:   string
quiet?:      bool
`

func writeFiles(t *testing.T, yamlBody string) (cfgPath, cuePath string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "capture.yaml")
	cuePath = filepath.Join(dir, "capture.cue")
	if err := os.WriteFile(cfgPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(cuePath, []byte(testSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return cfgPath, cuePath
}

func TestLoadConfig_Valid(t *testing.T) {
	cfgPath, cuePath := writeFiles(t, `
printer_id: voron-24
interval: 500ms
api_key: abc123
quiet: true
`)
	cfg, err := Load(cfgPath, cuePath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.PrinterID != "voron-24" {
		t.Errorf("printer_id = %q, want voron-24", cfg.PrinterID)
	}
	if cfg.Interval.Std() != 500*time.Millisecond {
		t.Errorf("interval = %v, want 500ms", cfg.Interval.Std())
	}
	if !cfg.Quiet {
		t.Errorf("quiet not set")
	}
	// Defaults survive for unset fields.
	if cfg.HTTPTimeout.Std() != 5*time.Second {
		t.Errorf("http_timeout = %v, want default 5s", cfg.HTTPTimeout.Std())
	}
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	cfgPath, cuePath := writeFiles(t, `
printer_id: 42
`)
	if _, err := Load(cfgPath, cuePath); err == nil {
		t.Fatal("expected schema validation error, got nil")
	}
}

func TestLoadConfig_BadDuration(t *testing.T) {
	cfgPath, cuePath := writeFiles(t, `
interval: soon
`)
	if _, err := Load(cfgPath, cuePath); err == nil {
		t.Fatal("expected duration parse error, got nil")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Interval.Std() != time.Second {
		t.Errorf("default interval = %v, want 1s", cfg.Interval.Std())
	}
	if cfg.ReadyTimeout.Std() != 10*time.Second {
		t.Errorf("default ready_timeout = %v, want 10s", cfg.ReadyTimeout.Std())
	}
}
