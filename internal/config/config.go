// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "500ms" or "2s" decode.
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// CaptureConfig holds optional capture settings. CLI flags override any
// value set here.
type CaptureConfig struct {
	PrinterID    string   `yaml:"printer_id"`
	Interval     Duration `yaml:"interval"`
	APIKey       string   `yaml:"api_key"`
	HTTPTimeout  Duration `yaml:"http_timeout"`
	ReadyTimeout Duration `yaml:"ready_timeout"`
	StatusAddr   string   `yaml:"status_addr"`
	Quiet        bool     `yaml:"quiet"`
}

// Default returns the built-in capture configuration.
func Default() *CaptureConfig {
	return &CaptureConfig{
		PrinterID:    "printer-01",
		Interval:     Duration(time.Second),
		HTTPTimeout:  Duration(5 * time.Second),
		ReadyTimeout: Duration(10 * time.Second),
	}
}

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*CaptureConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Interval <= 0 {
		cfg.Interval = Duration(time.Second)
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = Duration(5 * time.Second)
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = Duration(10 * time.Second)
	}
	return cfg, nil
}
