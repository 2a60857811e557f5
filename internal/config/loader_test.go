package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/torosent/functrace/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	loader := config.NewLoader()

	cfg, err := loader.Load([]string{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Interval != time.Minute {
		t.Errorf("Interval = %s, want 1m", cfg.Interval)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Rate != 20 {
		t.Errorf("Rate = %d, want 20", cfg.Rate)
	}
	if len(cfg.Drivers) != 1 || cfg.Drivers[0] != string(config.DriverStdout) {
		t.Errorf("Drivers = %v, want [stdout]", cfg.Drivers)
	}
	if cfg.NATSSubject != "functrace.reports" {
		t.Errorf("NATSSubject = %q, want functrace.reports", cfg.NATSSubject)
	}
}

func TestLoadFlags(t *testing.T) {
	loader := config.NewLoader()

	cfg, err := loader.Load([]string{
		"--interval", "30s",
		"--driver", "log",
		"--driver", "file",
		"--file-path", "/tmp/reports.jsonl",
		"--workers", "8",
		"--rate", "0",
		"--percentiles",
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Interval != 30*time.Second {
		t.Errorf("Interval = %s, want 30s", cfg.Interval)
	}
	if len(cfg.Drivers) != 2 {
		t.Errorf("Drivers = %v, want [log file]", cfg.Drivers)
	}
	if cfg.FilePath != "/tmp/reports.jsonl" {
		t.Errorf("FilePath = %q", cfg.FilePath)
	}
	if cfg.Workers != 8 || cfg.Rate != 0 {
		t.Errorf("Workers/Rate = %d/%d, want 8/0", cfg.Workers, cfg.Rate)
	}
	if !cfg.Percentiles {
		t.Error("Percentiles = false, want true")
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(`
interval: 15s
drivers:
  - log
  - nats
nats_url: nats://localhost:4222
workers: 2
rate: 50
verbose: true
`), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := config.NewLoader()
	cfg, err := loader.Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Interval != 15*time.Second {
		t.Errorf("Interval = %s, want 15s", cfg.Interval)
	}
	if len(cfg.Drivers) != 2 || cfg.Drivers[0] != "log" || cfg.Drivers[1] != "nats" {
		t.Errorf("Drivers = %v, want [log nats]", cfg.Drivers)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
	if cfg.Workers != 2 || cfg.Rate != 50 {
		t.Errorf("Workers/Rate = %d/%d, want 2/50", cfg.Workers, cfg.Rate)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("interval: 15s\nworkers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := config.NewLoader()
	cfg, err := loader.Load([]string{"--config", path, "--interval", "45s"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Interval != 45*time.Second {
		t.Errorf("Interval = %s, want flag override 45s", cfg.Interval)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want file value 2", cfg.Workers)
	}
}

func TestLoadHelp(t *testing.T) {
	loader := config.NewLoader()
	if _, err := loader.Load([]string{"--help"}); !errors.Is(err, config.ErrHelpRequested) {
		t.Errorf("Load(--help) error = %v, want ErrHelpRequested", err)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	loader := config.NewLoader()
	if _, err := loader.Load([]string{"--config", "/does/not/exist.yaml"}); err == nil {
		t.Error("Load() = nil error for missing config file, want error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Interval: time.Minute,
			Workers:  4,
			Rate:     20,
			Drivers:  []string{"stdout"},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"valid", func(*config.Config) {}, false},
		{"zero interval", func(c *config.Config) { c.Interval = 0 }, true},
		{"zero workers", func(c *config.Config) { c.Workers = 0 }, true},
		{"negative rate", func(c *config.Config) { c.Rate = -1 }, true},
		{"unknown driver", func(c *config.Config) { c.Drivers = []string{"carrier-pigeon"} }, true},
		{"nats without url", func(c *config.Config) { c.Drivers = []string{"nats"} }, true},
		{"nats with url", func(c *config.Config) {
			c.Drivers = []string{"nats"}
			c.NATSURL = "nats://localhost:4222"
		}, false},
		{"websocket without url", func(c *config.Config) { c.Drivers = []string{"websocket"} }, true},
		{"pushgateway without url", func(c *config.Config) { c.Drivers = []string{"pushgateway"} }, true},
		{"file without path", func(c *config.Config) { c.Drivers = []string{"file"} }, true},
		{"file with path", func(c *config.Config) {
			c.Drivers = []string{"file"}
			c.FilePath = "out.jsonl"
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}
