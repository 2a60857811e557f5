package config

import (
	"fmt"
	"strings"
	"time"
)

// DriverName selects one of the built-in report sinks.
type DriverName string

const (
	DriverStdout      DriverName = "stdout"
	DriverLog         DriverName = "log"
	DriverNATS        DriverName = "nats"
	DriverWebSocket   DriverName = "websocket"
	DriverPushGateway DriverName = "pushgateway"
	DriverFile        DriverName = "file"
)

// Config describes one demo run: how the simulated workload is shaped and
// where the trace reports go.
type Config struct {
	Interval    time.Duration `mapstructure:"interval"`
	Drivers     []string      `mapstructure:"drivers"`
	Percentiles bool          `mapstructure:"percentiles"`

	NATSURL     string `mapstructure:"nats_url"`
	NATSSubject string `mapstructure:"nats_subject"`
	WSURL       string `mapstructure:"ws_url"`
	PushURL     string `mapstructure:"push_url"`
	PushJob     string `mapstructure:"push_job"`
	FilePath    string `mapstructure:"file_path"`

	Workers  int           `mapstructure:"workers"`
	Rate     int           `mapstructure:"rate"`
	Duration time.Duration `mapstructure:"duration"`
	Verbose  bool          `mapstructure:"verbose"`

	ConfigFile string `mapstructure:"-"`
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %d", c.Rate)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Duration)
	}

	for _, name := range c.Drivers {
		switch DriverName(strings.ToLower(name)) {
		case DriverStdout, DriverLog, DriverPushGateway, DriverFile:
		case DriverNATS:
			if c.NATSURL == "" {
				return fmt.Errorf("driver %q requires --nats-url", name)
			}
		case DriverWebSocket:
			if c.WSURL == "" {
				return fmt.Errorf("driver %q requires --ws-url", name)
			}
		default:
			return fmt.Errorf("unknown driver %q", name)
		}
	}

	if contains(c.Drivers, DriverPushGateway) && c.PushURL == "" {
		return fmt.Errorf("driver %q requires --push-url", DriverPushGateway)
	}
	if contains(c.Drivers, DriverFile) && c.FilePath == "" {
		return fmt.Errorf("driver %q requires --file-path", DriverFile)
	}
	return nil
}

func contains(names []string, want DriverName) bool {
	for _, name := range names {
		if DriverName(strings.ToLower(name)) == want {
			return true
		}
	}
	return false
}
