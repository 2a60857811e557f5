package config

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional config file into a
// Config. Flags override file settings.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Interval:    time.Minute,
		NATSSubject: "functrace.reports",
		PushJob:     "functrace",
		Workers:     4,
		Rate:        20,
		ConfigFile:  configPath,
	}

	if err := applyConfigSettings(cfg, cfgViper.AllSettings()); err != nil {
		return nil, err
	}
	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	if len(cfg.Drivers) == 0 {
		cfg.Drivers = []string{string(DriverStdout)}
	}
	return cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	durations := []struct {
		keys []string
		dst  *time.Duration
	}{
		{[]string{"interval"}, &cfg.Interval},
		{[]string{"duration"}, &cfg.Duration},
	}
	for _, field := range durations {
		if raw, ok := lookupSetting(settings, field.keys...); ok {
			dur, err := asDuration(raw)
			if err != nil {
				return settingError(field.keys[0], err)
			}
			*field.dst = dur
		}
	}

	strs := []struct {
		keys []string
		dst  *string
	}{
		{[]string{"nats_url", "nats-url", "natsurl"}, &cfg.NATSURL},
		{[]string{"nats_subject", "nats-subject"}, &cfg.NATSSubject},
		{[]string{"ws_url", "ws-url", "wsurl"}, &cfg.WSURL},
		{[]string{"push_url", "push-url"}, &cfg.PushURL},
		{[]string{"push_job", "push-job"}, &cfg.PushJob},
		{[]string{"file_path", "file-path"}, &cfg.FilePath},
	}
	for _, field := range strs {
		if raw, ok := lookupSetting(settings, field.keys...); ok {
			val, err := asString(raw)
			if err != nil {
				return settingError(field.keys[0], err)
			}
			if val != "" {
				*field.dst = val
			}
		}
	}

	ints := []struct {
		keys []string
		dst  *int
	}{
		{[]string{"workers"}, &cfg.Workers},
		{[]string{"rate"}, &cfg.Rate},
	}
	for _, field := range ints {
		if raw, ok := lookupSetting(settings, field.keys...); ok {
			val, err := asInt(raw)
			if err != nil {
				return settingError(field.keys[0], err)
			}
			*field.dst = val
		}
	}

	bools := []struct {
		keys []string
		dst  *bool
	}{
		{[]string{"percentiles"}, &cfg.Percentiles},
		{[]string{"verbose"}, &cfg.Verbose},
	}
	for _, field := range bools {
		if raw, ok := lookupSetting(settings, field.keys...); ok {
			val, err := asBool(raw)
			if err != nil {
				return settingError(field.keys[0], err)
			}
			*field.dst = val
		}
	}

	if raw, ok := lookupSetting(settings, "drivers", "driver"); ok {
		vals, err := asStringSlice(raw)
		if err != nil {
			return settingError("drivers", err)
		}
		if len(vals) > 0 {
			cfg.Drivers = vals
		}
	}

	return nil
}

// applyFlagOverrides applies explicitly set CLI flags on top of the file
// settings.
func applyFlagOverrides(cfg *Config, flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "interval":
			cfg.Interval, err = flags.GetDuration(f.Name)
		case "duration":
			cfg.Duration, err = flags.GetDuration(f.Name)
		case "driver":
			cfg.Drivers, err = flags.GetStringSlice(f.Name)
		case "percentiles":
			cfg.Percentiles, err = flags.GetBool(f.Name)
		case "verbose":
			cfg.Verbose, err = flags.GetBool(f.Name)
		case "nats-url":
			cfg.NATSURL, err = flags.GetString(f.Name)
		case "nats-subject":
			cfg.NATSSubject, err = flags.GetString(f.Name)
		case "ws-url":
			cfg.WSURL, err = flags.GetString(f.Name)
		case "push-url":
			cfg.PushURL, err = flags.GetString(f.Name)
		case "push-job":
			cfg.PushJob, err = flags.GetString(f.Name)
		case "file-path":
			cfg.FilePath, err = flags.GetString(f.Name)
		case "workers":
			cfg.Workers, err = flags.GetInt(f.Name)
		case "rate":
			cfg.Rate, err = flags.GetInt(f.Name)
		}
	})
	return err
}
