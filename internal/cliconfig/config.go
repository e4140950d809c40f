package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/vtcheck/internal/domain"
	"github.com/bft-labs/vtcheck/internal/pacing"
	"github.com/bft-labs/vtcheck/internal/ports"
)

// Defaults for the device link.
const (
	DefaultPort     = "/dev/ttyUSB0"
	DefaultBaud     = 115200
	DefaultLogLevel = "warn"
)

// Config holds CLI configuration for vtcheck.
type Config struct {
	Port string
	Baud int

	LineDelay    time.Duration
	CellDelay    time.Duration
	ClearSettle  time.Duration
	StepPause    time.Duration
	ObservePause time.Duration

	CapturePath string
	LogLevel    string
	WatchConfig bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	p := pacing.DefaultPolicy()
	return Config{
		Port:         DefaultPort,
		Baud:         DefaultBaud,
		LineDelay:    p.LineDelay,
		CellDelay:    p.CellDelay,
		ClearSettle:  p.ClearSettle,
		StepPause:    p.StepPause,
		ObservePause: p.ObservePause,
		LogLevel:     DefaultLogLevel,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port is required", domain.ErrInvalidConfig)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("%w: baud must be positive", domain.ErrInvalidConfig)
	}
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Policy returns the pacing policy described by c.
func (c Config) Policy() pacing.Policy {
	return pacing.Policy{
		LineDelay:    c.LineDelay,
		CellDelay:    c.CellDelay,
		ClearSettle:  c.ClearSettle,
		StepPause:    c.StepPause,
		ObservePause: c.ObservePause,
	}
}

// LineConfig returns the 8N1 raw line discipline for the configured device.
func (c Config) LineConfig() ports.LineConfig {
	return ports.DefaultLineConfig(c.Port, c.Baud)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
// "0s" is a valid value and disables the delay.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
