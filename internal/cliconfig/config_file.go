package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Port         string `toml:"port"`
	Baud         int    `toml:"baud"`
	LineDelay    string `toml:"line_delay"`
	CellDelay    string `toml:"cell_delay"`
	ClearSettle  string `toml:"clear_settle"`
	StepPause    string `toml:"step_pause"`
	ObservePause string `toml:"observe_pause"`
	Capture      string `toml:"capture"`
	LogLevel     string `toml:"log_level"`
	WatchConfig  *bool  `toml:"watch_config"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.vtcheck/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".vtcheck", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", fc.Port, &cfg.Port)
	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setString("capture", fc.Capture, &cfg.CapturePath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := applyDelays(s, cfg, delayValues{
		line:    fc.LineDelay,
		cell:    fc.CellDelay,
		settle:  fc.ClearSettle,
		step:    fc.StepPause,
		observe: fc.ObservePause,
	}); err != nil {
		return err
	}

	s.setBool("watch-config", fc.WatchConfig, &cfg.WatchConfig)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// delayValues carries unparsed pacing durations from a file or the environment.
type delayValues struct {
	line, cell, settle, step, observe string
}

func applyDelays(s *configSetter, cfg *Config, v delayValues) error {
	if err := s.setDuration("line-delay", v.line, &cfg.LineDelay); err != nil {
		return err
	}
	if err := s.setDuration("cell-delay", v.cell, &cfg.CellDelay); err != nil {
		return err
	}
	if err := s.setDuration("clear-settle", v.settle, &cfg.ClearSettle); err != nil {
		return err
	}
	if err := s.setDuration("step-pause", v.step, &cfg.StepPause); err != nil {
		return err
	}
	return s.setDuration("observe-pause", v.observe, &cfg.ObservePause)
}
