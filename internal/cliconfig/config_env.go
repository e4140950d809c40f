package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (VTCHECK_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", os.Getenv("VTCHECK_PORT"), &cfg.Port)
	s.setString("capture", os.Getenv("VTCHECK_CAPTURE"), &cfg.CapturePath)
	s.setString("log-level", os.Getenv("VTCHECK_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("baud", os.Getenv("VTCHECK_BAUD"), &cfg.Baud); err != nil {
		return err
	}

	if err := applyDelays(s, cfg, delayValues{
		line:    os.Getenv("VTCHECK_LINE_DELAY"),
		cell:    os.Getenv("VTCHECK_CELL_DELAY"),
		settle:  os.Getenv("VTCHECK_CLEAR_SETTLE"),
		step:    os.Getenv("VTCHECK_STEP_PAUSE"),
		observe: os.Getenv("VTCHECK_OBSERVE_PAUSE"),
	}); err != nil {
		return err
	}

	s.setBoolFromString("watch-config", os.Getenv("VTCHECK_WATCH_CONFIG"), &cfg.WatchConfig)

	return nil
}
