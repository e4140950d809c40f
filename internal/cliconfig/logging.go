package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger on stderr at the given level, keeping
// stdout free for the operator menu.
func NewLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
