// Package logger builds the zerolog logger shared by the binaries.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05"

// New returns a logger for the given environment and level. Development
// environments get a colourless console writer on stderr, everything else
// JSON lines. Writers, when given, replace the default output.
func New(env, level string, writers ...io.Writer) (zerolog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	var out io.Writer
	switch {
	case len(writers) > 0:
		out = io.MultiWriter(writers...)
	case isDevelopment(env):
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: consoleTimeFormat, NoColor: true}
	default:
		out = os.Stderr
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// UseMillisecondDurations makes Dur fields integer milliseconds. It
// changes zerolog's package globals, so only binaries call it, once, from
// main.
func UseMillisecondDurations() {
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true
}

func isDevelopment(env string) bool {
	env = strings.TrimSpace(env)
	return strings.EqualFold(env, "development") || strings.EqualFold(env, "dev")
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(level)
}
