package server

import (
	"log"
	"strings"

	"github.com/rs/zerolog"
)

// zerologWriter forwards net/http's internal error log to zerolog.
type zerologWriter struct {
	logger zerolog.Logger
}

func (w zerologWriter) Write(p []byte) (int, error) {
	w.logger.Warn().Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}

func stdLogger(logger zerolog.Logger) *log.Logger {
	return log.New(zerologWriter{logger: logger}, "", 0)
}
