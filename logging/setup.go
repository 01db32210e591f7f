package logging

import (
	"io"
	"log/slog"
)

type LogLevel string

const (
	LogLevelNone  LogLevel = "none"
	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
)

var logger *slog.Logger

// Setup installs the process-wide logger. Until it is called, or when level is
// none, nothing is written.
func Setup(optslevel LogLevel, sink io.Writer) {
	if optslevel == LogLevelNone || sink == nil {
		sink = io.Discard
	}

	level := slog.LevelDebug
	if optslevel == LogLevelInfo {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(sink, &slog.HandlerOptions{
		Level: level,
	})
	logger = slog.New(handler)
}
