// Package logger centralizes logger initialization so every package logs
// through the same handler; level and format come from the environment.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Process-wide default logger, reused to keep output consistent.
var defaultLogger *slog.Logger

// Setup initializes the default logger.
// Constraint: output goes to standard error; file handles and log shipping
// are left to the operator.
func Setup() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	defaultLogger = slog.New(h)
	return defaultLogger
}

// L returns the default logger, falling back to Setup when not yet initialized.
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}
