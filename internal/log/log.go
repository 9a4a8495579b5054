// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

// Package log provides structured logging for the archiver and indexer
// commands. It wraps the standard library's slog package behind a small
// package-level API so every package can log without threading a logger
// value through constructors.
package log

import (
	"io"
	"log/slog"
	"os"
)

var (
	defaultLogger *slog.Logger
	logLevel      slog.Level = slog.LevelWarn
)

// Init initializes the package logger with the given level ("debug",
// "info", "warn", "error") and format ("json" or anything else for text).
// If output is nil, os.Stderr is used. Unset or unrecognized level defaults
// to warn, matching the CLI's documented default verbosity.
func Init(level string, format string, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
}

// Logger returns the package logger, initializing it with defaults (warn
// level, text format, stderr) if Init has not been called yet.
func Logger() *slog.Logger {
	if defaultLogger == nil {
		Init("warn", "text", nil)
	}
	return defaultLogger
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// With returns a logger carrying the given key-value pairs on every
// subsequent message, for attaching context such as a run ID or path.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}
