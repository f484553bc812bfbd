package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func newLogger(ro *globalOptions, stderr io.Writer) (*slog.Logger, func(), error) {
	level, err := parseLogLevel(ro.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if ro.Verbose {
		level = slog.LevelDebug
	}

	w, closeFn := stderr, func() {}
	if path := strings.TrimSpace(ro.LogFile); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, closeFn = f, func() { _ = f.Close() }
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(ro.LogFormat)) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		closeFn()
		return nil, nil, fmt.Errorf("unknown log format: %s", ro.LogFormat)
	}
	return slog.New(handler), closeFn, nil
}

func parseLogLevel(v string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level: %s", v)
	}
}
