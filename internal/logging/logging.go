// Package logging builds the process logger from flags and configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joeycumines/codepad/internal/config"
)

// Options are the command-line overrides. Empty fields defer to config.
type Options struct {
	File  string
	Level string
}

// Logger is a configured logger plus the resources backing it.
type Logger struct {
	*slog.Logger
	Level slog.Level
	file  io.WriteCloser
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// New resolves logging settings: flags, then config (including environment
// overrides declared in the schema), then defaults. With a log file the
// output is JSON and the default level is info; otherwise text goes to
// stderr and the default level is warn. cfg may be nil.
func New(opts Options, cfg *config.Config, stderr io.Writer) (*Logger, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	schema := config.DefaultSchema()

	path := opts.File
	if path == "" {
		path = schema.Resolve(cfg, config.KeyLogFile)
	}

	levelStr := opts.Level
	if levelStr == "" && schema.Explicit(cfg, config.KeyLogLevel) {
		levelStr = schema.Resolve(cfg, config.KeyLogLevel)
	}
	if levelStr == "" {
		if path != "" {
			levelStr = "info"
		} else {
			levelStr = "warn"
		}
	}
	level, err := ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	if path == "" {
		return &Logger{
			Logger: slog.New(slog.NewTextHandler(stderr, handlerOpts)),
			Level:  level,
		}, nil
	}

	maxSizeMB, err := schema.Int(cfg, "", config.KeyLogMaxSizeMB)
	if err != nil {
		return nil, err
	}
	if maxSizeMB <= 0 {
		return nil, fmt.Errorf("invalid %s %d: must be positive", config.KeyLogMaxSizeMB, maxSizeMB)
	}
	// Zero is valid: no backups, just truncate on rotate.
	maxFiles, err := schema.Int(cfg, "", config.KeyLogMaxFiles)
	if err != nil {
		return nil, err
	}
	if maxFiles < 0 {
		return nil, fmt.Errorf("invalid %s %d: must not be negative", config.KeyLogMaxFiles, maxFiles)
	}

	w, err := NewRotatingFileWriter(path, maxSizeMB, maxFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, handlerOpts)),
		Level:  level,
		file:   w,
	}, nil
}

// ParseLevel parses debug, info, warn or error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}
