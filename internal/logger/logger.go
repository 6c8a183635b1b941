// Package logger builds the zap logger shared by every component.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects level, encoding and destination.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// Format is "console" (default) or "json".
	Format string

	// File, when set, receives the logs (appended). It takes precedence
	// over Output.
	File string

	// Output is the destination when File is empty. Nil means stderr.
	Output io.Writer
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "", FormatConsole:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	var sink zapcore.WriteSyncer
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		sink = zapcore.AddSync(f)
	case cfg.Output != nil:
		sink = zapcore.AddSync(cfg.Output)
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ParseLevel parses a level name. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return level, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
