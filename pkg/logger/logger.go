// Package logger holds the process-wide zap logger. Every binary calls Init
// once from main with the configured LOG_LEVEL and LOG_FORMAT; packages log
// through L.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base *zap.Logger

// Init builds and installs the global logger. level accepts any zap level
// name (debug, info, warn, error, ...); format is "json" for production and
// "console" for local development.
func Init(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", level, err)
	}

	format = strings.ToLower(format)
	if format != "json" && format != "console" {
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         format,
		EncoderConfig:    encoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	base = l
	return l, nil
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.MessageKey = "message"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = zapcore.LowercaseLevelEncoder
	return ec
}

// L returns the logger installed by Init and panics when called before it.
// The panic surfaces wiring mistakes at startup instead of dropping logs.
func L() *zap.Logger {
	if base == nil {
		panic("logger.L called before logger.Init")
	}
	return base
}

// Sync flushes buffered entries. Safe to call before Init.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
