// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap logger shared by the CLI commands.
// Logs go to stderr; stdout is reserved for command output.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger at level. json selects the production JSON encoder;
// otherwise a console encoder is used. Unknown levels fall back to info.
func New(level string, json bool) (*zap.Logger, error) {
	return build(level, json, []string{"stderr"})
}

func build(level string, json bool, outputs []string) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
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
	encoding := "json"
	if !json {
		encoding = "console"
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
	return config.Build()
}

// ParseLevel converts a level name to a zapcore.Level.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
