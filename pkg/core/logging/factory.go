// ============================================================================
// minilang - Typed Mini-Language Front End
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating foundation loggers from
//              application configuration
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	mllog "github.com/msto63/minilang/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json" or "text" (default: text)
	Format string

	// Primary output (default: stderr, stdout carries reports)
	Output io.Writer

	// Additional outputs
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// NewLogger creates a new foundation logger
func NewLogger(cfg LoggerConfig) *mllog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	format := mllog.FormatText
	if strings.EqualFold(cfg.Format, "json") {
		format = mllog.FormatJSON
	}

	return mllog.NewWithConfig(mllog.Config{
		Level:  parseLevel(cfg.Level),
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewRunLogger creates a logger tagged with a fresh correlation id and
// returns the id alongside
func NewRunLogger(cfg LoggerConfig) (*mllog.Logger, string) {
	id := NewCorrelationID()
	return NewLogger(cfg).WithCorrelationID(id), id
}

// NewCorrelationID returns a random id for one run or request
func NewCorrelationID() string {
	return uuid.NewString()
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(serviceName string) *mllog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// parseLevel converts a string level to mllog.Level
func parseLevel(level string) mllog.Level {
	parsed, err := mllog.ParseLevel(level)
	if err != nil {
		return mllog.LevelInfo
	}
	return parsed
}

// Compatibility layer for code using key-value logging

// Logger wraps the foundation logger with key-value methods
type Logger struct {
	*mllog.Logger
	name string
}

// New creates a key-value logger with the default configuration
func New(name string) *Logger {
	return Wrap(NewSimpleLogger(name), name)
}

// Wrap adapts an existing foundation logger
func Wrap(logger *mllog.Logger, name string) *Logger {
	return &Logger{
		Logger: logger.WithName(name),
		name:   name,
	}
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a new logger with the specified level
func (l *Logger) WithLevel(level Level) *Logger {
	mlLevel := mllog.LevelInfo
	switch level {
	case LevelDebug:
		mlLevel = mllog.LevelDebug
	case LevelInfo:
		mlLevel = mllog.LevelInfo
	case LevelWarn:
		mlLevel = mllog.LevelWarn
	case LevelError:
		mlLevel = mllog.LevelError
	}

	return &Logger{
		Logger: l.Logger.WithLevel(mlLevel),
		name:   l.name,
	}
}

// With returns a logger carrying the given key-value pairs on every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.WithFields(toFields(keysAndValues...)),
		name:   l.name,
	}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mllog.Fields
func toFields(keysAndValues ...interface{}) mllog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mllog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
