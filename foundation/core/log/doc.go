// Package log provides structured logging for minilang.
//
// Package: log
// Title: minilang Structured Logging
// Description: Leveled, field-based logger with JSON and text formatters,
//              immutable With* derivation and operation timers. Used by the
//              front-end engine, the CLI and the check server.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-15
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-15 v0.2.0: Synchronous writer only, sorted text fields
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText})
//	logger = logger.WithField("component", "checker")
//	logger.Debug("statement accepted", log.Fields{"line": 3})
//
//	timer := logger.StartTimer("check")
//	defer timer.Stop()
package log
