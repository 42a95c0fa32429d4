// File: timer_test.go
// Title: Timer Tests
// Description: Tests for operation timers.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-01-24

package log

import (
	"bytes"
	"errors"
	"testing"
)

func TestTimerStop(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: LevelDebug, Output: &buf})

	timer := logger.StartTimer("tokenize").WithField("bytes", 12)
	if !timer.IsRunning() {
		t.Fatal("timer should be running")
	}

	timer.Stop()
	if timer.IsRunning() {
		t.Error("timer should be stopped")
	}
	if second := timer.Stop(); second != 0 {
		t.Errorf("second Stop() = %v, want 0", second)
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["message"] != "tokenize completed" {
		t.Errorf("message = %v", lines[0]["message"])
	}
	if lines[0]["operation"] != "tokenize" || lines[0]["bytes"] != float64(12) {
		t.Errorf("fields = %v", lines[0])
	}
	if _, ok := lines[0]["duration_ms"]; !ok {
		t.Error("duration_ms missing")
	}
}

func TestTimerStopWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: LevelWarn, Output: &buf})

	logger.StartTimer("check").StopWithError(errors.New("expected END"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["level"] != "warn" {
		t.Errorf("level = %v, want warn", lines[0]["level"])
	}
	if lines[0]["message"] != "check failed" || lines[0]["success"] != false {
		t.Errorf("entry = %v", lines[0])
	}
	if lines[0]["error"] != "expected END" {
		t.Errorf("error = %v", lines[0]["error"])
	}
}
