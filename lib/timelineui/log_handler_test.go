// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestLogHandlerEnabled(t *testing.T) {
	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	handler := NewLogHandler(&level)

	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled at warn level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("error not enabled at warn level")
	}

	// Derived handlers see level changes.
	derived := handler.WithGroup("sync")
	level.Set(slog.LevelDebug)
	if !derived.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("derived handler did not follow the level change")
	}
}

func TestLogHandlerSummary(t *testing.T) {
	handler := NewLogHandler(slog.LevelWarn)
	derived := handler.
		WithAttrs([]slog.Attr{slog.String("room_id", "!room:test.local")}).
		WithGroup("sync").
		WithAttrs([]slog.Attr{slog.Int("attempt", 2)}).(*LogHandler)

	record := slog.NewRecord(time.Time{}, slog.LevelWarn, "sync failed", 0)
	record.AddAttrs(slog.String("error", "timeout"))

	want := "sync failed (room_id=!room:test.local, sync.attempt=2, sync.error=timeout)"
	if got := derived.summary(record); got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}

	bare := slog.NewRecord(time.Time{}, slog.LevelWarn, "plain", 0)
	if got := handler.summary(bare); got != "plain" {
		t.Errorf("summary = %q, want %q", got, "plain")
	}

	// Without a program, records are dropped.
	if err := derived.Handle(context.Background(), record); err != nil {
		t.Errorf("Handle without program: %v", err)
	}
}
