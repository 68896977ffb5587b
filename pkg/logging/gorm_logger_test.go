package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestToGormLogLevel(t *testing.T) {
	tests := map[zapcore.Level]logger.LogLevel{
		zapcore.DebugLevel: logger.Info,
		zapcore.InfoLevel:  logger.Warn,
		zapcore.WarnLevel:  logger.Warn,
		zapcore.ErrorLevel: logger.Error,
	}
	for in, want := range tests {
		if got := ToGormLogLevel(in); got != want {
			t.Errorf("ToGormLogLevel(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestGormLoggerTrace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name    string
		begin   time.Time
		err     error
		wantMsg string
		wantLvl zapcore.Level
	}{
		{"failure", time.Now(), errors.New("connection refused"), "GORM SQL failed", zapcore.ErrorLevel},
		{"slow", time.Now().Add(-time.Second), nil, "GORM slow SQL", zapcore.WarnLevel},
		{"not found", time.Now(), gorm.ErrRecordNotFound, "", 0},
		{"duplicate key", time.Now(), gorm.ErrDuplicatedKey, "", 0},
		{"fast", time.Now(), nil, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			l := NewGormLogger(zap.New(core), logger.Warn, 100*time.Millisecond)

			l.Trace(context.Background(), tt.begin, sql, tt.err)

			entries := logs.All()
			if tt.wantMsg == "" {
				if len(entries) != 0 {
					t.Fatalf("expected no log, got %v", entries[0].Message)
				}
				return
			}
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if entries[0].Message != tt.wantMsg || entries[0].Level != tt.wantLvl {
				t.Errorf("got %s %q", entries[0].Level, entries[0].Message)
			}
			if entries[0].ContextMap()["sql"] != "SELECT 1" {
				t.Errorf("sql field = %v", entries[0].ContextMap()["sql"])
			}
		})
	}
}

func TestGormLoggerSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), logger.Warn, 0).LogMode(logger.Silent)
	l.Trace(context.Background(), time.Now().Add(-time.Hour), func() (string, int64) { return "x", 0 }, errors.New("boom"))
	if logs.Len() != 0 {
		t.Fatalf("silent logger wrote %d entries", logs.Len())
	}
}
