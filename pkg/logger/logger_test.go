package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPrintfHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := InfoLogger
	InfoLogger = zap.New(core)
	defer func() { InfoLogger = prev }()

	Info("[BOOT] candles ok for %d assets", 12)
	Error("[BOOT] probe error: %v", "401")

	got := logs.All()
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Message != "[BOOT] candles ok for 12 assets" || got[0].Level != zapcore.InfoLevel {
		t.Errorf("info entry = %+v", got[0].Entry)
	}
	if got[1].Message != "[BOOT] probe error: 401" || got[1].Level != zapcore.ErrorLevel {
		t.Errorf("error entry = %+v", got[1].Entry)
	}
}

func TestNew(t *testing.T) {
	prev := InfoLogger
	defer func() { InfoLogger = prev }()

	l, err := New(Config{Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if InfoLogger != l {
		t.Error("New must install the logger for the helpers")
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}

	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}
