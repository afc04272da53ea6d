package log

import (
	"log/slog"
	"testing"
)

func TestRecoverPanic(t *testing.T) {
	cleaned := false
	func() {
		defer RecoverPanic("test", func() { cleaned = true })
		panic("boom")
	}()
	if !cleaned {
		t.Error("cleanup not run after panic")
	}
}

func TestRecoverPanicWithoutPanic(t *testing.T) {
	cleaned := false
	func() {
		defer RecoverPanic("test", func() { cleaned = true })
	}()
	if cleaned {
		t.Error("cleanup run without a panic")
	}
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Setup(true)
	Setup(false)
	if !Initialized() {
		t.Fatal("Setup did not initialize")
	}
	if !slog.Default().Enabled(t.Context(), slog.LevelDebug) {
		t.Error("debug level not enabled by Setup(true)")
	}
	if err := Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
