package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ogurasousui/codex-company-registry/internal/platform/config"
)

func TestNew_FallsBackToInfoOnInvalidLevel(t *testing.T) {
	t.Parallel()

	l, err := New(config.LogConfig{Level: "loud"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug must be disabled for the info fallback")
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info must be enabled")
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	stored := zap.NewExample()
	fallback := zap.NewNop()

	ctx := WithLogger(context.Background(), stored)
	if got := FromContext(ctx, fallback); got != stored {
		t.Fatalf("expected logger from context")
	}

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback logger")
	}

	if got := FromContext(context.Background(), nil); got == nil {
		t.Fatalf("expected nop logger, got nil")
	}
}
