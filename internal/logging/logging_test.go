// ABOUTME: Tests for the logging wrapper
// ABOUTME: Verifies level parsing and logger replacement
package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zap.AtomicLevel
	}{
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"DEBUG", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"warn", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel)},
		{"", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"verbose", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected.Level(), ParseLevel(tt.input), "level %q", tt.input)
	}
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core).Sugar())
	defer SetLogger(nil)

	Infow("session started", "stream_sid", "abc")
	Debugw("frame sent", "bytes", 128)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "session started", entries[0].Message)
		assert.Equal(t, "abc", entries[0].ContextMap()["stream_sid"])
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	SetLogger(nil)
	assert.NotPanics(t, func() {
		Warnw("ignored")
		_ = Sync()
	})
}
