// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/periodic-table/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromZapFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With(String("component", "api"))

	log.Info("request",
		Int("status", 200),
		Duration("latency", 5*time.Millisecond),
		Error(errors.New("boom")),
	)
	log.Debug("detail")

	entries := logs.All()
	require.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "api", fields["component"])
	assert.Equal(t, int64(200), fields["status"])
	assert.Equal(t, 5*time.Millisecond, fields["latency"])
	assert.Equal(t, "boom", fields["error"])
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(types.LogConfig{Level: "warn", OutputPaths: []string{path}, Development: true})
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept", String("k", "v"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Error("ignored", Error(errors.New("x")))
	assert.NoError(t, log.With(String("a", "b")).Sync())
}
