package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
  file: /tmp/aad.json
tape:
  statement_capacity: 128
check:
  tolerance: 1e-8
bench:
  dim: 7
  workers: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/aad.json", cfg.Log.File)
	assert.Equal(t, 128, cfg.Tape.StatementCapacity)
	assert.Equal(t, Default().Tape.OperandCapacity, cfg.Tape.OperandCapacity)
	assert.Equal(t, 1e-8, cfg.Check.Tolerance)
	assert.Equal(t, Default().Check.Step, cfg.Check.Step)
	assert.Equal(t, 7, cfg.Bench.Dim)

	rc := cfg.Risk(slog.Default())
	assert.Equal(t, 128, rc.Tape.StatementCapacity)
	assert.True(t, rc.Parallel.Enabled)
	assert.Equal(t, 2, rc.Parallel.NumWorkers)
	assert.Equal(t, cfg.Bench.BumpStep, rc.BumpStep)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "log: [unterminated"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeFile(t, "bench:\n  dim: 0\n  reps: -1\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "bench.dim")
	assert.ErrorContains(t, err, "bench.reps")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
