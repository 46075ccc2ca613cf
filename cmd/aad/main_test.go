package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut, _, err := runApp(t, args...)
	return out, errOut, err
}

func runApp(t *testing.T, args ...string) (string, string, *app, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{}
	cmd := a.command()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := a.execute(cmd)
	return out.String(), errOut.String(), a, err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "aad "+version+"\n", out)
}

func TestCheck_AllCases(t *testing.T) {
	out, _, err := run(t, "check", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "CASE")
	assert.Contains(t, out, "black-scholes")
	assert.Contains(t, out, "regincbeta")
	assert.NotContains(t, out, "FAIL")
}

func TestCheck_SingleCase(t *testing.T) {
	out, _, err := run(t, "check", "--case", "hypot")
	require.NoError(t, err)
	assert.Contains(t, out, "hypot")
	assert.NotContains(t, out, "sqrt")

	_, _, err = run(t, "check", "--case", "nope")
	assert.ErrorContains(t, err, "unknown case")
}

func TestCheck_ImpossibleTolerance(t *testing.T) {
	out, _, err := run(t, "check", "--case", "black-scholes", "--step", "1", "--tol", "1e-12")
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "FAIL")
}

func TestBench(t *testing.T) {
	out, _, err := run(t, "bench", "--dim", "6", "--reps", "2", "--workers", "2", "--scenarios", "4", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "dimension:   6")
	assert.Contains(t, out, "mismatches:  0")
	assert.Contains(t, out, "scenarios:   4")
	assert.Contains(t, out, "aad_valuations_total")
	assert.Contains(t, out, `aad_tape_live_statements{tape="bench"}`)
}

func TestConfigAndLogFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "aad.yaml")
	logPath := filepath.Join(dir, "aad.log")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: debug\nbench:\n  dim: 3\n  reps: 1\n"), 0o600))

	out, stderr, err := run(t, "bench", "--config", cfgPath, "--log-file", logPath)
	require.NoError(t, err)
	assert.Contains(t, out, "dimension:   3")
	assert.Contains(t, stderr, "bench done")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"bench done"`)

	_, _, err = run(t, "version", "--log-level", "shout")
	assert.Error(t, err)
}

func TestLogFileClosedWhenCommandFails(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "aad.log")

	// Capture the handle before execute releases it.
	var opened *os.File
	a := &app{}
	cmd := a.command()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"check", "--case", "black-scholes", "--step", "1", "--tol", "1e-12", "--log-file", logPath})
	pre := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		err := pre(c, args)
		opened = a.logOut
		return err
	}

	err := a.execute(cmd)
	assert.ErrorIs(t, err, errCheckFailed)
	require.NotNil(t, opened)
	assert.Nil(t, a.logOut)

	_, err = opened.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"gradient mismatch"`)
}
