// Package config loads the aad tool configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/aad/internal/aad"
	"github.com/born-ml/aad/internal/parallel"
	"github.com/born-ml/aad/internal/risk"
)

// Config is the full tool configuration.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	Tape  TapeConfig  `yaml:"tape"`
	Check CheckConfig `yaml:"check"`
	Bench BenchConfig `yaml:"bench"`
}

// LogConfig selects log level and an optional JSON log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// TapeConfig pre-sizes tape buffers.
type TapeConfig struct {
	StatementCapacity int `yaml:"statement_capacity"`
	OperandCapacity   int `yaml:"operand_capacity"`
	SlotCapacity      int `yaml:"slot_capacity"`
}

// CheckConfig controls gradient checking against finite differences.
type CheckConfig struct {
	Step      float64 `yaml:"step"`
	Tolerance float64 `yaml:"tolerance"`
}

// BenchConfig controls the adjoint versus bumping benchmark.
type BenchConfig struct {
	Dim      int     `yaml:"dim"`
	Reps     int     `yaml:"reps"`
	Workers  int     `yaml:"workers"`
	BumpStep float64 `yaml:"bump_step"`
}

// Default returns the built-in configuration.
func Default() Config {
	tc := aad.DefaultConfig()
	return Config{
		Log: LogConfig{Level: "info"},
		Tape: TapeConfig{
			StatementCapacity: tc.StatementCapacity,
			OperandCapacity:   tc.OperandCapacity,
			SlotCapacity:      tc.SlotCapacity,
		},
		Check: CheckConfig{Step: 1e-6, Tolerance: 1e-6},
		Bench: BenchConfig{Dim: 50, Reps: 100, Workers: parallel.DefaultConfig().NumWorkers, BumpStep: 1e-6},
	}
}

// Load reads path over the defaults and validates the result.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Tape.StatementCapacity < 0 || c.Tape.OperandCapacity < 0 || c.Tape.SlotCapacity < 0 {
		errs = append(errs, errors.New("tape capacities must be >= 0"))
	}
	if !(c.Check.Step > 0) {
		errs = append(errs, errors.New("check.step must be > 0"))
	}
	if !(c.Check.Tolerance > 0) {
		errs = append(errs, errors.New("check.tolerance must be > 0"))
	}
	if c.Bench.Dim < 1 {
		errs = append(errs, errors.New("bench.dim must be >= 1"))
	}
	if c.Bench.Reps < 1 {
		errs = append(errs, errors.New("bench.reps must be >= 1"))
	}
	if c.Bench.Workers < 1 {
		errs = append(errs, errors.New("bench.workers must be >= 1"))
	}
	if !(c.Bench.BumpStep > 0) {
		errs = append(errs, errors.New("bench.bump_step must be > 0"))
	}
	return errors.Join(errs...)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// AAD returns the engine configuration.
func (c TapeConfig) AAD(log *slog.Logger) aad.Config {
	return aad.Config{
		StatementCapacity: c.StatementCapacity,
		OperandCapacity:   c.OperandCapacity,
		SlotCapacity:      c.SlotCapacity,
		Logger:            log,
	}
}

// Risk returns the runner configuration for the benchmark.
func (c Config) Risk(log *slog.Logger) risk.Config {
	rc := risk.DefaultConfig()
	rc.Tape = c.Tape.AAD(log)
	rc.BumpStep = c.Bench.BumpStep
	rc.Parallel = parallel.Config{
		Enabled:      c.Bench.Workers > 1,
		NumWorkers:   c.Bench.Workers,
		MinChunkSize: 1,
	}
	rc.Logger = log
	return rc
}
