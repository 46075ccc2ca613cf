package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"

	"github.com/born-ml/aad/internal/config"
)

// app is the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	logFile    string

	cfg    config.Config
	log    *slog.Logger
	logOut *os.File // JSON log file, nil unless configured
}

// execute runs cmd and closes what setup opened, also when cmd fails.
func (a *app) execute(cmd *cobra.Command) (err error) {
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return cmd.Execute()
}

func (a *app) close() error {
	if a.logOut == nil {
		return nil
	}
	f := a.logOut
	a.logOut = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:          "aad",
		Short:        "Adjoint algorithmic differentiation toolkit",
		Long:         "aad checks the engine's derivatives against finite differences and benchmarks adjoint sensitivities against bump-and-revalue.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.logFile, "log-file", "", "also write JSON logs to this file")

	root.AddCommand(
		newVersionCmd(),
		newCheckCmd(a),
		newBenchCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	log, out, err := newLogger(stderr, cfg.Log)
	if err != nil {
		return err
	}
	a.log, a.logOut = log, out
	a.log.Debug("configuration loaded", "path", a.configPath, "level", cfg.Log.Level)
	return nil
}

// newLogger fans out to a text handler on w and, if configured, a JSON handler
// on the log file, which is returned for the caller to close.
func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, *os.File, error) {
	lvl, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, nil, err
	}
	level := new(slog.LevelVar)
	level.Set(lvl)

	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	}
	var out *os.File
	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		out = f
	}
	return slog.New(slogmulti.Fanout(handlers...)), out, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aad %s\n", version)
		},
	}
}
