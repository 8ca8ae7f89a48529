// Package main implements the lightoladb command line.
//
// EDUCATIONAL NOTES:
// ------------------
// One binary, four entry points into the same in-memory engine:
//   - repl:  an interactive shell (the default when no command is given)
//   - exec:  run one statement and print the result
//   - serve: expose the database over HTTP
//   - bench: load synthetic data and time a query suite
//
// Configuration is resolved once, before any command runs: defaults, then
// the --config file, then LIGHTOLA_* environment variables, then flags.

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cabewaldrop/lightoladb/internal/config"
	"github.com/cabewaldrop/lightoladb/internal/database"
	"github.com/cabewaldrop/lightoladb/internal/logger"
)

const version = "0.1.0"

// app holds what every command needs after PersistentPreRunE.
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

func (a *app) openDatabase() (*database.Database, error) {
	return database.Open(a.cfg.Database, a.log)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		configPath string
		logLevel   string
		logFormat  string
	)

	root := &cobra.Command{
		Use:           "lightoladb",
		Short:         "An embeddable in-memory columnar SQL database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(a, cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json, style)")

	root.AddCommand(
		newREPLCmd(a),
		newExecCmd(a),
		newServeCmd(a),
		newBenchCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
