package main

import (
	"os"

	"github.com/spf13/cobra"

	"clg/internal/config"
	"clg/internal/engine"
	"clg/internal/logging"
	"clg/internal/version"
)

var (
	repoRootFlag string
	logLevelFlag string
	logJSONFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "clg",
	Short: "clg - Cross-layer Lineage Graph",
	Long: `clg builds a cross-layer lineage graph from extracted repository facts
(UI components, API calls, backend endpoints, database queries, table schemas)
and answers "what breaks if I make change X" through impact analysis.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("clg version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoRootFlag, "repo", "", "Repository root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSONFlag, "log-json", false, "Emit logs as JSON")
}

// repoRoot resolves the effective repository root: flag > CLG_REPO env >
// working directory.
func repoRoot() string {
	if repoRootFlag != "" {
		return repoRootFlag
	}
	if env := os.Getenv("CLG_REPO"); env != "" {
		return env
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// newLogger builds the command logger from flags and config.
func newLogger(cfg *config.Config) *logging.Logger {
	format := logging.Format(cfg.Logging.Format)
	if logJSONFlag {
		format = logging.JSONFormat
	}

	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}

	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  logging.ParseLevel(level),
	})
}

// newEngine loads config and constructs the engine for a command run.
func newEngine() (*engine.Engine, *logging.Logger, error) {
	cfg, err := config.Load(repoRoot())
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg)
	eng, err := engine.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return eng, logger, nil
}
