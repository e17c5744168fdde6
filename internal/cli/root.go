// Package cli implements the cobra command tree for labelsplit.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/labelsplit/internal/config"
	"github.com/hupe1980/labelsplit/internal/logging"
	"github.com/hupe1980/labelsplit/internal/split"
	"github.com/hupe1980/labelsplit/internal/version"
)

// Process exit codes.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitDifferences = 3
)

// ExitError wraps an error with a specific process exit code. An ExitError
// without Err only sets the exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, prints any error to stderr and
// returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
			}

			return exitErr.Code
		}

		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return exitFailure
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "labelsplit",
		Short: "Split a CSV file into filtered and excluded rows by its Labels column",
		Long: `labelsplit partitions the rows of a CSV file by the label tokens in
its Labels column and writes two files next to the input:
<name>_filtered.csv with the kept rows and <name>_excluded.csv with the rest.
Both files repeat the input header.

Rows are kept when their labels field is empty (the default), when they
carry one of the requested target labels (--label), or when their labels
field contains none of a list of excluded substrings (--exclude-substrings).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: exitUsage, Err: &split.ConfigurationError{Err: err}}
			}

			if err := version.GetInfo().Satisfies(cfg.RequiredVersion); err != nil {
				return &ExitError{Code: exitUsage, Err: &split.ConfigurationError{Err: err}}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("configFile", cfg.ConfigFile),
				slog.String("labelsColumn", cfg.LabelsColumn),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .labelsplit.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: exitUsage, Err: err}
	})

	cmd.AddCommand(
		newSplitCommand(),
		newInspectCommand(),
		newDiffCommand(),
		newWatchCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}

// exitErrorFor maps a pipeline error onto its exit code: configuration
// problems are usage errors, everything else is a failure.
func exitErrorFor(err error) error {
	if err == nil {
		return nil
	}

	var cfgErr *split.ConfigurationError
	if errors.As(err, &cfgErr) {
		return &ExitError{Code: exitUsage, Err: err}
	}

	return &ExitError{Code: exitFailure, Err: err}
}
