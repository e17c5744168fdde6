package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/labelsplit/internal/config"
	"github.com/hupe1980/labelsplit/internal/logging"
	"github.com/hupe1980/labelsplit/internal/split"
	"github.com/hupe1980/labelsplit/internal/watch"
)

type watchOptions struct {
	mode     modeOptions
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <input.csv>",
		Short: "Re-run split whenever the input file changes",
		Long: `Watch runs split once and then again every time the input CSV is
saved. Bursts of file events are debounced into a single run. Each run
prints a status line with the partition sizes and how they moved since
the previous run. A failing run is reported and watching continues.

Stop with Ctrl+C.`,
		Args: inputArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerModeFlags(cmd, &opts.mode)
	registerTableFlags(cmd)
	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultOptions().Debounce, "quiet period before re-running after a change")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, input string, opts *watchOptions) error {
	cfg := config.FromContext(ctx)

	mode, err := resolveMode(cmd, cfg, &opts.mode)
	if err != nil {
		return exitErrorFor(err)
	}

	splitOpts := split.Options{
		Input:        input,
		Mode:         mode,
		LabelsColumn: cfg.LabelsColumn,
		LF:           cfg.UseLF(),
	}

	runFn := func(runCtx context.Context) (*watch.RunResult, error) {
		rep, err := split.Run(runCtx, splitOpts)
		if err != nil {
			return nil, err
		}

		return &watch.RunResult{Kept: rep.Kept, Excluded: rep.Excluded}, nil
	}

	watchOpts := watch.Options{
		Input:    input,
		Debounce: opts.debounce,
		Logger:   logging.FromContext(ctx),
		Out:      cmd.ErrOrStderr(),
	}

	return exitErrorFor(watch.Run(ctx, watchOpts, runFn))
}
