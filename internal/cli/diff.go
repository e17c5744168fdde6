package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hupe1980/labelsplit/internal/config"
	"github.com/hupe1980/labelsplit/internal/preview"
	"github.com/hupe1980/labelsplit/internal/split"
)

type diffOptions struct {
	mode    modeOptions
	context int
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <input.csv>",
		Short: "Show how a split would change the existing partition files",
		Long: `Diff classifies the input exactly like split but, instead of writing,
prints a unified diff of each existing partition file against the content
split would write. A missing partition file diffs as empty.

Exit codes:
  0  both partition files are up to date
  3  at least one partition file would change`,
		Args: inputArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerModeFlags(cmd, &opts.mode)
	registerTableFlags(cmd)
	cmd.Flags().IntVar(&opts.context, "context", preview.DefaultOptions().Context, "lines of context around each change")

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, input string, opts *diffOptions) error {
	cfg := config.FromContext(ctx)

	mode, err := resolveMode(cmd, cfg, &opts.mode)
	if err != nil {
		return exitErrorFor(err)
	}

	rep, err := split.Plan(ctx, split.Options{
		Input:        input,
		Mode:         mode,
		LabelsColumn: cfg.LabelsColumn,
		LF:           cfg.UseLF(),
	})
	if err != nil {
		return exitErrorFor(err)
	}

	diffOpts := preview.Options{Context: opts.context}

	targets := []struct {
		path string
		data []byte
	}{
		{rep.Paths.Filtered, rep.FilteredData},
		{rep.Paths.Excluded, rep.ExcludedData},
	}

	diffs := make([]*preview.FileDiff, 0, len(targets))

	for _, t := range targets {
		d, err := preview.Compare(t.path, t.data, diffOpts)
		if err != nil {
			return exitErrorFor(&split.FileAccessError{Op: "read", Path: t.path, Err: err})
		}

		preview.Write(cmd.OutOrStdout(), d, !cfg.NoColor)
		diffs = append(diffs, d)
	}

	if preview.HasDifferences(diffs) {
		return &ExitError{Code: exitDifferences}
	}

	return nil
}
