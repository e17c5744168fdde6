package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hupe1980/labelsplit/internal/config"
	"github.com/hupe1980/labelsplit/internal/output"
	"github.com/hupe1980/labelsplit/internal/split"
)

type splitOptions struct {
	mode   modeOptions
	dryRun bool
	print  string
}

func newSplitCommand() *cobra.Command {
	opts := &splitOptions{}

	cmd := &cobra.Command{
		Use:   "split <input.csv>",
		Short: "Write the filtered and excluded partitions of a CSV file",
		Long: `Split reads the input CSV, classifies every row by its labels field and
writes <name>_filtered.csv (kept rows) and <name>_excluded.csv (all other
rows) next to the input, overwriting existing files.

Modes:
  (default)              keep rows whose labels field is empty
  --label A --label B    keep rows carrying label A or B
  --labels "A;B"         same, as a single separated value
  --label ""             keep rows without labels (combinable with other labels)
  --exclude-substrings   drop rows whose labels contain any of --substrings
  --profile NAME         use a built-in or configured profile`,
		Example: `  labelsplit split strings.csv
  labelsplit split strings.csv -l compare_str -l from_scene_idenum
  labelsplit split strings.csv --exclude-substrings --dry-run`,
		Args: inputArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerModeFlags(cmd, &opts.mode)
	registerTableFlags(cmd)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "classify and report without writing files")
	cmd.Flags().StringVar(&opts.print, "print", "", "print one partition (filtered, excluded) to stdout instead of writing files")

	return cmd
}

func runSplit(ctx context.Context, cmd *cobra.Command, input string, opts *splitOptions) error {
	cfg := config.FromContext(ctx)

	switch opts.print {
	case "", "filtered", "excluded":
	default:
		return &ExitError{Code: exitUsage, Err: split.Configurationf("--print must be filtered or excluded, got %q", opts.print)}
	}

	mode, err := resolveMode(cmd, cfg, &opts.mode)
	if err != nil {
		return exitErrorFor(err)
	}

	rep, err := split.Run(ctx, split.Options{
		Input:        input,
		Mode:         mode,
		LabelsColumn: cfg.LabelsColumn,
		LF:           cfg.UseLF(),
		DryRun:       opts.dryRun || opts.print != "",
	})
	if err != nil {
		return exitErrorFor(err)
	}

	if opts.print == "" {
		rep.Print(cmd.OutOrStdout())
		return nil
	}

	data := rep.FilteredData
	if opts.print == "excluded" {
		data = rep.ExcludedData
	}

	var w output.Writer = output.NewStreamWriter(cmd.OutOrStdout())

	return exitErrorFor(w.Write(data))
}
