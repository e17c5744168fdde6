package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/labelsplit/internal/classify"
	"github.com/hupe1980/labelsplit/internal/config"
	"github.com/hupe1980/labelsplit/internal/logging"
	"github.com/hupe1980/labelsplit/internal/output"
	"github.com/hupe1980/labelsplit/internal/split"
	"github.com/hupe1980/labelsplit/internal/table"
)

type inspectOptions struct {
	mode modeOptions

	showTokens   bool
	showProfiles bool
	format       string
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <input.csv>",
		Short: "Summarize the labels of a CSV file without splitting it",
		Long: `Inspect reads the input CSV and reports how its rows are labeled:
whether the labels column exists, how many rows are unlabeled, how many
rows carry each label token, and how many rows every built-in and
configured profile would keep. Nothing is written.

The mode flags select an additional mode whose counts are shown as
"selection".`,
		Args: inputArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerModeFlags(cmd, &opts.mode)
	registerTableFlags(cmd)

	f := cmd.Flags()
	f.BoolVar(&opts.showTokens, "show-tokens", false, "show only the label token histogram")
	f.BoolVar(&opts.showProfiles, "show-profiles", false, "show only the profile counts")
	f.StringVar(&opts.format, "format", "table", "output format: table, "+output.DefaultRegistry().AvailableFormats())

	return cmd
}

// inspectResult is the structured output of the inspect command.
type inspectResult struct {
	Input             string         `json:"input" yaml:"input"`
	Columns           []string       `json:"columns" yaml:"columns"`
	Rows              int            `json:"rows" yaml:"rows"`
	LabelsColumn      string         `json:"labelsColumn" yaml:"labelsColumn"`
	LabelsColumnFound bool           `json:"labelsColumnFound" yaml:"labelsColumnFound"`
	Unlabeled         int            `json:"unlabeled" yaml:"unlabeled"`
	Tokens            []tokenCount   `json:"tokens" yaml:"tokens"`
	Profiles          []profileCount `json:"profiles" yaml:"profiles"`
	Selection         profileCount   `json:"selection" yaml:"selection"`
}

type tokenCount struct {
	Label string `json:"label" yaml:"label"`
	Rows  int    `json:"rows" yaml:"rows"`
}

type profileCount struct {
	Name     string `json:"name" yaml:"name"`
	Mode     string `json:"mode" yaml:"mode"`
	Kept     int    `json:"kept" yaml:"kept"`
	Excluded int    `json:"excluded" yaml:"excluded"`
}

func runInspect(ctx context.Context, cmd *cobra.Command, input string, opts *inspectOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	var encode output.Encoder

	if opts.format != "table" {
		enc, err := output.DefaultRegistry().Encoder(opts.format)
		if err != nil {
			return &ExitError{Code: exitUsage, Err: &split.ConfigurationError{Err: err}}
		}

		encode = enc
	}

	mode, err := resolveMode(cmd, cfg, &opts.mode)
	if err != nil {
		return exitErrorFor(err)
	}

	custom, err := customProfiles(cfg)
	if err != nil {
		return exitErrorFor(err)
	}

	abs, tbl, err := split.ReadInput(input)
	if err != nil {
		return exitErrorFor(err)
	}

	logger.Info("inspecting input", slog.String("path", abs), slog.Int("rows", len(tbl.Rows)))

	result, err := buildInspectResult(abs, tbl, cfg, mode, custom)
	if err != nil {
		return exitErrorFor(err)
	}

	w := cmd.OutOrStdout()

	if encode != nil {
		return encode(w, result)
	}

	return renderTable(w, result, !opts.showTokens && !opts.showProfiles, opts)
}

func buildInspectResult(
	input string,
	tbl *table.Table,
	cfg *config.Config,
	selected classify.Mode,
	custom map[string]classify.Profile,
) (inspectResult, error) {
	col := classify.ColumnIndex(tbl.Header, cfg.LabelsColumn)

	result := inspectResult{
		Input:             input,
		Columns:           tbl.Header,
		Rows:              len(tbl.Rows),
		LabelsColumn:      cfg.LabelsColumn,
		LabelsColumnFound: col >= 0,
		Tokens:            []tokenCount{},
	}

	counts := map[string]int{}
	unlabeled := classify.EmptyLabels()

	for _, row := range tbl.Rows {
		field := ""
		if col >= 0 && col < len(row) {
			field = row[col]
		}

		if unlabeled.Keep(field) {
			result.Unlabeled++
		}

		tokens := classify.ParseTokens(field, cfg.Separator)

		seen := map[string]bool{}

		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				counts[tok]++
			}
		}
	}

	for label, n := range counts {
		result.Tokens = append(result.Tokens, tokenCount{Label: label, Rows: n})
	}

	sort.Slice(result.Tokens, func(i, j int) bool {
		if result.Tokens[i].Rows != result.Tokens[j].Rows {
			return result.Tokens[i].Rows > result.Tokens[j].Rows
		}

		return result.Tokens[i].Label < result.Tokens[j].Label
	})

	names := classify.BuiltinProfileNames()
	customNames := make([]string, 0, len(custom))

	for name := range custom {
		customNames = append(customNames, name)
	}

	sort.Strings(customNames)
	names = append(names, customNames...)

	for _, name := range names {
		p, err := classify.ResolveProfile(name, custom)
		if err != nil {
			return inspectResult{}, &split.ConfigurationError{Err: err}
		}

		mode, err := p.BuildMode()
		if err != nil {
			return inspectResult{}, &split.ConfigurationError{Err: fmt.Errorf("profile %q: %w", name, err)}
		}

		result.Profiles = append(result.Profiles, countMode(name, mode.WithSeparator(cfg.Separator), tbl, cfg))
	}

	result.Selection = countMode("selection", selected, tbl, cfg)

	return result, nil
}

func countMode(name string, mode classify.Mode, tbl *table.Table, cfg *config.Config) profileCount {
	res := classify.NewClassifier(mode,
		classify.WithLabelsColumn(cfg.LabelsColumn),
		classify.WithLogger(logging.Discard()),
	).Classify(tbl.Header, tbl.Rows)

	return profileCount{
		Name:     name,
		Mode:     mode.String(),
		Kept:     len(res.Kept),
		Excluded: len(res.Excluded),
	}
}

func renderTable(w io.Writer, result inspectResult, showAll bool, opts *inspectOptions) error {
	if showAll {
		printInputSummary(w, result)
	}

	if showAll || opts.showTokens {
		printTokenTable(w, result)
	}

	if showAll || opts.showProfiles {
		printProfileTable(w, result)
	}

	return nil
}

func printInputSummary(w io.Writer, result inspectResult) {
	_, _ = fmt.Fprintf(w, "\n=== Input: %s ===\n", result.Input)
	_, _ = fmt.Fprintf(w, "Rows:      %d\n", result.Rows)
	_, _ = fmt.Fprintf(w, "Columns:   %d\n", len(result.Columns))

	if result.LabelsColumnFound {
		_, _ = fmt.Fprintf(w, "Labels:    %q\n", result.LabelsColumn)
	} else {
		_, _ = fmt.Fprintf(w, "Labels:    %q (missing, every row counts as unlabeled)\n", result.LabelsColumn)
	}

	_, _ = fmt.Fprintf(w, "Unlabeled: %d\n", result.Unlabeled)
}

func printTokenTable(w io.Writer, result inspectResult) {
	_, _ = fmt.Fprintf(w, "\n--- Label Tokens (%d) ---\n", len(result.Tokens))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "LABEL\tROWS")

	for _, t := range result.Tokens {
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", t.Label, t.Rows)
	}

	_ = tw.Flush()
}

func printProfileTable(w io.Writer, result inspectResult) {
	_, _ = fmt.Fprintf(w, "\n--- Profiles ---\n")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PROFILE\tKEPT\tEXCLUDED\tMODE")

	for _, p := range append(result.Profiles, result.Selection) {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", p.Name, p.Kept, p.Excluded, p.Mode)
	}

	_ = tw.Flush()
}
