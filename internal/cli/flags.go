package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/labelsplit/internal/classify"
	"github.com/hupe1980/labelsplit/internal/config"
	"github.com/hupe1980/labelsplit/internal/split"
)

// modeOptions holds the flags selecting the classification mode.
type modeOptions struct {
	labels            []string
	joinedLabels      string
	excludeSubstrings bool
	profile           string
}

// registerModeFlags adds the mode selection flags to a cobra command.
func registerModeFlags(cmd *cobra.Command, opts *modeOptions) {
	f := cmd.Flags()
	f.StringArrayVarP(&opts.labels, "label", "l", nil, `target label to keep (repeatable, "" keeps unlabeled rows)`)
	f.StringVar(&opts.joinedLabels, "labels", "", "target labels joined by the separator, e.g. \"a;b\"")
	f.BoolVar(&opts.excludeSubstrings, "exclude-substrings", false, "exclude rows whose labels contain any of --substrings")
	f.StringVar(&opts.profile, "profile", "", "apply a named profile ("+strings.Join(classify.BuiltinProfileNames(), ", ")+", or one from the config file)")

	_ = cmd.RegisterFlagCompletionFunc("profile", completeProfiles)
	cmd.ValidArgsFunction = completeInput
}

// registerTableFlags adds the flags that share their name with a config key.
// config.Load binds them, so they are read back from the Config.
func registerTableFlags(cmd *cobra.Command) {
	d := config.Default()

	f := cmd.Flags()
	f.String("labels-column", d.LabelsColumn, "name of the column holding label tokens")
	f.String("separator", d.Separator, "separator between label tokens")
	f.StringSlice("substrings", d.Substrings, "substrings excluded by --exclude-substrings")
	f.String("line-ending", d.LineEnding, "output record terminator: crlf, lf")
}

// resolveMode turns the mode flags and the loaded config into a Mode.
// Conflicting selections are configuration errors.
func resolveMode(cmd *cobra.Command, cfg *config.Config, opts *modeOptions) (classify.Mode, error) {
	byLabel := len(opts.labels) > 0 || cmd.Flags().Changed("labels")

	if byLabel && opts.excludeSubstrings {
		return classify.Mode{}, split.Configurationf("--label/--labels and --exclude-substrings are mutually exclusive")
	}

	if opts.profile != "" && (byLabel || opts.excludeSubstrings) {
		return classify.Mode{}, split.Configurationf("--profile cannot be combined with --label, --labels or --exclude-substrings")
	}

	var mode classify.Mode

	switch {
	case opts.profile != "":
		custom, err := customProfiles(cfg)
		if err != nil {
			return classify.Mode{}, err
		}

		p, err := classify.ResolveProfile(opts.profile, custom)
		if err != nil {
			return classify.Mode{}, &split.ConfigurationError{Err: err}
		}

		mode, err = p.BuildMode()
		if err != nil {
			return classify.Mode{}, &split.ConfigurationError{Err: fmt.Errorf("profile %q: %w", opts.profile, err)}
		}

	case byLabel:
		targets := append([]string(nil), opts.labels...)
		if cmd.Flags().Changed("labels") {
			targets = append(targets, classify.SplitTargets(opts.joinedLabels, cfg.Separator)...)
		}

		mode = classify.TargetLabels(targets...)

	case opts.excludeSubstrings:
		if len(cfg.Substrings) == 0 {
			return classify.Mode{}, split.Configurationf("--exclude-substrings needs at least one substring")
		}

		mode = classify.ExcludeSubstrings(cfg.Substrings...)

	default:
		mode = classify.EmptyLabels()
	}

	return mode.WithSeparator(cfg.Separator), nil
}

// customProfiles loads the profiles section of the config file in use, if
// any.
func customProfiles(cfg *config.Config) (map[string]classify.Profile, error) {
	if cfg.ConfigFile == "" {
		return nil, nil
	}

	profiles, err := classify.LoadProfiles(cfg.ConfigFile)
	if err != nil {
		return nil, &split.ConfigurationError{Err: err}
	}

	return profiles, nil
}

// inputArg requires exactly one positional argument, the input CSV path.
func inputArg(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return &ExitError{Code: exitUsage, Err: split.Configurationf("missing input CSV path")}
	case 1:
		if strings.TrimSpace(args[0]) == "" {
			return &ExitError{Code: exitUsage, Err: split.Configurationf("input CSV path must not be empty")}
		}

		return nil
	default:
		return &ExitError{Code: exitUsage, Err: split.Configurationf("expected one input CSV path, got %d arguments", len(args))}
	}
}
