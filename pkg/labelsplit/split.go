// Package labelsplit provides a public Go API for splitting a CSV file into
// the rows to keep and the rows to exclude, based on its Labels column.
//
// This package exposes the labelsplit pipeline as a library, allowing
// programmatic use without the CLI.
//
// Basic usage, keeping rows without labels:
//
//	report, err := labelsplit.Split(ctx, "strings.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.FilteredPath, report.Kept)
//
// With options:
//
//	report, err := labelsplit.Split(ctx, "strings.csv",
//	    labelsplit.WithLabels("compare_str", "from_scene_idenum"),
//	    labelsplit.WithDryRun(),
//	)
package labelsplit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/labelsplit/internal/classify"
	"github.com/hupe1980/labelsplit/internal/logging"
	"github.com/hupe1980/labelsplit/internal/split"
)

// DefaultExcludedSubstrings are used by WithExcludeSubstrings when called
// without arguments.
var DefaultExcludedSubstrings = append([]string(nil), classify.DefaultExcludedSubstrings...)

// ErrConflictingModes is returned when both WithLabels and
// WithExcludeSubstrings are given.
var ErrConflictingModes = errors.New("labels and excluded substrings are mutually exclusive")

// ErrEmptySubstring is returned when WithExcludeSubstrings is given an empty
// string, which would match every row.
var ErrEmptySubstring = errors.New("excluded substrings must not be empty")

// Option configures a Split call. Use the With* functions to create Options.
type Option func(*options)

type options struct {
	labels            []string
	byLabel           bool
	substrings        []string
	excludeSubstrings bool

	labelsColumn string
	separator    string
	lf           bool
	dryRun       bool
	logger       *slog.Logger
}

// WithLabels keeps rows carrying at least one of the given labels. An empty
// label keeps rows without any labels.
func WithLabels(labels ...string) Option {
	return func(o *options) {
		o.byLabel = true
		o.labels = append(o.labels, labels...)
	}
}

// WithExcludeSubstrings excludes rows whose labels field contains any of
// subs, or DefaultExcludedSubstrings when subs is empty. Partitions are
// written without a byte order mark and with minimal quoting.
func WithExcludeSubstrings(subs ...string) Option {
	return func(o *options) {
		o.excludeSubstrings = true
		o.substrings = append(o.substrings, subs...)
	}
}

// WithLabelsColumn sets the name of the column holding the labels.
// The default is "Labels".
func WithLabelsColumn(name string) Option {
	return func(o *options) { o.labelsColumn = name }
}

// WithSeparator sets the separator between label tokens. The default is ";".
func WithSeparator(sep string) Option {
	return func(o *options) { o.separator = sep }
}

// WithLF terminates output records with "\n" instead of "\r\n".
func WithLF() Option {
	return func(o *options) { o.lf = true }
}

// WithDryRun classifies and encodes without writing any file.
func WithDryRun() Option {
	return func(o *options) { o.dryRun = true }
}

// WithLogger sets the logger. Split is silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Report holds the outcome of a successful Split.
type Report struct {
	// Input is the absolute path of the input file.
	Input string

	// Mode describes the rule that was applied, e.g. `target-labels ["a"]`.
	Mode string

	// FilteredPath and ExcludedPath are where the partitions were (or, on a
	// dry run, would have been) written.
	FilteredPath string
	ExcludedPath string

	// Kept and Excluded are the partition sizes in rows.
	Kept     int
	Excluded int

	// LabelsColumnFound is false when the input had no labels column and
	// every row was treated as unlabeled.
	LabelsColumnFound bool

	// FilteredData and ExcludedData are the encoded partition files.
	FilteredData []byte
	ExcludedData []byte
}

// Split partitions the rows of the CSV file at input and writes
// <name>_filtered.csv and <name>_excluded.csv next to it.
//
// Use IsConfigurationError and IsFileAccessError to classify a returned
// error. Malformed CSV input is neither.
func Split(ctx context.Context, input string, opts ...Option) (*Report, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.byLabel && o.excludeSubstrings {
		return nil, &split.ConfigurationError{Err: ErrConflictingModes}
	}

	for i, sub := range o.substrings {
		if sub == "" {
			return nil, &split.ConfigurationError{Err: fmt.Errorf("substring %d: %w", i+1, ErrEmptySubstring)}
		}
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	var mode classify.Mode

	switch {
	case o.byLabel:
		mode = classify.TargetLabels(o.labels...)
	case o.excludeSubstrings:
		mode = classify.ExcludeSubstrings(o.substrings...)
	default:
		mode = classify.EmptyLabels()
	}

	if o.separator != "" {
		mode = mode.WithSeparator(o.separator)
	}

	rep, err := split.Run(ctx, split.Options{
		Input:        input,
		Mode:         mode,
		LabelsColumn: o.labelsColumn,
		LF:           o.lf,
		DryRun:       o.dryRun,
		Logger:       o.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Report{
		Input:             rep.Input,
		Mode:              rep.Mode.String(),
		FilteredPath:      rep.Paths.Filtered,
		ExcludedPath:      rep.Paths.Excluded,
		Kept:              rep.Kept,
		Excluded:          rep.Excluded,
		LabelsColumnFound: rep.LabelsColumnFound,
		FilteredData:      rep.FilteredData,
		ExcludedData:      rep.ExcludedData,
	}, nil
}

// IsConfigurationError reports whether err was caused by missing or invalid
// parameters rather than by file access or malformed input.
func IsConfigurationError(err error) bool {
	var cfgErr *split.ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsFileAccessError reports whether err was caused by an input that could
// not be read or an output that could not be written.
func IsFileAccessError(err error) bool {
	var fileErr *split.FileAccessError
	return errors.As(err, &fileErr)
}
