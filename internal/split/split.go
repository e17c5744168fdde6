// Package split runs one classification pass over a CSV file: read the
// input, partition its rows, encode both partitions and write them next to
// the input.
package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/labelsplit/internal/classify"
	"github.com/hupe1980/labelsplit/internal/logging"
	"github.com/hupe1980/labelsplit/internal/output"
	"github.com/hupe1980/labelsplit/internal/table"
)

// Options configures a split run.
type Options struct {
	// Input is the path of the CSV file to split. Required.
	Input string
	// Mode is the matching rule. The zero value is classify.EmptyLabels.
	Mode classify.Mode
	// LabelsColumn overrides the labels column name.
	LabelsColumn string
	// LF terminates output records with "\n" instead of "\r\n".
	LF bool
	// DryRun skips writing the partition files.
	DryRun bool
	// Logger overrides the logger carried by the context.
	Logger *slog.Logger
}

// Report describes the outcome of a run.
type Report struct {
	// Input is the absolute input path.
	Input string
	Mode  classify.Mode
	Paths output.Paths

	Header   []string
	Kept     int
	Excluded int

	// LabelsColumnFound is false when the labels column was missing.
	LabelsColumnFound bool
	DryRun            bool

	// FilteredData and ExcludedData are the encoded partitions.
	FilteredData []byte
	ExcludedData []byte
}

// Plan reads and classifies the input and encodes both partitions without
// writing anything.
func Plan(ctx context.Context, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	input, tbl, err := ReadInput(opts.Input)
	if err != nil {
		return nil, err
	}

	logger.Debug("input loaded",
		slog.String("path", input),
		slog.Int("columns", len(tbl.Header)),
		slog.Int("rows", len(tbl.Rows)),
	)

	c := classify.NewClassifier(opts.Mode,
		classify.WithLabelsColumn(opts.LabelsColumn),
		classify.WithLogger(logger),
	)

	res := c.Classify(tbl.Header, tbl.Rows)
	if !res.LabelsColumnFound {
		logger.Warn("treating every row as unlabeled",
			slog.String("column", c.Column()),
			slog.String("error", ErrMissingLabelsColumn.Error()),
		)
	}

	encOpts := table.EncodeOptions{
		QuoteAll: opts.Mode.QuoteAll(),
		BOM:      opts.Mode.WriteBOM(),
		LF:       opts.LF,
	}

	filtered, err := table.EncodeBytes(res.Header, res.Kept, encOpts)
	if err != nil {
		return nil, fmt.Errorf("encoding kept rows: %w", err)
	}

	excluded, err := table.EncodeBytes(res.Header, res.Excluded, encOpts)
	if err != nil {
		return nil, fmt.Errorf("encoding excluded rows: %w", err)
	}

	return &Report{
		Input:             input,
		Mode:              opts.Mode,
		Paths:             output.PathsFor(input),
		Header:            res.Header,
		Kept:              len(res.Kept),
		Excluded:          len(res.Excluded),
		LabelsColumnFound: res.LabelsColumnFound,
		DryRun:            opts.DryRun,
		FilteredData:      filtered,
		ExcludedData:      excluded,
	}, nil
}

// Run executes Plan and writes both partition files unless opts.DryRun is
// set. A failure while writing the second file leaves the first in place.
func Run(ctx context.Context, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	rep, err := Plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		logger.Info("dry run, no files written")
		return rep, nil
	}

	files := []struct {
		path string
		data []byte
	}{
		{rep.Paths.Filtered, rep.FilteredData},
		{rep.Paths.Excluded, rep.ExcludedData},
	}

	for _, f := range files {
		w := output.NewFileWriter(f.path, output.WithLogger(logger))
		if err := w.Write(f.data); err != nil {
			return nil, &FileAccessError{Op: "write", Path: f.path, Err: err}
		}
	}

	logger.Info("split complete",
		slog.Int("kept", rep.Kept),
		slog.Int("excluded", rep.Excluded),
	)

	return rep, nil
}

// ReadInput resolves path to an absolute path and parses the CSV file there.
func ReadInput(path string) (string, *table.Table, error) {
	if path == "" {
		return "", nil, Configurationf("input CSV path is required")
	}

	input, err := filepath.Abs(path)
	if err != nil {
		return "", nil, &FileAccessError{Op: "read", Path: path, Err: err}
	}

	tbl, err := readTable(input)
	if err != nil {
		return "", nil, err
	}

	return input, tbl, nil
}

func readTable(path string) (*table.Table, error) {
	f, err := os.Open(path) //nolint:gosec // path is the user-provided input
	if err != nil {
		return nil, &FileAccessError{Op: "read", Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck // read-only handle

	tbl, err := table.Read(f)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, &FileAccessError{Op: "read", Path: path, Err: err}
		}

		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return tbl, nil
}

// Print writes the operator report: resolved input, active mode with its
// label list, and the two output paths.
func (r *Report) Print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "input:    %s\n", r.Input)
	_, _ = fmt.Fprintf(w, "mode:     %s\n", r.Mode.Kind())

	switch r.Mode.Kind() {
	case classify.KindTargetLabels:
		_, _ = fmt.Fprintf(w, "labels:   %q\n", r.Mode.Targets())
	case classify.KindExcludeSubstrings:
		_, _ = fmt.Fprintf(w, "exclude:  %q\n", r.Mode.Substrings())
	case classify.KindEmptyLabels:
		_, _ = fmt.Fprintln(w, "labels:   (none, keeping rows with an empty labels field)")
	}

	_, _ = fmt.Fprintf(w, "filtered: %s (%d rows)\n", r.Paths.Filtered, r.Kept)
	_, _ = fmt.Fprintf(w, "excluded: %s (%d rows)\n", r.Paths.Excluded, r.Excluded)

	if r.DryRun {
		_, _ = fmt.Fprintln(w, "dry run: no files written")
	}
}
