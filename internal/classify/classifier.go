package classify

import "log/slog"

// DefaultLabelsColumn is the header name of the labels column.
const DefaultLabelsColumn = "Labels"

// Result holds the outcome of classifying one table.
type Result struct {
	// Header is the input header, shared by both partitions.
	Header []string
	// Kept are the rows satisfying the mode, in input order.
	Kept [][]string
	// Excluded are the remaining rows, in input order.
	Excluded [][]string
	// LabelsColumnFound is false when the header has no labels column and
	// every row was classified as if its labels field were empty.
	LabelsColumnFound bool
}

// Total returns the number of classified rows.
func (r *Result) Total() int {
	return len(r.Kept) + len(r.Excluded)
}

// Classifier partitions rows according to a Mode.
type Classifier struct {
	mode   Mode
	column string
	logger *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLabelsColumn overrides the name of the labels column.
func WithLabelsColumn(name string) Option {
	return func(c *Classifier) {
		if name != "" {
			c.column = name
		}
	}
}

// WithLogger sets the logger used for per-row debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClassifier creates a classifier applying mode.
func NewClassifier(mode Mode, opts ...Option) *Classifier {
	c := &Classifier{
		mode:   mode,
		column: DefaultLabelsColumn,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Mode returns the mode the classifier applies.
func (c *Classifier) Mode() Mode { return c.mode }

// Column returns the labels column name.
func (c *Classifier) Column() string { return c.column }

// Classify assigns every row to exactly one partition. Rows are not copied;
// the result shares their backing arrays with the input.
func (c *Classifier) Classify(header []string, rows [][]string) *Result {
	idx := ColumnIndex(header, c.column)

	r := &Result{
		Header:            header,
		Kept:              make([][]string, 0, len(rows)),
		Excluded:          make([][]string, 0),
		LabelsColumnFound: idx >= 0,
	}

	for i, row := range rows {
		field := ""
		if idx >= 0 && idx < len(row) {
			field = row[idx]
		}

		keep := c.mode.Keep(field)
		if keep {
			r.Kept = append(r.Kept, row)
		} else {
			r.Excluded = append(r.Excluded, row)
		}

		c.logger.Debug("row classified",
			slog.Int("row", i+1),
			slog.String("labels", field),
			slog.Bool("kept", keep),
		)
	}

	return r
}

// ColumnIndex returns the position of the first column called name, or -1.
func ColumnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}

	return -1
}
