package split

import (
	"errors"
	"fmt"
)

// ErrMissingLabelsColumn is reported, as a warning only, when the input
// header lacks the labels column. Every row is then classified as unlabeled.
var ErrMissingLabelsColumn = errors.New("labels column not found")

// ConfigurationError reports missing or invalid run parameters.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Configurationf builds a ConfigurationError from a format string.
func Configurationf(format string, args ...any) error {
	return &ConfigurationError{Err: fmt.Errorf(format, args...)}
}

// FileAccessError reports an input that cannot be read or an output that
// cannot be written.
type FileAccessError struct {
	// Op is "read" or "write".
	Op   string
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }
