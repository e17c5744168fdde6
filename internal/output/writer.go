package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Writer is the interface for partition output destinations.
type Writer interface {
	// Write replaces the destination's content with data.
	Write(data []byte) error
}

// FileWriter creates or truncates a single partition file.
type FileWriter struct {
	path   string
	perm   os.FileMode
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithPermissions overrides the default file permissions (0644).
func WithPermissions(perm os.FileMode) FileWriterOption {
	return func(fw *FileWriter) {
		fw.perm = perm
	}
}

// WithLogger sets a logger for the FileWriter.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		if logger != nil {
			fw.logger = logger
		}
	}
}

// NewFileWriter creates a writer for the file at path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		path:   path,
		perm:   0o644,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Write opens the file for writing, truncating any previous content, and
// closes it before returning. The returned error wraps the *os.PathError of
// the failing call.
func (fw *FileWriter) Write(data []byte) (err error) {
	if _, statErr := os.Stat(fw.path); statErr == nil {
		fw.logger.Warn("overwriting existing file", slog.String("path", fw.path))
	}

	f, err := os.OpenFile(fw.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fw.perm)
	if err != nil {
		return fmt.Errorf("opening %s: %w", fw.path, err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", fw.path, closeErr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", fw.path, err)
	}

	return nil
}

// Path returns the output file path.
func (fw *FileWriter) Path() string {
	return fw.path
}

// StreamWriter sends partition bytes to an arbitrary io.Writer, such as
// stdout for split --print.
type StreamWriter struct {
	out io.Writer
}

// NewStreamWriter creates a writer that sends output to w. If w is nil,
// os.Stdout is used.
func NewStreamWriter(w io.Writer) *StreamWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StreamWriter{out: w}
}

// Write sends data to the underlying writer.
func (sw *StreamWriter) Write(data []byte) error {
	if _, err := sw.out.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
