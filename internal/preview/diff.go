// Package preview compares the partition files already on disk with the
// bytes a split run would write, as unified diffs.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Options configures diff computation.
type Options struct {
	// Context is the number of unchanged lines shown around each change.
	Context int
}

// DefaultOptions returns three lines of context, like diff -u.
func DefaultOptions() Options {
	return Options{Context: 3}
}

// FileDiff is the difference between one existing file and its proposed
// content.
type FileDiff struct {
	Path string
	// Exists is false when the file has not been written yet.
	Exists bool
	// Changed reports whether writing would alter the file's bytes.
	Changed bool
	// EncodingOnly is set when the bytes differ but the text is the same
	// once the BOM and CRLF line endings are ignored.
	EncodingOnly bool
	Unified      string
	Added        int
	Removed      int
}

// Compare diffs the file at path against proposed. A missing file compares
// as empty.
func Compare(path string, proposed []byte, opts Options) (*FileDiff, error) {
	existing, err := os.ReadFile(path) //nolint:gosec // path derives from the user-provided input
	exists := true

	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		exists = false
	}

	d := &FileDiff{
		Path:    path,
		Exists:  exists,
		Changed: !exists || !bytes.Equal(existing, proposed),
	}

	if !d.Changed {
		return d, nil
	}

	oldText, err := displayText(existing)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	newText, err := displayText(proposed)
	if err != nil {
		return nil, fmt.Errorf("decoding proposed %s: %w", path, err)
	}

	if exists && oldText == newText {
		d.EncodingOnly = true
		return d, nil
	}

	fromFile := path + " (existing)"
	if !exists {
		fromFile = "/dev/null"
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: fromFile,
		ToFile:   path + " (proposed)",
		Context:  opts.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	d.Unified = unified
	d.Added, d.Removed = countChanges(unified)

	return d, nil
}

// HasDifferences reports whether any of the diffs would change a file.
func HasDifferences(diffs []*FileDiff) bool {
	for _, d := range diffs {
		if d.Changed {
			return true
		}
	}

	return false
}

// Write prints d, optionally with ANSI colors.
func Write(w io.Writer, d *FileDiff, color bool) {
	switch {
	case !d.Changed:
		_, _ = fmt.Fprintf(w, "%s: no differences\n", d.Path)
		return
	case d.EncodingOnly:
		_, _ = fmt.Fprintf(w, "%s: encoding differs (byte order mark or line endings), rows unchanged\n", d.Path)
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(d.Unified, "\n"), "\n") {
		if color {
			writeColorLine(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}

	_, _ = fmt.Fprintf(w, "%s: +%d -%d lines\n", d.Path, d.Added, d.Removed)
}

func writeColorLine(w io.Writer, line string) {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", bold, line, reset)
	case strings.HasPrefix(line, "@@"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", cyan, line, reset)
	case strings.HasPrefix(line, "-"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", red, line, reset)
	case strings.HasPrefix(line, "+"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", green, line, reset)
	default:
		_, _ = fmt.Fprintln(w, line)
	}
}

// displayText drops a leading BOM and folds CRLF to LF.
func displayText(b []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), b)
	if err != nil {
		return "", err
	}

	return strings.ReplaceAll(string(out), "\r\n", "\n"), nil
}

// splitLines keeps the trailing newline on each element as difflib expects.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}

	lines := strings.SplitAfter(s, "\n")

	return lines[:len(lines)-1]
}

// countChanges counts added and removed lines in the hunks of a unified
// diff, skipping the file header.
func countChanges(unified string) (added, removed int) {
	inHunk := false

	for _, line := range strings.Split(unified, "\n") {
		if strings.HasPrefix(line, "@@") {
			inHunk = true
			continue
		}

		switch {
		case !inHunk:
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}

	return added, removed
}
