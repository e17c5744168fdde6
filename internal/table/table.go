// Package table reads CSV tables into memory and encodes them back to bytes
// with a configurable quoting and encoding policy.
package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNoHeader is returned when the input holds no header record.
var ErrNoHeader = errors.New("input has no header row")

// ErrInvalidUTF8 is returned for fields that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("field is not valid UTF-8")

const utf8BOM = "\xef\xbb\xbf"

// Table is an in-memory CSV table. Every row has exactly len(Header) fields.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read parses a complete CSV table from r. A leading UTF-8 byte order mark
// is stripped; UTF-16 input announced by a BOM is decoded to UTF-8. Other
// bytes are kept as they are and must be valid UTF-8. Rows shorter than the
// header are padded with empty fields, rows longer than the header are
// rejected.
func Read(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	rr := newRecordReader(transform.NewReader(br, unicode.BOMOverride(transform.Nop)))

	header, line, err := rr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}

	if err != nil {
		return nil, fmt.Errorf("reading header (line %d): %w", line, err)
	}

	if i := invalidField(header); i >= 0 {
		return nil, fmt.Errorf("header (line %d) column %d: %w", line, i+1, ErrInvalidUTF8)
	}

	t := &Table{Header: header}

	for {
		rec, line, err := rr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading row %d (line %d): %w", len(t.Rows)+1, line, err)
		}

		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d (line %d) has %d fields, header has %d",
				len(t.Rows)+1, line, len(rec), len(header))
		}

		if i := invalidField(rec); i >= 0 {
			return nil, fmt.Errorf("row %d (line %d) column %d: %w", len(t.Rows)+1, line, i+1, ErrInvalidUTF8)
		}

		for len(rec) < len(header) {
			rec = append(rec, "")
		}

		t.Rows = append(t.Rows, rec)
	}

	return t, nil
}

func invalidField(rec []string) int {
	for i, field := range rec {
		if !utf8.ValidString(field) {
			return i
		}
	}

	return -1
}
