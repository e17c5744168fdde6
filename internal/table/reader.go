package table

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrUnterminatedQuote is returned when the input ends inside a quoted field.
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// recordReader splits CSV input into records. Records end at "\n" or
// "\r\n"; line breaks inside quoted fields are kept byte for byte, which
// encoding/csv does not do. A quote that does not open a field is literal,
// and text after a closing quote is appended to the field.
type recordReader struct {
	r    *bufio.Reader
	line int
}

func newRecordReader(r io.Reader) *recordReader {
	return &recordReader{r: bufio.NewReader(r), line: 1}
}

// Read returns the next record and the line it starts on. Blank lines are
// skipped. It returns io.EOF once the input is exhausted.
func (rr *recordReader) Read() ([]string, int, error) {
	for {
		start := rr.line

		rec, more, err := rr.record()
		if err != nil {
			return nil, start, err
		}

		if rec != nil {
			return rec, start, nil
		}

		if !more {
			return nil, start, io.EOF
		}
	}
}

// record parses one record. A blank line yields a nil record; more is false
// once the input is exhausted.
func (rr *recordReader) record() (rec []string, more bool, err error) {
	var field strings.Builder

	quoted := false
	fieldStart := true
	content := false

	for {
		b, err := rr.r.ReadByte()
		if errors.Is(err, io.EOF) {
			if quoted {
				return nil, false, ErrUnterminatedQuote
			}

			if !content {
				return nil, false, nil
			}

			return append(rec, field.String()), false, nil
		}

		if err != nil {
			return nil, false, err
		}

		if quoted {
			switch b {
			case '"':
				if next, err := rr.r.Peek(1); err == nil && next[0] == '"' {
					_, _ = rr.r.ReadByte()
					field.WriteByte('"')

					continue
				}

				quoted = false
			case '\n':
				rr.line++

				field.WriteByte(b)
			default:
				field.WriteByte(b)
			}

			continue
		}

		switch b {
		case ',':
			content = true
			rec = append(rec, field.String())
			field.Reset()
			fieldStart = true

			continue
		case '\n':
			rr.line++

			if !content {
				return nil, true, nil
			}

			return append(rec, field.String()), true, nil
		case '\r':
			if next, err := rr.r.Peek(1); err == nil && next[0] == '\n' {
				continue
			}

			field.WriteByte(b)
		case '"':
			if fieldStart {
				quoted = true
			} else {
				field.WriteByte(b)
			}
		default:
			field.WriteByte(b)
		}

		content = true
		fieldStart = false
	}
}
