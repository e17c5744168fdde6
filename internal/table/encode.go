package table

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodeOptions selects the quoting and encoding policy of Encode.
type EncodeOptions struct {
	// QuoteAll wraps every field in double quotes. Otherwise a field is
	// quoted only when it contains a comma, a quote, CR or LF, or when it is
	// the only, empty, field of its record.
	QuoteAll bool
	// BOM prefixes the output with a UTF-8 byte order mark.
	BOM bool
	// LF terminates records with "\n" instead of "\r\n".
	LF bool
}

// Encode writes header followed by rows to w. encoding/csv is not used for
// writing: it cannot quote every field, and its CRLF mode rewrites line
// breaks inside quoted fields.
func Encode(w io.Writer, header []string, rows [][]string, opts EncodeOptions) error {
	var tw *transform.Writer

	if opts.BOM {
		tw = transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
		w = tw
	}

	bw := bufio.NewWriter(w)
	eol := "\r\n"

	if opts.LF {
		eol = "\n"
	}

	if err := writeRecord(bw, header, opts.QuoteAll, eol); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := writeRecord(bw, row, opts.QuoteAll, eol); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	if tw != nil {
		if err := tw.Close(); err != nil {
			return fmt.Errorf("flushing output: %w", err)
		}
	}

	return nil
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(header []string, rows [][]string, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, header, rows, opts); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeRecord(w *bufio.Writer, rec []string, quoteAll bool, eol string) error {
	for i, field := range rec {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}

		quote := quoteAll || needsQuotes(field) || (len(rec) == 1 && field == "")
		if !quote {
			if _, err := w.WriteString(field); err != nil {
				return err
			}

			continue
		}

		if err := w.WriteByte('"'); err != nil {
			return err
		}

		if _, err := w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
			return err
		}

		if err := w.WriteByte('"'); err != nil {
			return err
		}
	}

	_, err := w.WriteString(eol)

	return err
}

func needsQuotes(field string) bool {
	return strings.ContainsAny(field, ",\"\r\n")
}
