package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bom = "\xef\xbb\xbf"

func TestRead_Simple(t *testing.T) {
	tbl, err := Read(strings.NewReader("Key,Labels\nk1,A;B\nk2,\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Key", "Labels"}, tbl.Header)
	assert.Equal(t, [][]string{{"k1", "A;B"}, {"k2", ""}}, tbl.Rows)
}

func TestRead_StripsBOM(t *testing.T) {
	tbl, err := Read(strings.NewReader(bom + "Labels,Key\r\nA,k1\r\n"))
	require.NoError(t, err)

	assert.Equal(t, "Labels", tbl.Header[0])
	assert.Equal(t, [][]string{{"A", "k1"}}, tbl.Rows)
}

func TestRead_UTF16WithBOM(t *testing.T) {
	// "a,b\n1,2\n" in UTF-16LE with BOM.
	src := []byte{0xff, 0xfe}
	for _, r := range "a,b\n1,2\n" {
		src = append(src, byte(r), 0)
	}

	tbl, err := Read(bytes.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Header)
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Rows)
}

func TestRead_QuotedFields(t *testing.T) {
	in := "\"Key\",\"Source_string\"\n\"k1\",\"line one\nline two, with \"\"quotes\"\"\"\n"

	tbl, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "line one\nline two, with \"quotes\"", tbl.Rows[0][1])
}

func TestRead_KeepsCRLFInsideQuotes(t *testing.T) {
	in := "Key,Source_string,Labels\r\nk1,\"line one\r\nline two\",A\r\nk2,x,\r\n"

	tbl, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"k1", "line one\r\nline two", "A"},
		{"k2", "x", ""},
	}, tbl.Rows)
}

func TestRead_LooseQuotes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"quote inside bare field", "a,b\nx\"y,z\n", []string{"x\"y", "z"}},
		{"text after closing quote", "a,b\n\"x\"y,z\n", []string{"xy", "z"}},
		{"quoted empty field", "a\n\"\"\n", []string{""}},
		{"no trailing newline", "a,b\n1,2", []string{"1", "2"}},
		{"trailing empty field", "a,b\n1,\n", []string{"1", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(tt.in))
			require.NoError(t, err)
			require.Len(t, tbl.Rows, 1)
			assert.Equal(t, tt.want, tbl.Rows[0])
		})
	}
}

func TestRead_UnterminatedQuote(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n1,\"open\n"))
	require.ErrorIs(t, err, ErrUnterminatedQuote)
	assert.Contains(t, err.Error(), "row 1 (line 2)")
}

func TestRead_RejectsInvalidUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"row", "Key,Labels\nk\xff\xfe1,A\n", "row 1 (line 2) column 1"},
		{"row after bom", bom + "Key,Labels\nok,A\nk2,\xc3\n", "row 2 (line 3) column 2"},
		{"header", "K\xffey,Labels\n", "header (line 1) column 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			require.ErrorIs(t, err, ErrInvalidUTF8)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRead_KeepsMultibyteText(t *testing.T) {
	tbl, err := Read(strings.NewReader(bom + "Key,Labels\nk1,日本語;ü\n"))
	require.NoError(t, err)
	assert.Equal(t, "日本語;ü", tbl.Rows[0][1])
}

func TestRead_PadsShortRows(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b,c\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "", ""}}, tbl.Rows)
}

func TestRead_RejectsLongRows(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n1,2\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2 (line 3)")
	assert.Contains(t, err.Error(), "has 3 fields, header has 2")
}

func TestRead_SkipsBlankLines(t *testing.T) {
	tbl, err := Read(strings.NewReader("a\n\nx\n\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x"}}, tbl.Rows)
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoHeader)

	_, err = Read(strings.NewReader(bom))
	require.ErrorIs(t, err, ErrNoHeader)
}

func TestRead_HeaderOnly(t *testing.T) {
	tbl, err := Read(strings.NewReader("Key,Labels\n"))
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
}

func TestEncode_QuoteAllWithBOM(t *testing.T) {
	out, err := EncodeBytes([]string{"Key", "Labels"}, [][]string{{"k1", ""}, {"k2", `say "hi"`}},
		EncodeOptions{QuoteAll: true, BOM: true})
	require.NoError(t, err)

	want := bom + "\"Key\",\"Labels\"\r\n\"k1\",\"\"\r\n\"k2\",\"say \"\"hi\"\"\"\r\n"
	assert.Equal(t, want, string(out))
}

func TestEncode_Minimal(t *testing.T) {
	rows := [][]string{
		{"k1", "plain"},
		{"k2", "a,b"},
		{"k3", "multi\nline"},
		{"k4", ""},
		{"k5", " padded "},
	}

	out, err := EncodeBytes([]string{"Key", "Labels"}, rows, EncodeOptions{})
	require.NoError(t, err)

	want := "Key,Labels\r\n" +
		"k1,plain\r\n" +
		"k2,\"a,b\"\r\n" +
		"k3,\"multi\nline\"\r\n" +
		"k4,\r\n" +
		"k5, padded \r\n"
	assert.Equal(t, want, string(out))
}

func TestEncode_LoneEmptyFieldIsQuoted(t *testing.T) {
	out, err := EncodeBytes([]string{"Labels"}, [][]string{{""}}, EncodeOptions{LF: true})
	require.NoError(t, err)
	assert.Equal(t, "Labels\n\"\"\n", string(out))
}

func TestEncode_HeaderOnly(t *testing.T) {
	out, err := EncodeBytes([]string{"a", "b"}, nil, EncodeOptions{QuoteAll: true})
	require.NoError(t, err)
	assert.Equal(t, "\"a\",\"b\"\r\n", string(out))
}

func TestEncodeRead_RoundTrip(t *testing.T) {
	header := []string{"Key", "Source_string", "Labels"}
	rows := [][]string{
		{"k1", "line one\nline two", "A;B"},
		{"k", "a\r\nb", "A"},
		{"k2", `quote "me"`, ""},
		{"k3", "comma, separated", " spaced "},
		{"k4", "", ""},
	}

	for _, opts := range []EncodeOptions{{}, {QuoteAll: true, BOM: true}, {LF: true}} {
		out, err := EncodeBytes(header, rows, opts)
		require.NoError(t, err)

		tbl, err := Read(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, header, tbl.Header)
		assert.Equal(t, rows, tbl.Rows)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	header := []string{"a", "b"}
	rows := [][]string{{"1", "x,y"}, {"2", ""}}

	first, err := EncodeBytes(header, rows, EncodeOptions{QuoteAll: true, BOM: true})
	require.NoError(t, err)

	second, err := EncodeBytes(header, rows, EncodeOptions{QuoteAll: true, BOM: true})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
