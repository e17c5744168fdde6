package output

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf)

	data := []byte("\"Key\",\"Labels\"\r\n")
	require.NoError(t, w.Write(data))
	assert.Equal(t, string(data), buf.String())
}

func TestStreamWriter_NilDefault(t *testing.T) {
	w := NewStreamWriter(nil)
	assert.NotNil(t, w)
}

func TestFileWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_filtered.csv")

	w := NewFileWriter(path)
	data := []byte("Key,Labels\r\nk1,\r\n")
	require.NoError(t, w.Write(data))

	got, err := os.ReadFile(path) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, string(data), string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	assert.Equal(t, path, w.Path())
}

func TestFileWriter_CustomPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.csv")

	w := NewFileWriter(path, WithPermissions(0o600))
	require.NoError(t, w.Write([]byte("a\r\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileWriter_OverwriteTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.csv")
	require.NoError(t, os.WriteFile(path, []byte("a much longer previous content"), 0o644)) //nolint:gosec // test

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	w := NewFileWriter(path, WithLogger(logger))
	require.NoError(t, w.Write([]byte("new")))

	got, err := os.ReadFile(path) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
	assert.Contains(t, logBuf.String(), "overwriting existing file")
}

func TestFileWriter_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")

	err := NewFileWriter(path).Write([]byte("x"))
	require.Error(t, err)

	var pathErr *os.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestPathsFor(t *testing.T) {
	tests := []struct {
		input    string
		filtered string
		excluded string
	}{
		{"data.csv", "data_filtered.csv", "data_excluded.csv"},
		{"dir/data.csv", "dir/data_filtered.csv", "dir/data_excluded.csv"},
		{"dir.v2/data", "dir.v2/data_filtered.csv", "dir.v2/data_excluded.csv"},
		{"export.tsv", "export_filtered.csv", "export_excluded.csv"},
		{"a.b.csv", "a.b_filtered.csv", "a.b_excluded.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			input := filepath.FromSlash(tt.input)
			p := PathsFor(input)
			assert.Equal(t, filepath.FromSlash(tt.filtered), p.Filtered)
			assert.Equal(t, filepath.FromSlash(tt.excluded), p.Excluded)
		})
	}
}
