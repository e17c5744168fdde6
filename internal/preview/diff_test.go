package preview

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bom = "\xef\xbb\xbf"

func writeFile(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "strings_filtered.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	return p
}

func TestCompare_Identical(t *testing.T) {
	content := bom + "\"Key\",\"Labels\"\r\n\"k1\",\"\"\r\n"
	p := writeFile(t, content)

	d, err := Compare(p, []byte(content), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, d.Exists)
	assert.False(t, d.Changed)
	assert.Empty(t, d.Unified)
	assert.False(t, HasDifferences([]*FileDiff{d}))
}

func TestCompare_RowsChanged(t *testing.T) {
	p := writeFile(t, "Key,Labels\r\nk1,\r\nk2,\r\n")

	d, err := Compare(p, []byte("Key,Labels\r\nk1,\r\nk3,\r\n"), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, d.Changed)
	assert.False(t, d.EncodingOnly)
	assert.Contains(t, d.Unified, "-k2,")
	assert.Contains(t, d.Unified, "+k3,")
	assert.NotContains(t, d.Unified, "\r")
	assert.Equal(t, 1, d.Added)
	assert.Equal(t, 1, d.Removed)
	assert.True(t, HasDifferences([]*FileDiff{d}))
}

func TestCompare_MissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "strings_excluded.csv")

	d, err := Compare(p, []byte("Key,Labels\r\nk1,a\r\n"), DefaultOptions())
	require.NoError(t, err)
	assert.False(t, d.Exists)
	assert.True(t, d.Changed)
	assert.Contains(t, d.Unified, "--- /dev/null")
	assert.Contains(t, d.Unified, "+Key,Labels")
	assert.Equal(t, 2, d.Added)
	assert.Zero(t, d.Removed)
}

func TestCompare_EncodingOnly(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		proposed string
	}{
		{"bom added", "Key\r\nk1\r\n", bom + "Key\r\nk1\r\n"},
		{"line endings", "Key\nk1\n", "Key\r\nk1\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, tt.existing)

			d, err := Compare(p, []byte(tt.proposed), DefaultOptions())
			require.NoError(t, err)
			assert.True(t, d.Changed)
			assert.True(t, d.EncodingOnly)
			assert.Empty(t, d.Unified)
		})
	}
}

func TestCompare_RemovedLineStartingWithDashes(t *testing.T) {
	p := writeFile(t, "Key\n--a\n")

	d, err := Compare(p, []byte("Key\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, d.Removed)
	assert.Zero(t, d.Added)
}

func TestWrite(t *testing.T) {
	p := writeFile(t, "Key\nk1\n")

	d, err := Compare(p, []byte("Key\nk2\n"), DefaultOptions())
	require.NoError(t, err)

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		Write(&buf, d, false)

		out := buf.String()
		assert.NotContains(t, out, "\033[")
		assert.Contains(t, out, "-k1")
		assert.Contains(t, out, "+k2")
		assert.Contains(t, out, p+": +1 -1 lines")
	})

	t.Run("color", func(t *testing.T) {
		var buf bytes.Buffer
		Write(&buf, d, true)
		assert.Contains(t, buf.String(), "\033[31m-k1")
		assert.Contains(t, buf.String(), "\033[32m+k2")
	})

	t.Run("unchanged", func(t *testing.T) {
		var buf bytes.Buffer
		Write(&buf, &FileDiff{Path: "x.csv"}, false)
		assert.Equal(t, "x.csv: no differences\n", buf.String())
	})

	t.Run("encoding only", func(t *testing.T) {
		var buf bytes.Buffer
		Write(&buf, &FileDiff{Path: "x.csv", Changed: true, EncodingOnly: true}, false)
		assert.Contains(t, buf.String(), "encoding differs")
	})
}
