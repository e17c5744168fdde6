package output

import (
	"path/filepath"
	"strings"
)

// Suffixes appended to the input stem for the two partitions.
const (
	FilteredSuffix = "_filtered"
	ExcludedSuffix = "_excluded"
)

// Paths names the two partition files produced for one input.
type Paths struct {
	Filtered string
	Excluded string
}

// PathsFor derives the partition paths for input: the file extension is
// replaced by "<suffix>.csv" and both files live next to the input, so
// "data.csv" yields "data_filtered.csv" and "data_excluded.csv".
func PathsFor(input string) Paths {
	stem := strings.TrimSuffix(input, filepath.Ext(input))

	return Paths{
		Filtered: stem + FilteredSuffix + ".csv",
		Excluded: stem + ExcludedSuffix + ".csv",
	}
}
