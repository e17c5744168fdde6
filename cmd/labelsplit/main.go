// labelsplit splits a CSV file into filtered and excluded rows by its Labels
// column.
package main

import (
	"os"

	"github.com/hupe1980/labelsplit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
