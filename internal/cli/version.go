package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/labelsplit/internal/split"
	"github.com/hupe1980/labelsplit/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		check      string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Display the version, git commit, build date, Go version, and platform.

With --check, exit with code 2 unless the binary satisfies the given
semver constraint, e.g. --check ">= 1.2".`,
		Args: cobra.NoArgs,
		// Version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()

			if check != "" {
				if err := info.Satisfies(check); err != nil {
					return &ExitError{Code: exitUsage, Err: &split.ConfigurationError{Err: err}}
				}
			}

			if jsonOutput {
				j, err := info.JSON()
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), j)

				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())

			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version info as JSON")
	cmd.Flags().StringVar(&check, "check", "", "fail unless the version satisfies this semver constraint")

	return cmd
}
