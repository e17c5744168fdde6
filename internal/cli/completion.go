package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/labelsplit/internal/classify"
)

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for labelsplit. Input arguments
complete to .csv files.

Bash:
  $ source <(labelsplit completion bash)

Zsh:
  $ labelsplit completion zsh > "${fpath[1]}/_labelsplit"

Fish:
  $ labelsplit completion fish > ~/.config/fish/completions/labelsplit.fish

PowerShell:
  PS> labelsplit completion powershell | Out-String | Invoke-Expression
`,
		// Completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}

			return nil
		},
	}

	return cmd
}

// completeInput offers .csv files for the single input argument.
func completeInput(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return []string{"csv"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeProfiles offers the built-in profile names for --profile.
func completeProfiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return classify.BuiltinProfileNames(), cobra.ShellCompDirectiveNoFileComp
}
