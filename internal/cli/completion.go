package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for archrip.

To load completions:

Bash:
  $ source <(archrip completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ archrip completion bash > /etc/bash_completion.d/archrip
  # macOS:
  $ archrip completion bash > $(brew --prefix)/etc/bash_completion.d/archrip

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ archrip completion zsh > "${fpath[1]}/_archrip"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ archrip completion fish | source

  # To load completions for each session, execute once:
  $ archrip completion fish > ~/.config/fish/completions/archrip.fish

PowerShell:
  PS> archrip completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> archrip completion powershell > archrip.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.Out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}

	return cmd
}
