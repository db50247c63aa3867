package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/marquee/pkg/poster"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for marquee.

Bash:
  $ source <(marquee completion bash)

Zsh:
  $ marquee completion zsh > "${fpath[1]}/_marquee"

Fish:
  $ marquee completion fish > ~/.config/fish/completions/marquee.fish

PowerShell:
  PS> marquee completion powershell | Out-String | Invoke-Expression

Completions include render flag values such as --mode, --wrap, --position
and the badge names from the config file.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// vignettePositions lists the corners and edges accepted by --position.
var vignettePositions = []string{
	"left", "right", "top", "bottom",
	"top-left", "top-right", "bottom-left", "bottom-right",
}

// registerRenderCompletions adds value completion to the render flags.
func (c *CLI) registerRenderCompletions(cmd *cobra.Command) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}

	_ = cmd.RegisterFlagCompletionFunc("mode", fixed(string(poster.BackgroundAmbient), string(poster.BackgroundFramed)))
	_ = cmd.RegisterFlagCompletionFunc("wrap", fixed(string(poster.WrapModePixels), string(poster.WrapModeChars)))
	_ = cmd.RegisterFlagCompletionFunc("position", fixed(vignettePositions...))
	_ = cmd.RegisterFlagCompletionFunc("badge", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return c.badgeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("meta", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

// badgeNames returns the badge names configured in assets.badges.
func (c *CLI) badgeNames() []string {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(cfg.Assets.Badges))
	for name := range cfg.Assets.Badges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
