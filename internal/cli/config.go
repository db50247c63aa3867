package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/marquee/pkg/config"
)

// configCommand creates the config command, which prints the effective
// configuration as TOML.
func (c *CLI) configCommand() *cobra.Command {
	var showPath, defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

The output merges the built-in defaults with the config file, so it can be
redirected to a file and edited:

  marquee config --defaults > ~/.config/marquee/config.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showPath {
				path := c.configPath
				if path == "" {
					path = config.DefaultPath()
				}
				printKeyValue("config", path)
				if _, err := os.Stat(path); os.IsNotExist(err) {
					printDetail("file does not exist, built-in defaults are used")
				}
				return nil
			}

			cfg := config.Default()
			if !defaults {
				var err error
				if cfg, err = c.loadConfig(); err != nil {
					return err
				}
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&showPath, "path", false, "print the config file location instead")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "ignore any config file and print the built-in defaults")

	return cmd
}
