package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/archrip/archrip/internal/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect configuration",
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force, global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to archrip.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.LocalFileName
			if global {
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, config.GlobalFileName)
			}
			if err := config.Default().WriteFile(path, force); err != nil {
				return err
			}
			c.printSuccess("Wrote default configuration")
			c.printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&global, "global", false, "write to the user config directory instead")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.cfg.Encode(c.Out)
		},
	}
}
