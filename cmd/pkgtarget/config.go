// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/invowk/pkgtarget/internal/config"
	"github.com/invowk/pkgtarget/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `pkgtarget config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pkgtarget configuration",
		Long: `Manage pkgtarget configuration.

Configuration is stored in:
  - Linux/BSD: ~/.config/pkgtarget/config.cue
  - macOS: ~/Library/Application Support/pkgtarget/config.cue
  - Windows: %APPDATA%\pkgtarget\config.cue

Every setting can be overridden with a ` + config.EnvPrefix + `_* environment
variable, e.g. ` + config.EnvPrefix + `_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, exists, err := app.configFilePath()
			if err != nil {
				return err
			}
			source := SubtitleStyle.Render("(using defaults)")
			if exists {
				source = path
			}
			fmt.Fprintf(app.stdout, "// %s %s\n", KeyStyle.Render("Config file:"), source)
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, exists, err := app.configFilePath()
			if err != nil {
				return err
			}
			if exists {
				fmt.Fprintln(app.stdout, path)
			} else {
				fmt.Fprintln(app.stdout, path, SubtitleStyle.Render("(not found)"))
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig("")
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" Configuration file: "+path)
			return nil
		},
	})

	return cfgCmd
}

func (a *App) configFilePath() (string, bool, error) {
	return config.ConfigFilePath(config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.flags.configPath)})
}
