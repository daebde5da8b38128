// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/invowk/pkgtarget/internal/installdir"

	"github.com/spf13/cobra"
)

func newPrefixCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prefix",
		Short: "Print the default installation prefix for this machine",
		Long: `Print the default installation prefix for this machine.

The prefix is chosen per platform family in priority order. Set
` + installdir.EnvOverride + ` to replace it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := app.resolveEngine()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, installdir.Prefix(e))
			return nil
		},
	}
}
