// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/invowk/pkgtarget/internal/issue"
	"github.com/invowk/pkgtarget/pkg/target"
	"github.com/invowk/pkgtarget/pkg/types"

	"github.com/spf13/cobra"
)

func newSatisfiesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "satisfies TARGET...",
		Short: "Check whether this machine satisfies targets",
		Long: `Check whether artifacts built for each TARGET can run on this machine.

Exits with status 2 when any target is not satisfied.`,
		Example: `  pkgtarget satisfies linux_x64
  pkgtarget satisfies unix linux_x64_musl freebsd`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.resolveEngine()
			if err != nil {
				return err
			}

			unsatisfied := 0
			for _, t := range args {
				if _, err := target.Parse(t); err != nil {
					fmt.Fprintf(app.stdout, "%s %s %s\n", ErrorStyle.Render("✗"), t, SubtitleStyle.Render("(invalid target)"))
					unsatisfied++
					continue
				}
				if e.Satisfies(t) {
					fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), t)
					continue
				}
				fmt.Fprintf(app.stdout, "%s %s\n", ErrorStyle.Render("✗"), t)
				unsatisfied++
			}

			if unsatisfied > 0 {
				return &ExitError{Code: types.ExitUnsupported, Issue: issue.UnsatisfiedTargetId}
			}
			return nil
		},
	}
}
