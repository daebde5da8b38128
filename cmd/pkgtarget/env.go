// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"log/slog"
	"os"

	"github.com/invowk/pkgtarget/internal/issue"
	"github.com/invowk/pkgtarget/internal/shellenv"

	"github.com/spf13/cobra"
)

func newEnvCommand(app *App) *cobra.Command {
	var quote bool

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print environment exports for the Linux compatibility layer",
		Long: `Print the environment changes that put the Linux compatibility layer's
binaries on PATH. Nothing is printed when the compatibility policy is not
active on this machine.

With --shell-quote the output can be evaluated by a POSIX shell:

  eval "$(pkgtarget env --shell-quote)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := app.resolveEngine()
			if err != nil {
				return err
			}
			snap := e.Snapshot()
			exports := shellenv.CompatExports(snap, e.CompatActive(), os.Getenv(shellenv.PathVar))
			if len(exports) == 0 {
				if snap.Compat.Available {
					slog.Warn("compatibility layer present but not usable",
						"root", snap.Compat.Root, "functional", snap.Compat.Functional)
					if app.flags.verbose {
						app.renderIssue(app.stderr, issue.Get(issue.CompatLayerUnavailableId))
					}
					return nil
				}
				slog.Info("compatibility layer not active, nothing to export")
				return nil
			}
			return shellenv.Render(app.stdout, exports, quote)
		},
	}

	cmd.Flags().BoolVar(&quote, "shell-quote", false, "print quoted export statements for eval")
	return cmd
}
