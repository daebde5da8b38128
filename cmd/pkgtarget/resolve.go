// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"

	"github.com/invowk/pkgtarget/internal/issue"
	"github.com/invowk/pkgtarget/pkg/manifest"
	"github.com/invowk/pkgtarget/pkg/target"
	"github.com/invowk/pkgtarget/pkg/types"
	"github.com/invowk/pkgtarget/pkg/variant"

	"github.com/spf13/cobra"
)

// resolveReport is the machine-readable form of 'pkgtarget resolve'.
type resolveReport struct {
	Name    string          `json:"name"`
	Version string          `json:"version,omitempty"`
	Target  string          `json:"target,omitempty"`
	Variant variant.Variant `json:"variant"`
}

func newResolveCommand(app *App) *cobra.Command {
	var (
		targetFlag string
		force      bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "resolve MANIFEST",
		Short: "Pick the variant of a package that fits this machine",
		Long: `Pick the variant of a package that fits this machine.

MANIFEST is a CUE, JSON, TOML or YAML package manifest. Its assets are tried
in declaration order against the default target of this machine, or against
--target when given. Exits with status 2 when no variant fits.`,
		Example: `  pkgtarget resolve ripgrep.cue
  pkgtarget resolve ripgrep.yaml --target linux_arm64 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			m, err := manifest.Load(path)
			if err != nil {
				return manifestError(path, err)
			}

			e, err := app.resolveEngine()
			if err != nil {
				return err
			}

			opts := variant.Options{Target: targetFlag, Force: force}
			if opts.Target == "" {
				opts.Target = app.cfg.Target
			}

			selected, err := e.Resolve(m.Assets, opts)
			if err != nil {
				return resolveError(path, m.Name, err)
			}

			report := resolveReport{Name: m.Name, Version: m.Version, Target: opts.Target, Variant: selected}
			if report.Target == "" {
				if id, err := e.DefaultTarget(); err == nil {
					report.Target = id.String()
				}
			}

			if asJSON {
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			renderResolveReport(app.stdout, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetFlag, "target", "", "explicit target to resolve for (overrides config)")
	cmd.Flags().BoolVar(&force, "force", false, "carried to the installer; does not change which variant is picked")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the selection as JSON")
	return cmd
}

func manifestError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("load manifest").
		WithResource(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		ctx.WithIssue(issue.ManifestNotFoundId).
			WithSuggestion("Verify the manifest path is correct")
	case errors.Is(err, manifest.ErrUnsupportedFormat):
		ctx.WithIssue(issue.ManifestNotFoundId).
			WithSuggestion("Use a .cue, .json, .toml, .yaml or .yml file")
	default:
		ctx.WithIssue(issue.ManifestParseErrorId).
			WithSuggestion("Check that every asset target is os[_arch[_env]] with non-empty components")
	}
	return &ExitError{Code: types.ExitFailure, Err: ctx.Wrap(err).BuildError()}
}

func resolveError(path, name string, err error) error {
	switch {
	case errors.Is(err, variant.ErrPlatformUnsupported):
		return &ExitError{
			Code: types.ExitUnsupported,
			Err: issue.NewErrorContext().
				WithOperation("resolve "+name).
				WithResource(path).
				WithIssue(issue.PlatformUnsupportedId).
				WithSuggestion("Run 'pkgtarget detect' to inspect this machine").
				WithSuggestion("Pass --target to request a specific variant").
				Wrap(err).
				BuildError(),
		}
	case errors.Is(err, target.ErrInvalidTarget):
		return &ExitError{
			Code: types.ExitFailure,
			Err: issue.NewErrorContext().
				WithOperation("resolve "+name).
				WithIssue(issue.InvalidTargetId).
				WithSuggestion("Write targets as os[_arch[_env]], e.g. linux_x64_musl").
				Wrap(err).
				BuildError(),
		}
	default:
		return err
	}
}

func renderResolveReport(w io.Writer, r resolveReport) {
	title := r.Name
	if r.Version != "" {
		title += " " + r.Version
	}
	fmt.Fprintln(w, TitleStyle.Render(title))

	declared := "(any)"
	if !r.Variant.Untargeted() {
		declared = strings.Join(r.Variant.Targets, ", ")
	}
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(fmt.Sprintf("%-10s", "target:")), r.Target)
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(fmt.Sprintf("%-10s", "selected:")), SuccessStyle.Render(declared))

	keys := make([]string, 0, len(r.Variant.Payload))
	for k := range r.Variant.Payload {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s %v\n", KeyStyle.Render(fmt.Sprintf("%-10s", k+":")), r.Variant.Payload[k])
	}
}
