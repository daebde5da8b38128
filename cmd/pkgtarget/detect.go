// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/invowk/pkgtarget/pkg/engine"
	"github.com/invowk/pkgtarget/pkg/platform"

	"github.com/spf13/cobra"
)

// detectReport is the machine-readable form of 'pkgtarget detect'.
type detectReport struct {
	Snapshot      platform.Snapshot `json:"snapshot"`
	Priority      []platform.Family `json:"priority"`
	DefaultTarget string            `json:"default_target,omitempty"`
	CompatActive  bool              `json:"compat_active"`
}

func newDetectCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Show the capabilities of this machine",
		Long: `Show the capabilities of this machine: OS family, architecture, C library,
Linux compatibility layer, the family priority order used for resolution and
the default target derived from them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := app.resolveEngine()
			if err != nil {
				return err
			}
			report := newDetectReport(e)
			if asJSON {
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			renderDetectReport(app.stdout, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newDetectReport(e *engine.Engine) detectReport {
	report := detectReport{
		Snapshot:     e.Snapshot(),
		Priority:     e.Priority(),
		CompatActive: e.CompatActive(),
	}
	if id, err := e.DefaultTarget(); err == nil {
		report.DefaultTarget = id.String()
	}
	return report
}

func renderDetectReport(w io.Writer, r detectReport) {
	snap := r.Snapshot
	line := func(key, value string) {
		fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(fmt.Sprintf("%-15s", key+":")), value)
	}

	fmt.Fprintln(w, TitleStyle.Render("Host capabilities"))

	family := string(snap.Family)
	if family == "" {
		family = SubtitleStyle.Render("(unknown: " + snap.RawOS + ")")
	}
	line("family", family)
	line("arch", fmt.Sprintf("%s %s", snap.Arch, SubtitleStyle.Render("("+snap.RawArch+")")))
	line("libc", string(snap.Libc))
	if snap.Sandbox != platform.SandboxNone {
		line("sandbox", string(snap.Sandbox))
	}
	line("compat", describeCompat(snap.Compat, r.CompatActive))

	priority := make([]string, len(r.Priority))
	for i, f := range r.Priority {
		priority[i] = string(f)
	}
	line("priority", strings.Join(priority, " > "))

	if r.DefaultTarget != "" {
		line("default target", SuccessStyle.Render(r.DefaultTarget))
	} else {
		line("default target", ErrorStyle.Render("(none)"))
	}
}

func describeCompat(c platform.CompatLayer, active bool) string {
	if !c.Available {
		return SubtitleStyle.Render("not present")
	}

	root := c.Root
	if c.DistroID != "" && c.DistroID != platform.DistroUnknown {
		root += " (" + c.DistroID + ")"
	}
	parts := []string{root}
	if c.Functional {
		parts = append(parts, "functional")
	} else {
		parts = append(parts, WarningStyle.Render("not functional"))
	}
	if active {
		parts = append(parts, SuccessStyle.Render("active"))
	} else {
		parts = append(parts, SubtitleStyle.Render("inactive"))
	}
	return strings.Join(parts, ", ")
}
