// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PlatformUnsupportedId Id = iota + 1
	ManifestNotFoundId
	ManifestParseErrorId
	ConfigLoadFailedId
	InvalidTargetId
	CompatLayerUnavailableId
	UnsatisfiedTargetId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	platformUnsupportedIssue = &Issue{
		id: PlatformUnsupportedId,
		mdMsg: `
# No compatible distribution found!

None of the package's variants can run on this machine.

## Things you can try:
- Check which targets the package declares and compare them with your host:
~~~
$ pkgtarget detect
~~~

- Request a specific variant explicitly:
~~~
$ pkgtarget resolve manifest.cue --target linux_x64
~~~

- On FreeBSD or NetBSD, enable the Linux compatibility layer so that
  Linux variants become eligible:
~~~cue
compat: enabled: true
~~~`,
		extLinks: []HttpLink{"https://docs.freebsd.org/en/books/handbook/linuxemu/"},
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# Manifest not found!

The package manifest could not be read.

## Things you can try:
- Verify the path passed to 'pkgtarget resolve'
- Use one of the supported extensions: .cue, .json, .toml, .yaml, .yml`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse manifest!

The package manifest has syntax errors or does not match the manifest schema.

## Common issues:
- A declared target has an empty component (e.g. "linux__gnu")
- A target has more than three components
- 'assets' is neither a single asset nor a non-empty list

## Example manifest:
~~~cue
name: "ripgrep"
version: "14.1.0"
assets: [
  {target: "linux_x64_gnu", url: "https://example.com/rg-linux-gnu.tar.gz"},
  {target: "linux_x64_musl", url: "https://example.com/rg-linux-musl.tar.gz"},
  {target: "mac_arm64", url: "https://example.com/rg-macos.tar.gz"},
  {target: ["win_x64", "win_arm64"], url: "https://example.com/rg.zip"},
]
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your pkgtarget configuration file could not be loaded.

## Things you can try:
- Check the config file syntax:
~~~
$ pkgtarget config path
$ cat "$(pkgtarget config path)"
~~~

- Look for PKGTARGET_* environment variables that override it:
~~~
$ env | grep PKGTARGET_
~~~

- Start from the default configuration:
~~~
$ pkgtarget config init
~~~`,
	}

	invalidTargetIssue = &Issue{
		id: InvalidTargetId,
		mdMsg: `
# Invalid target!

A target is written as OS, OS_ARCH or OS_ARCH_ENV with non-empty components.

## Examples:
- linux
- linux_x64
- linux_arm64_musl
- freebsd_x64
- unix`,
	}

	compatLayerUnavailableIssue = &Issue{
		id: CompatLayerUnavailableId,
		mdMsg: `
# Linux compatibility layer unavailable!

This BSD host has no working Linux userland, so Linux variants are not eligible.

## Things you can try:
- On FreeBSD, load the Linux ABI and install a userland:
~~~
# sysrc linux_enable="YES"
# service linux start
# pkg install linux_base-rl9
~~~

- If the userland lives elsewhere, point pkgtarget at it:
~~~cue
compat: roots: ["/compat/ubuntu"]
~~~`,
		extLinks: []HttpLink{"https://docs.freebsd.org/en/books/handbook/linuxemu/"},
	}

	unsatisfiedTargetIssue = &Issue{
		id: UnsatisfiedTargetId,
		mdMsg: `
# Target not satisfied!

This machine cannot run artifacts built for one or more of the given targets.

## Things you can try:
- Inspect the host capabilities:
~~~
$ pkgtarget detect
~~~

- Check the priority order of the platform families:
~~~
$ pkgtarget detect --json
~~~`,
	}

	issues = map[Id]*Issue{
		platformUnsupportedIssue.Id():    platformUnsupportedIssue,
		manifestNotFoundIssue.Id():       manifestNotFoundIssue,
		manifestParseErrorIssue.Id():     manifestParseErrorIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		invalidTargetIssue.Id():          invalidTargetIssue,
		compatLayerUnavailableIssue.Id(): compatLayerUnavailableIssue,
		unsatisfiedTargetIssue.Id():      unsatisfiedTargetIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
