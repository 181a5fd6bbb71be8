// Package docurl derives Palo Alto Networks release-notes URLs from PAN-OS
// version strings.
package docurl

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/grovetools/panos-eol/pkg/version"
)

// DefaultBaseURL is the documentation host used when none is configured.
const DefaultBaseURL = "https://docs.paloaltonetworks.com"

// template renders the path for one range of release cycles.
type template struct {
	constraint *semver.Constraints
	render     func(p parts) string
}

// parts holds the dashed forms of a version used in URL paths.
type parts struct {
	cycle string // 12-1
	base  string // 12-1-4
	full  string // 12-1-4-h2
}

// Cycles before 8.1 link to PDFs that cannot be derived from the version.
var templates = []template{
	{
		constraint: mustConstraint(">= 12.1"),
		render: func(p parts) string {
			return fmt.Sprintf("/ngfw/release-notes/%s/pan-os-%s-known-and-addressed-issues/pan-os-%s-addressed-issues",
				p.cycle, p.base, p.full)
		},
	},
	{
		constraint: mustConstraint(">= 10.1, < 12.1"),
		render: func(p parts) string {
			return fmt.Sprintf("/pan-os/%s/pan-os-release-notes/pan-os-%s-known-and-addressed-issues/pan-os-%s-addressed-issues",
				p.cycle, p.base, p.full)
		},
	},
	{
		constraint: mustConstraint(">= 8.1, < 10.1"),
		render: func(p parts) string {
			return fmt.Sprintf("/pan-os/%s/pan-os-release-notes/pan-os-%s-addressed-issues/pan-os-%s-addressed-issues",
				p.cycle, p.cycle, p.full)
		},
	},
}

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(fmt.Sprintf("docurl: invalid constraint %q: %v", s, err))
	}
	return c
}

// Builder builds release-notes URLs rooted at BaseURL.
type Builder struct {
	BaseURL string
}

// New returns a Builder for baseURL, falling back to DefaultBaseURL when
// baseURL is empty.
func New(baseURL string) *Builder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Builder{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Build returns the addressed-issues URL for v. The second result is false
// when no URL can be derived, either because v has no release cycle or
// because its cycle predates 8.1.
func (b *Builder) Build(v string) (string, bool) {
	cycle, ok := version.ReleaseCycle(v)
	if !ok {
		return "", false
	}
	cycleVersion, err := semver.NewVersion(cycle)
	if err != nil {
		return "", false
	}

	base, hotfix, hasHotfix := strings.Cut(v, "-")
	p := parts{
		cycle: strings.ReplaceAll(cycle, ".", "-"),
		base:  strings.ReplaceAll(base, ".", "-"),
	}
	p.full = p.base
	if hasHotfix {
		// Only the first suffix segment is a hotfix, e.g. "h2".
		hotfix, _, _ = strings.Cut(hotfix, "-")
		p.full = p.base + "-" + hotfix
	}

	for _, t := range templates {
		if t.constraint.Check(cycleVersion) {
			return b.root() + t.render(p), true
		}
	}
	return "", false
}

func (b *Builder) root() string {
	if b.BaseURL == "" {
		return DefaultBaseURL
	}
	return b.BaseURL
}
