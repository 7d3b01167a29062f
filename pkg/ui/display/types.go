// Package display holds the view models rendered by the ui renderers.
// They are plain data with JSON tags so every output format shares them.
package display

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/modplan/pkg/types"
)

// Placer kinds reported in PlanResult
const (
	PlacerSubdir  = "subdir"
	PlacerExtract = "extract"
)

// PlanResult is the outcome of planning (and optionally applying) one package
type PlanResult struct {
	Game     string            `json:"game"`
	Loader   string            `json:"loader"`
	Package  string            `json:"package"`
	Placer   string            `json:"placer"`
	Entries  []types.PlanEntry `json:"entries"`
	Warnings []types.Warning   `json:"warnings,omitempty"`
	Applied  *ApplyResult      `json:"applied,omitempty"`
}

// ApplyResult summarises an executed plan
type ApplyResult struct {
	Profile   string   `json:"profile"`
	Written   []string `json:"written"`
	Preserved []string `json:"preserved,omitempty"`
}

// GameList is the registry listing
type GameList struct {
	Games []GameRow `json:"games"`
}

// GameRow is one registry entry
type GameRow struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Loader string `json:"loader"`
}

// RuleRow describes one subdirectory rule
type RuleRow struct {
	Name      string `json:"name"`
	Target    string `json:"target"`
	Layout    string `json:"layout"`
	Tracking  string `json:"tracking"`
	Mutable   bool   `json:"mutable,omitempty"`
	Extension string `json:"extension,omitempty"`
	// PerPackage is set when each package gets its own directory
	PerPackage bool `json:"perPackage,omitempty"`
	Extra      bool `json:"extra,omitempty"`
	Default    bool `json:"default,omitempty"`
}

// NewRuleRow converts a rule for display
func NewRuleRow(r types.SubdirRule) RuleRow {
	return RuleRow{
		Name:      r.Name,
		Target:    r.Target,
		Layout:    r.Layout.String(),
		Tracking:  r.Tracking.String(),
		Mutable:   r.Mutable,
		Extension: r.Extension,
		// nested rules always separate packages
		PerPackage: r.PerPackage || r.Layout == types.LayoutNested,
	}
}

// LoaderInfo describes how a loader places packages for one game
type LoaderInfo struct {
	Game         string    `json:"game"`
	Loader       string    `json:"loader"`
	SelfPackage  string    `json:"selfPackage"`
	SelfFiles    []string  `json:"selfFiles"`
	Flatten      bool      `json:"flatten"`
	Rules        []RuleRow `json:"rules"`
	Ignored      []string  `json:"ignored,omitempty"`
	LogPath      string    `json:"logPath,omitempty"`
	ConfigDir    string    `json:"configDir"`
	ProxyLibrary string    `json:"proxyLibrary,omitempty"`
}

// Markdown renders the loader description as a markdown document
func (l *LoaderInfo) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", l.Loader)
	if l.Game != "" {
		fmt.Fprintf(&b, "Mod loader for **%s**.\n\n", l.Game)
	}

	b.WriteString("## Loader package\n\n")
	fmt.Fprintf(&b, "Recognised as `%s`", l.SelfPackage)
	if l.Flatten {
		b.WriteString(", top-level directory stripped on install")
	}
	b.WriteString(".\n\n")
	for _, f := range l.SelfFiles {
		fmt.Fprintf(&b, "- `%s`\n", f)
	}

	b.WriteString("\n## Mod packages\n\n")
	b.WriteString("| Directory | Target | Layout | Tracking | Notes |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, r := range l.Rules {
		name := r.Name
		if name == "" {
			name = "*"
		}
		fmt.Fprintf(&b, "| `%s` | `%s` | %s | %s | %s |\n", name, r.Target, r.Layout, r.Tracking, ruleNotes(r))
	}

	if len(l.Ignored) > 0 {
		fmt.Fprintf(&b, "\nIgnored: %s\n", codeList(l.Ignored))
	}

	b.WriteString("\n## Paths\n\n")
	fmt.Fprintf(&b, "- Config directory: `%s`\n", l.ConfigDir)
	if l.LogPath != "" {
		fmt.Fprintf(&b, "- Log file: `%s`\n", l.LogPath)
	}
	if l.ProxyLibrary != "" {
		fmt.Fprintf(&b, "- Proxy library: `%s`\n", l.ProxyLibrary)
	}

	return b.String()
}

func ruleNotes(r RuleRow) string {
	var notes []string
	if r.Default {
		notes = append(notes, "default")
	}
	if r.Extra {
		notes = append(notes, "registry")
	}
	if r.PerPackage {
		notes = append(notes, "one directory per package")
	}
	if r.Mutable {
		notes = append(notes, "user-editable")
	}
	if r.Extension != "" {
		notes = append(notes, "only `*"+r.Extension+"`")
	}
	return strings.Join(notes, ", ")
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}
