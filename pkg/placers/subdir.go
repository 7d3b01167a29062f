package placers

import (
	"fmt"
	"path"
	"strings"

	"github.com/arthur-debert/modplan/pkg/logging"
	"github.com/arthur-debert/modplan/pkg/types"
	"github.com/rs/zerolog"
)

// NoDefault marks a SubdirPlacer without a catch-all rule
const NoDefault = -1

// ReasonNoRule is the warning reason for entries no rule could place
const ReasonNoRule = "no rule matches this entry and no default rule is configured"

// SubdirPlacer places ordinary content mods by matching their top-level
// entries against an ordered rule list.
type SubdirPlacer struct {
	rules       []types.SubdirRule
	defaultRule int
	ignored     []string
	logger      zerolog.Logger
}

// NewSubdirPlacer creates a placer owning a copy of rules
func NewSubdirPlacer(rules []types.SubdirRule) *SubdirPlacer {
	return &SubdirPlacer{
		rules:       append([]types.SubdirRule(nil), rules...),
		defaultRule: NoDefault,
		logger:      logging.GetLogger("placers.subdir"),
	}
}

// WithDefault routes unmatched entries through the rule at index.
// It panics when index does not name a rule; defaults come from the
// compiled-in catalog, never from user data.
func (p *SubdirPlacer) WithDefault(index int) *SubdirPlacer {
	if index != NoDefault && (index < 0 || index >= len(p.rules)) {
		panic(fmt.Sprintf("placers: default rule %d out of range (%d rules)", index, len(p.rules)))
	}
	p.defaultRule = index
	return p
}

// WithExtras appends rules after the existing ones, so they only match
// names the earlier rules did not claim.
func (p *SubdirPlacer) WithExtras(extras []types.SubdirRule) *SubdirPlacer {
	p.rules = append(p.rules, extras...)
	return p
}

// WithIgnored drops top-level entries with these names before matching
func (p *SubdirPlacer) WithIgnored(names ...string) *SubdirPlacer {
	p.ignored = append(p.ignored, names...)
	return p
}

// Rules returns a copy of the effective rule list
func (p *SubdirPlacer) Rules() []types.SubdirRule {
	return append([]types.SubdirRule(nil), p.rules...)
}

// Default returns the default rule index and whether one is set
func (p *SubdirPlacer) Default() (int, bool) {
	return p.defaultRule, p.defaultRule != NoDefault
}

// Ignored returns a copy of the ignored file names
func (p *SubdirPlacer) Ignored() []string {
	return append([]string(nil), p.ignored...)
}

// Plan computes the placement of every top-level entry of pkg
func (p *SubdirPlacer) Plan(pkg types.Package) *types.Plan {
	plan := &types.Plan{}

	p.logger.Debug().
		Str("package", pkg.ID).
		Int("entries", len(pkg.Entries)).
		Int("rules", len(p.rules)).
		Msg("Planning package placement")

	for _, entry := range pkg.Entries {
		if p.isIgnored(entry.Name) {
			p.logger.Trace().Str("entry", entry.Name).Msg("Ignoring package metadata")
			continue
		}

		rule, matched, ok := p.route(entry.Name)
		if !ok {
			p.logger.Debug().Str("entry", entry.Name).Msg("No rule for entry")
			plan.Warn(entry.Name, ReasonNoRule)
			continue
		}

		p.logger.Trace().
			Str("entry", entry.Name).
			Str("rule", rule.Name).
			Bool("explicit", matched).
			Msg("Entry routed")

		p.placeEntry(plan, pkg.ID, entry, rule, matched)
	}

	return plan
}

// route finds the rule for a top-level name. matched is false when the
// default rule was used.
func (p *SubdirPlacer) route(name string) (rule types.SubdirRule, matched bool, ok bool) {
	for _, r := range p.rules {
		if r.Matches(name) {
			return r, true, true
		}
	}
	if p.defaultRule != NoDefault {
		return p.rules[p.defaultRule], false, true
	}
	return types.SubdirRule{}, false, false
}

func (p *SubdirPlacer) placeEntry(plan *types.Plan, packageID string, entry types.Entry, rule types.SubdirRule, matched bool) {
	tracked := rule.Tracking == types.Tracked
	base := rule.Base(packageID)

	if !entry.IsDir {
		if !rule.Accepts(entry.Name) {
			return
		}
		// a top-level file is its own segment, so it keeps its name
		plan.Add(entry.Name, path.Join(base, entry.Name), tracked, rule.Mutable)
		return
	}

	for _, file := range entry.Files {
		if !rule.Accepts(path.Base(file)) {
			continue
		}
		dest := path.Join(base, entry.Name, file)
		if matched && rule.Layout == types.LayoutFlat {
			dest = path.Join(base, file)
		}
		plan.Add(path.Join(entry.Name, file), dest, tracked, rule.Mutable)
	}
}

func (p *SubdirPlacer) isIgnored(name string) bool {
	for _, ignored := range p.ignored {
		if strings.EqualFold(ignored, name) {
			return true
		}
	}
	return false
}
