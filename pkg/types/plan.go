package types

import "github.com/rs/zerolog"

// PlanEntry maps one package file to its destination in the profile
type PlanEntry struct {
	// Source is the slash path relative to the package root.
	Source string `json:"source"`
	// Destination is the slash path relative to the profile root.
	Destination string `json:"destination"`
	// Tracked files may be replaced or removed by later updates.
	Tracked bool `json:"tracked"`
	// Preserve forbids overwriting a file already at Destination.
	Preserve bool `json:"preserve,omitempty"`
}

// Warning reports a top-level entry that no rule could place
type Warning struct {
	Entry  string `json:"entry"`
	Reason string `json:"reason"`
}

// Plan is the placement computed for a single install
type Plan struct {
	Entries  []PlanEntry `json:"entries"`
	Warnings []Warning   `json:"warnings,omitempty"`
}

// Add appends an entry to the plan
func (p *Plan) Add(source, destination string, tracked, preserve bool) {
	p.Entries = append(p.Entries, PlanEntry{
		Source:      source,
		Destination: destination,
		Tracked:     tracked,
		Preserve:    preserve,
	})
}

// Warn records an unroutable top-level entry
func (p *Plan) Warn(entry, reason string) {
	p.Warnings = append(p.Warnings, Warning{Entry: entry, Reason: reason})
}

// IsEmpty reports whether the plan places nothing
func (p *Plan) IsEmpty() bool {
	return len(p.Entries) == 0
}

// Destinations returns the destination of every entry, in plan order
func (p *Plan) Destinations() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Destination
	}
	return out
}

// TrackedDestinations returns the destinations the manager owns
func (p *Plan) TrackedDestinations() []string {
	var out []string
	for _, e := range p.Entries {
		if e.Tracked {
			out = append(out, e.Destination)
		}
	}
	return out
}

// LogWarnings writes each unroutable entry to the logger at warn level
func (p *Plan) LogWarnings(logger zerolog.Logger, packageID string) {
	for _, w := range p.Warnings {
		logger.Warn().
			Str("package", packageID).
			Str("entry", w.Entry).
			Str("reason", w.Reason).
			Msg("Skipped unroutable package entry")
	}
}
