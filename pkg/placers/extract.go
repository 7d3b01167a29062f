package placers

import (
	"path"
	"strings"

	"github.com/arthur-debert/modplan/pkg/logging"
	"github.com/arthur-debert/modplan/pkg/types"
	"github.com/rs/zerolog"
)

// ExtractionPlacer installs a mod loader's own package by copying an
// allow-list of paths into the game root.
type ExtractionPlacer struct {
	files   []string
	flatten bool
	logger  zerolog.Logger
}

// NewExtractionPlacer creates a placer owning a copy of files. With
// flatten set the package is expected to wrap its payload in a single
// top-level directory, which is stripped before matching.
func NewExtractionPlacer(files []string, flatten bool) *ExtractionPlacer {
	return &ExtractionPlacer{
		files:   append([]string(nil), files...),
		flatten: flatten,
		logger:  logging.GetLogger("placers.extract"),
	}
}

// Files returns a copy of the allow-list
func (p *ExtractionPlacer) Files() []string {
	return append([]string(nil), p.files...)
}

// Flatten reports whether the wrapping directory is stripped
func (p *ExtractionPlacer) Flatten() bool {
	return p.flatten
}

type candidate struct {
	source string
	rel    string
}

// Plan computes the placement of every allow-listed path present in pkg.
// Missing paths are skipped.
func (p *ExtractionPlacer) Plan(pkg types.Package) *types.Plan {
	plan := &types.Plan{}

	var candidates []candidate
	for _, source := range pkg.Paths() {
		rel := source
		if p.flatten {
			_, rest, nested := strings.Cut(source, "/")
			if !nested {
				// root-level files sit beside the wrapper, not in it
				continue
			}
			rel = rest
		}
		candidates = append(candidates, candidate{source: source, rel: rel})
	}

	placed := make(map[string]bool)
	for _, allowed := range p.files {
		allowed = strings.Trim(path.Clean(allowed), "/")
		found := false

		for _, c := range candidates {
			if c.rel != allowed && !strings.HasPrefix(c.rel, allowed+"/") {
				continue
			}
			found = true
			if placed[c.source] {
				continue
			}
			placed[c.source] = true
			plan.Add(c.source, c.rel, true, false)
		}

		if !found {
			p.logger.Debug().
				Str("package", pkg.ID).
				Str("path", allowed).
				Msg("Allow-listed path not present in package")
		}
	}

	p.logger.Debug().
		Str("package", pkg.ID).
		Int("placed", len(plan.Entries)).
		Bool("flatten", p.flatten).
		Msg("Planned loader installation")

	return plan
}
