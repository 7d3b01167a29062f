package placers

import "github.com/arthur-debert/modplan/pkg/types"

// Placer computes where the files of one package belong.
//
// The set of implementations is closed: SubdirPlacer and ExtractionPlacer.
type Placer interface {
	Plan(pkg types.Package) *types.Plan
	sealed()
}

func (*SubdirPlacer) sealed()     {}
func (*ExtractionPlacer) sealed() {}
