package loaders

import (
	"github.com/arthur-debert/modplan/pkg/placers"
	"github.com/arthur-debert/modplan/pkg/types"
)

// IsSelfPackage reports whether packageID is the loader's own package
func (d Descriptor) IsSelfPackage(packageID string) bool {
	if d.SelfPackageID != "" {
		return packageID == d.SelfPackageID
	}
	return catalog(d.Variant).identity.matches(packageID)
}

// SelfPackage returns the package id recognised as the loader itself,
// or the common prefix of its ids for loaders matched by prefix.
func (d Descriptor) SelfPackage() string {
	if d.SelfPackageID != "" {
		return d.SelfPackageID
	}
	id := catalog(d.Variant).identity
	if len(id.exact) > 0 {
		return id.exact[0]
	}
	return id.prefix
}

// Resolve picks the placer governing the install of packageID. The
// loader's own package is extracted from its allow-list; anything else
// is routed through the loader's rules with the registry extras appended.
func Resolve(d Descriptor, packageID string) placers.Placer {
	if d.IsSelfPackage(packageID) {
		return SelfPlacer(d)
	}
	return ModPlacer(d)
}

// SelfPlacer returns the placer used for the loader's own package
func SelfPlacer(d Descriptor) *placers.ExtractionPlacer {
	e := catalog(d.Variant)
	files := e.selfFiles
	if d.Variant.DeclaresFiles() {
		files = d.FixedFiles
	}
	return placers.NewExtractionPlacer(files, e.flatten)
}

// ModPlacer returns the placer used for every package other than the
// loader itself.
func ModPlacer(d Descriptor) *placers.SubdirPlacer {
	e := catalog(d.Variant)

	var extras []types.SubdirRule
	if d.Variant.SupportsExtraSubdirs() {
		extras = d.ExtraSubdirs
	}

	return placers.NewSubdirPlacer(e.rules).
		WithExtras(extras).
		WithDefault(e.defaultRule).
		WithIgnored(e.ignored...)
}
