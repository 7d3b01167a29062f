// Package placers turns a package listing into a placement plan.
//
// Two strategies exist. SubdirPlacer routes the top-level entries of an
// ordinary content mod through an ordered list of rules; ExtractionPlacer
// copies a fixed allow-list of paths for a loader's own package. Which one
// governs an install is decided once by loaders.Resolve and never mixed.
//
// Placers do not touch the filesystem. They are safe for concurrent use
// once constructed.
package placers
