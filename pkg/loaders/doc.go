// Package loaders holds the static catalog of supported mod loaders and
// decides, for each install, which placer governs a package.
//
// A Descriptor combines a Variant with the per-game fields found in the
// game registry (extra subdirs, a runtime file list, a self-package id
// override). Resolve maps every (variant, is-self-package) pair to exactly
// one placer:
//
//	placer := loaders.Resolve(desc, "BepInEx-BepInExPack")
//	plan := placer.Plan(pkg)
//
// The catalog and every other per-variant lookup are plain switches over
// Variant; adding a loader means adding a case to each of them.
package loaders
