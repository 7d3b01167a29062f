// Package testutil provides utilities for testing modplan components.
//
// TestEnvironment gives each test its own package cache, profiles
// directory and XDG base directories, either in memory (EnvMemoryOnly)
// or on the real filesystem under a temp directory (EnvIsolated).
//
// Usage guidelines:
//   - prefer EnvMemoryOnly; use EnvIsolated only for code that opens
//     real files, such as the commands and the config loaders
//   - define package contents inline with SetupPackage
package testutil
