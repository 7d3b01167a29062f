// Package config handles configuration management for modplan.
//
// Two kinds of configuration live here. Settings control the tool itself
// and are layered from embedded defaults, an optional user file under the
// XDG config directory, MODPLAN_* environment variables and command line
// flags. The game registry maps game slugs to mod loader descriptors; the
// embedded registry is merged with user registry files by slug and every
// descriptor is validated as it is loaded, so a bad registry entry fails
// before any placement plan is computed.
package config
