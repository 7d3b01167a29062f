package loaders

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/modplan/pkg/placers"
	"github.com/arthur-debert/modplan/pkg/types"
)

// identity recognises a loader's own package by its "<namespace>-<name>"
type identity struct {
	exact  []string
	prefix string
}

func (i identity) matches(packageID string) bool {
	if i.prefix != "" && strings.HasPrefix(packageID, i.prefix) {
		return true
	}
	for _, id := range i.exact {
		if packageID == id {
			return true
		}
	}
	return false
}

// entry is the compiled-in configuration of one loader
type entry struct {
	identity identity

	// ordinary mods
	rules       []types.SubdirRule
	defaultRule int
	ignored     []string

	// the loader's own package
	selfFiles []string
	flatten   bool
}

var (
	packageMetadata = []string{"manifest.json", "icon.png", "README.md", "CHANGELOG.md", "LICENSE"}
	melonMetadata   = []string{"manifest.json", "icon.png", "README.md"}
	northMetadata   = []string{"manifest.json", "icon.png", "README.md", "LICENSE"}
)

// catalog returns a freshly allocated entry for v, so callers own every
// slice they receive.
func catalog(v Variant) entry {
	switch v {
	case BepInEx:
		return entry{
			identity: identity{prefix: "BepInEx-BepInExPack"},
			rules: []types.SubdirRule{
				types.SeparatedRule("plugins", "BepInEx/plugins"),
				types.SeparatedRule("patchers", "BepInEx/patchers"),
				types.SeparatedRule("monomod", "BepInEx/monomod").WithExtension(".mm.dll"),
				types.SeparatedRule("core", "BepInEx/core"),
				types.UntrackedRule("config", "BepInEx/config").AsMutable(),
			},
			defaultRule: 0,
			ignored:     clone(packageMetadata),
			selfFiles:   []string{"BepInEx", "winhttp.dll", "doorstop_config.ini", ".doorstop_version", "changelog.txt"},
			flatten:     true,
		}

	case BepisLoader:
		// Renderer content goes only to the renderer process, regular
		// plugins only to the main one.
		return entry{
			identity: identity{exact: []string{"ResoniteModding-BepisLoader", "ResoniteModding-BepInExRenderer"}},
			rules: []types.SubdirRule{
				types.SeparatedRule("Renderer", "Renderer/BepInEx/plugins"),
				types.SeparatedRule("plugins", "BepInEx/plugins"),
				types.SeparatedRule("patchers", "BepInEx/patchers"),
				types.SeparatedRule("monomod", "BepInEx/monomod").WithExtension(".mm.dll"),
				types.SeparatedRule("core", "BepInEx/core"),
				types.UntrackedRule("config", "BepInEx/config").AsMutable(),
			},
			defaultRule: 1,
			ignored:     clone(packageMetadata),
			selfFiles:   []string{"BepInEx", "Renderer", "hookfxr.ini", "winhttp.dll", "doorstop_config.ini", ".doorstop_version"},
			flatten:     false,
		}

	case MelonLoader:
		return entry{
			identity: identity{exact: []string{"LavaGang-MelonLoader"}},
			rules: []types.SubdirRule{
				types.FlatRule("UserLibs", "UserLibs").WithExtension(".lib.dll"),
				types.FlatRule("Managed", "MelonLoader/Managed").WithExtension(".managed.dll"),
				types.FlatRule("Mods", "Mods").WithExtension(".dll"),
				types.NestedRule("ModManager", "UserData/ModManager"),
				types.FlatRule("MelonLoader", "MelonLoader"),
				types.FlatRule("Libs", "MelonLoader/Libs"),
			},
			defaultRule: 2,
			ignored:     clone(melonMetadata),
			selfFiles: []string{
				"dobby.dll",
				"version.dll",
				"MelonLoader/Dependencies",
				"MelonLoader/Documentation",
				"MelonLoader/net6",
				"MelonLoader/net35",
			},
			flatten: false,
		}

	case Northstar:
		return entry{
			identity: identity{exact: []string{"northstar-Northstar"}},
			rules: []types.SubdirRule{
				types.FlatRule("mods", "R2Northstar/mods"),
			},
			defaultRule: placers.NoDefault,
			ignored:     clone(northMetadata),
			selfFiles: []string{
				"Northstar.dll",
				"NorthstarLauncher.exe",
				"r2ds.bat",
				"bin",
				"R2Northstar/plugins",
				"R2Northstar/mods/Northstar.Client",
				"R2Northstar/mods/Northstar.Custom",
				"R2Northstar/mods/Northstar.CustomServers",
				"R2Northstar/mods/md5sum.text",
			},
			flatten: true,
		}

	case GDWeave:
		return entry{
			identity: identity{exact: []string{"NotNet-GDWeave"}},
			rules: []types.SubdirRule{
				types.FlatRule("GDWeave", "GDWeave"),
				types.UntrackedRule("configs", "GDWeave/configs").AsMutable(),
				types.NestedRule("", "GDWeave/mods"),
			},
			defaultRule: 2,
			ignored:     clone(packageMetadata),
			selfFiles:   []string{"winmm.dll", "GDWeave/core"},
			flatten:     false,
		}

	case Shimloader:
		return entry{
			identity: identity{exact: []string{"Thunderstore-unreal_shimloader"}},
			rules: []types.SubdirRule{
				types.SeparatedRule("mod", "shimloader/mod"),
				types.SeparatedRule("pak", "shimloader/pak"),
				types.UntrackedRule("cfg", "shimloader/cfg").AsMutable(),
			},
			defaultRule: 0,
			ignored:     clone(packageMetadata),
			selfFiles:   []string{"dwmapi.dll", "UE4SS.dll", "UE4SS-settings.ini", "shimloader"},
			flatten:     false,
		}

	case Lovely:
		return entry{
			identity: identity{exact: []string{"Thunderstore-lovely"}},
			rules: []types.SubdirRule{
				types.NestedRule("", "mods"),
			},
			defaultRule: 0,
			ignored:     clone(packageMetadata),
			selfFiles:   []string{"version.dll"},
			flatten:     false,
		}

	case ReturnOfModding:
		// selfFiles come from the registry, see Descriptor.FixedFiles
		return entry{
			identity: identity{exact: []string{"ReturnOfModding-ReturnOfModding"}},
			rules: []types.SubdirRule{
				types.NestedRule("plugins", "ReturnOfModding/plugins"),
				types.NestedRule("plugins_data", "ReturnOfModding/plugins_data"),
				types.NestedRule("config", "ReturnOfModding/config").AsMutable(),
			},
			defaultRule: 0,
			ignored:     clone(packageMetadata),
			flatten:     true,
		}
	}

	panic(fmt.Sprintf("loaders: no catalog entry for %v", v))
}

// BuiltinRules returns the compiled-in rules for ordinary mods of v
func BuiltinRules(v Variant) []types.SubdirRule {
	return catalog(v).rules
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
