package modplan

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Plan where mod package files go for a game's mod loader"
	MsgPlanShort       = "Plan (and optionally apply) the install of a package"
	MsgRemoveShort     = "Remove a package's tracked files from a profile"
	MsgGamesShort      = "List the games in the registry"
	MsgLoaderShort     = "Describe how a game's mod loader places packages"
	MsgRegistryShort   = "Inspect the game registry"
	MsgDumpShort       = "Print the merged registry as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Status messages
	MsgRemovedFormat  = "Removed %d file(s) from %s"
	MsgNothingRemoved = "Nothing to remove from %s"

	// Error messages
	MsgErrNoCommand = "no command specified"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default $XDG_CONFIG_HOME/modplan/config.toml)"
	MsgFlagFormat   = "Output format: auto, term, text or json (default from output.format)"
	MsgFlagProfiles = "Directory holding the mod profiles"
	MsgFlagID       = "Package id (default: name of the package directory)"
	MsgFlagApply    = "Copy the planned files into the profile"
	MsgFlagProfile  = "Profile to install into"
	MsgFlagLoader   = "Only list games using this mod loader"
)

var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/plan-example.txt
	msgPlanExampleRaw string
	MsgPlanExample    = strings.TrimRight(msgPlanExampleRaw, "\n")

	//go:embed msgs/remove-long.txt
	msgRemoveLongRaw string
	MsgRemoveLong    = strings.TrimSpace(msgRemoveLongRaw)

	//go:embed msgs/registry-long.txt
	msgRegistryLongRaw string
	MsgRegistryLong    = strings.TrimSpace(msgRegistryLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
