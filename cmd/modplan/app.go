package modplan

import (
	"path/filepath"

	"github.com/arthur-debert/modplan/internal/version"
	"github.com/arthur-debert/modplan/pkg/config"
	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/listing"
	"github.com/arthur-debert/modplan/pkg/loaders"
	"github.com/arthur-debert/modplan/pkg/logging"
	"github.com/arthur-debert/modplan/pkg/placers"
	"github.com/arthur-debert/modplan/pkg/types"
	"github.com/arthur-debert/modplan/pkg/ui"
	"github.com/arthur-debert/modplan/pkg/ui/display"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app carries global flag values and the state shared by subcommands
type app struct {
	fs afero.Fs

	verbosity    int
	configFile   string
	format       string
	profilesRoot string

	settings *config.Settings
}

// setup loads settings and configures logging before any subcommand runs
func (a *app) setup(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("profiles") {
		overrides["profiles.root"] = a.profilesRoot
	}

	s, err := config.Load(config.LoadOptions{ConfigFile: a.configFile, Overrides: overrides})
	if err != nil {
		logging.SetupLogger(a.verbosity)
		return err
	}
	a.settings = s

	logging.SetupLogger(a.verbosity + s.Logging.Verbosity)
	log.Debug().
		Str("command", cmd.Name()).
		Str("version", version.String()).
		Str("config", s.Source()).
		Msg("Command started")
	return nil
}

// loadSettings is used on paths that skip PersistentPreRunE, such as
// shell completion.
func (a *app) loadSettings() (*config.Settings, error) {
	if a.settings != nil {
		return a.settings, nil
	}
	s, err := config.Load(config.LoadOptions{ConfigFile: a.configFile})
	if err != nil {
		return nil, err
	}
	a.settings = s
	return s, nil
}

func (a *app) registry() (*config.Registry, error) {
	s, err := a.loadSettings()
	if err != nil {
		return nil, err
	}
	return config.LoadRegistry(s.RegistryFiles()...)
}

func (a *app) game(slug string) (config.Game, error) {
	reg, err := a.registry()
	if err != nil {
		return config.Game{}, err
	}
	return reg.Get(slug)
}

func (a *app) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	s, err := a.loadSettings()
	if err != nil {
		return nil, err
	}
	format, err := ui.ResolveFormat(a.format, s.Output.Format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid output format")
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// profileRoot returns <profiles>/<game>/<profile>
func (a *app) profileRoot(game config.Game, profile string) (string, error) {
	if err := validateProfileName(profile); err != nil {
		return "", err
	}
	s, err := a.loadSettings()
	if err != nil {
		return "", err
	}
	return filepath.Join(s.ProfilesRoot(), game.Slug, profile), nil
}

// plannedInstall is a computed plan with the context needed to report it
type plannedInstall struct {
	game   config.Game
	pkg    types.Package
	placer placers.Placer
	plan   *types.Plan
}

// plan lists the package directory and resolves its placement. The
// package id defaults to the directory name and must be a valid id.
func (a *app) plan(game config.Game, dir, id string) (*plannedInstall, error) {
	if id == "" {
		id = filepath.Base(filepath.Clean(dir))
	}
	if err := types.ValidatePackageID(id); err != nil {
		return nil, err
	}

	pkg, err := listing.FromDir(a.fs, dir, id)
	if err != nil {
		return nil, err
	}

	placer := loaders.Resolve(game.ModLoader, pkg.ID)
	plan := placer.Plan(pkg)
	plan.LogWarnings(logging.GetLogger("plan"), pkg.ID)

	log.Info().
		Str("game", game.Slug).
		Str("package", pkg.ID).
		Str("placer", placerKind(placer)).
		Int("entries", len(plan.Entries)).
		Msg("Computed placement plan")
	if plan.IsEmpty() {
		log.Warn().Str("package", pkg.ID).Int("warnings", len(plan.Warnings)).Msg("Package places no files")
	}

	return &plannedInstall{game: game, pkg: pkg, placer: placer, plan: plan}, nil
}

func (p *plannedInstall) result() *display.PlanResult {
	return &display.PlanResult{
		Game:     p.game.Name,
		Loader:   p.game.ModLoader.Variant.String(),
		Package:  p.pkg.ID,
		Placer:   placerKind(p.placer),
		Entries:  p.plan.Entries,
		Warnings: p.plan.Warnings,
	}
}

func placerKind(p placers.Placer) string {
	switch p.(type) {
	case *placers.ExtractionPlacer:
		return display.PlacerExtract
	case *placers.SubdirPlacer:
		return display.PlacerSubdir
	}
	return "unknown"
}

// loaderInfo describes the placement rules in effect for game
func loaderInfo(game config.Game) *display.LoaderInfo {
	d := game.ModLoader
	mods := loaders.ModPlacer(d)
	self := loaders.SelfPlacer(d)

	def, hasDefault := mods.Default()
	builtin := len(loaders.BuiltinRules(d.Variant))

	info := &display.LoaderInfo{
		Game:        game.Name,
		Loader:      d.Variant.String(),
		SelfPackage: d.SelfPackage(),
		SelfFiles:   self.Files(),
		Flatten:     self.Flatten(),
		Ignored:     mods.Ignored(),
		ConfigDir:   d.ConfigDir(),
	}
	for i, r := range mods.Rules() {
		row := display.NewRuleRow(r)
		row.Default = hasDefault && i == def
		row.Extra = i >= builtin
		info.Rules = append(info.Rules, row)
	}
	if p, ok := d.LogPath(); ok {
		info.LogPath = p
	}
	if p, ok := d.ProxyLibrary(); ok {
		info.ProxyLibrary = p
	}
	return info
}

// completeGameThenDir completes a game slug first and falls back to
// file completion for the package directory.
func (a *app) completeGameThenDir(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}
	reg, err := a.registry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return reg.Slugs(), cobra.ShellCompDirectiveNoFileComp
}
