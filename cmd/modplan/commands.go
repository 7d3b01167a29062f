package modplan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modplan/internal/version"
	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/executor"
	"github.com/arthur-debert/modplan/pkg/loaders"
	"github.com/arthur-debert/modplan/pkg/ui"
	"github.com/arthur-debert/modplan/pkg/ui/display"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	a := &app{fs: afero.NewOsFs()}

	rootCmd := &cobra.Command{
		Use:     "modplan",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&a.format, "format", "f", "", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&a.profilesRoot, "profiles", "", MsgFlagProfiles)

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newPlanCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newGamesCmd(a))
	rootCmd.AddCommand(newLoaderCmd(a))
	rootCmd.AddCommand(newRegistryCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		id      string
		apply   bool
		profile string
	)

	cmd := &cobra.Command{
		Use:               "plan <game> <package-dir>",
		Short:             MsgPlanShort,
		Long:              MsgPlanLong,
		Example:           MsgPlanExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: a.completeGameThenDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := a.game(args[0])
			if err != nil {
				return err
			}

			planned, err := a.plan(game, args[1], id)
			if err != nil {
				return err
			}

			result := planned.result()
			if apply {
				profileRoot, err := a.profileRoot(game, profile)
				if err != nil {
					return err
				}

				log.Info().Str("game", game.Slug).Str("profile", profileRoot).Msg("Applying plan")
				applied, err := executor.New(a.fs).Apply(cmd.Context(), planned.plan, args[1], profileRoot)
				if err != nil {
					return err
				}
				result.Applied = &display.ApplyResult{
					Profile:   profileRoot,
					Written:   applied.Written,
					Preserved: applied.Preserved,
				}
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(result)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", MsgFlagID)
	cmd.Flags().BoolVar(&apply, "apply", false, MsgFlagApply)
	cmd.Flags().StringVarP(&profile, "profile", "p", "default", MsgFlagProfile)

	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	var (
		id      string
		profile string
	)

	cmd := &cobra.Command{
		Use:               "remove <game> <package-dir>",
		Short:             MsgRemoveShort,
		Long:              MsgRemoveLong,
		GroupID:           "core",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: a.completeGameThenDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := a.game(args[0])
			if err != nil {
				return err
			}

			planned, err := a.plan(game, args[1], id)
			if err != nil {
				return err
			}

			profileRoot, err := a.profileRoot(game, profile)
			if err != nil {
				return err
			}

			removed, err := executor.New(a.fs).Uninstall(cmd.Context(), profileRoot, planned.plan.TrackedDestinations())
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				return r.RenderMessage(fmt.Sprintf(MsgNothingRemoved, profileRoot))
			}
			return r.RenderMessage(fmt.Sprintf(MsgRemovedFormat, len(removed), profileRoot))
		},
	}

	cmd.Flags().StringVar(&id, "id", "", MsgFlagID)
	cmd.Flags().StringVarP(&profile, "profile", "p", "default", MsgFlagProfile)

	return cmd
}

func newGamesCmd(a *app) *cobra.Command {
	var loaderName string

	cmd := &cobra.Command{
		Use:     "games",
		Short:   MsgGamesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}

			games := reg.Games()
			if loaderName != "" {
				v, err := loaders.ParseVariant(loaderName)
				if err != nil {
					return errors.Wrap(err, errors.ErrInvalidInput, "invalid --loader")
				}
				games = reg.ByLoader()[v]
			}

			list := &display.GameList{Games: make([]display.GameRow, 0, len(games))}
			for _, g := range games {
				list.Games = append(list.Games, display.GameRow{
					Slug:   g.Slug,
					Name:   g.Name,
					Loader: g.ModLoader.Variant.String(),
				})
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(list)
		},
	}

	cmd.Flags().StringVarP(&loaderName, "loader", "l", "", MsgFlagLoader)
	_ = cmd.RegisterFlagCompletionFunc("loader", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, v := range loaders.AllVariants() {
			names = append(names, v.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func newLoaderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "loader <game>",
		Short:             MsgLoaderShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeGameThenDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := a.game(args[0])
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(loaderInfo(game))
		},
	}
}

func newRegistryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registry",
		Short:   MsgRegistryShort,
		Long:    MsgRegistryLong,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: MsgDumpShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			data, err := reg.MarshalTOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "modplan version %s\n", version.Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  MsgManShort,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "MODPLAN",
				Section: "1",
				Source:  "modplan " + version.Version,
				Manual:  "modplan manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

// validateProfileName rejects names that would leave the game's profile directory
func validateProfileName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		return errors.Newf(errors.ErrInvalidInput, "invalid profile name %q", name).
			WithDetail("profile", name)
	}
	return nil
}
