package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/loaders"
	"github.com/arthur-debert/modplan/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// builtinSource names the embedded registry in errors and logs
const builtinSource = "<builtin>"

// Game is one registry entry
type Game struct {
	Name      string             `koanf:"name" toml:"name"`
	Slug      string             `koanf:"slug" toml:"slug"`
	ModLoader loaders.Descriptor `koanf:"modLoader" toml:"modLoader"`
}

// registryFile is the on-disk layout of a registry file
type registryFile struct {
	Games []Game `koanf:"games" toml:"games"`
}

// Registry holds validated games keyed by slug
type Registry struct {
	games []Game
	index map[string]int
}

// LoadRegistry reads the embedded registry and merges files over it in
// order. A game in a later file replaces the earlier game with the same
// slug; new slugs are appended.
func LoadRegistry(files ...string) (*Registry, error) {
	logger := logging.GetLogger("config.registry")
	r := &Registry{index: make(map[string]int)}

	games, err := parseRegistry(&rawBytesProvider{bytes: builtinGames}, toml.Parser(), builtinSource)
	if err != nil {
		return nil, err
	}
	r.merge(games)

	for _, path := range files {
		games, err := parseRegistry(file.Provider(path), parserFor(path), path)
		if err != nil {
			return nil, err
		}
		r.merge(games)
		logger.Debug().Str("path", path).Int("games", len(games)).Msg("Merged registry file")
	}

	logger.Debug().Int("games", len(r.games)).Msg("Registry loaded")
	return r, nil
}

// ParseRegistry parses a single registry document. The format is chosen
// from name's extension (TOML unless .yaml or .yml).
func ParseRegistry(name string, data []byte) ([]Game, error) {
	return parseRegistry(&rawBytesProvider{bytes: data}, parserFor(name), name)
}

func parseRegistry(p koanf.Provider, parser koanf.Parser, source string) ([]Game, error) {
	k := koanf.New(".")
	if err := k.Load(p, parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse registry %s", source).
			WithDetail("path", source)
	}

	if err := requireLoaderNames(k); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid registry %s", source).
			WithDetail("path", source)
	}

	var rf registryFile
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &rf,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &rf, unmarshalConf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to decode registry %s", source).
			WithDetail("path", source)
	}

	seen := make(map[string]bool, len(rf.Games))
	for i, g := range rf.Games {
		slug := strings.TrimSpace(g.Slug)
		if slug == "" {
			return nil, errors.Newf(errors.ErrConfigValid, "game %d in %s has no slug", i, source).
				WithDetail("path", source)
		}
		if seen[slug] {
			return nil, errors.Newf(errors.ErrConfigValid, "game %q is listed twice in %s", slug, source).
				WithDetail("path", source).
				WithDetail("game", slug)
		}
		seen[slug] = true

		if err := g.ModLoader.Validate(); err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err), "game %q in %s", slug, source).
				WithDetail("path", source).
				WithDetail("game", slug)
		}

		rf.Games[i].Slug = slug
		if rf.Games[i].Name == "" {
			rf.Games[i].Name = slug
		}
	}

	return rf.Games, nil
}

// requireLoaderNames rejects games without modLoader.name, which would
// otherwise decode as the zero Variant.
func requireLoaderNames(k *koanf.Koanf) error {
	raw, ok := k.Get("games").([]interface{})
	if !ok {
		return nil
	}
	for i, item := range raw {
		game, _ := item.(map[string]interface{})
		loader, _ := game["modLoader"].(map[string]interface{})
		if name, ok := loader["name"].(string); !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("game %d has no modLoader.name", i)
		}
	}
	return nil
}

func (r *Registry) merge(games []Game) {
	for _, g := range games {
		if i, ok := r.index[g.Slug]; ok {
			r.games[i] = g
			continue
		}
		r.index[g.Slug] = len(r.games)
		r.games = append(r.games, g)
	}
}

// Get returns the game registered under slug
func (r *Registry) Get(slug string) (Game, error) {
	i, ok := r.index[slug]
	if !ok {
		return Game{}, errors.Newf(errors.ErrGameNotFound, "no game registered as %q", slug).
			WithDetail("game", slug)
	}
	return r.games[i], nil
}

// Games returns all games in registry order
func (r *Registry) Games() []Game {
	return append([]Game(nil), r.games...)
}

// Slugs returns the registered slugs sorted alphabetically
func (r *Registry) Slugs() []string {
	slugs := make([]string, 0, len(r.index))
	for slug := range r.index {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// ByLoader groups games by their mod loader
func (r *Registry) ByLoader() map[loaders.Variant][]Game {
	out := make(map[loaders.Variant][]Game)
	for _, g := range r.games {
		out[g.ModLoader.Variant] = append(out[g.ModLoader.Variant], g)
	}
	return out
}
