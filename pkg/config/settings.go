package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read as a setting
const EnvPrefix = "MODPLAN_"

// configFileNames are tried in order inside ConfigDir
var configFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// Settings is the merged tool configuration
type Settings struct {
	Registry RegistrySettings `koanf:"registry"`
	Profiles ProfileSettings  `koanf:"profiles"`
	Logging  LoggingSettings  `koanf:"logging"`
	Output   OutputSettings   `koanf:"output"`

	// source is the user config file that was loaded, if any
	source string
}

// RegistrySettings lists the user registry files merged over the built-in one
type RegistrySettings struct {
	Files []string `koanf:"files"`
}

// ProfileSettings locates mod profiles on disk
type ProfileSettings struct {
	Root string `koanf:"root"`
}

// LoggingSettings holds the default verbosity; the -v flag adds to it
type LoggingSettings struct {
	Verbosity int `koanf:"verbosity"`
}

// OutputSettings holds the default output format
type OutputSettings struct {
	Format string `koanf:"format"`
}

// LoadOptions selects the sources Load reads besides the embedded defaults
type LoadOptions struct {
	// ConfigFile replaces the lookup in ConfigDir. It must exist.
	ConfigFile string

	// Overrides are applied last, keyed by dotted path ("profiles.root").
	Overrides map[string]interface{}
}

// ConfigDir returns the directory searched for the user config file
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, logging.AppName)
}

// Load merges, in increasing priority: embedded defaults, the user config
// file, MODPLAN_* environment variables and opts.Overrides. Unknown keys in
// a config file are rejected; unknown environment variables are ignored.
func Load(opts LoadOptions) (*Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default settings")
	}
	known := k.Keys()

	// 2. Load the user config file if there is one
	path, err := locateConfigFile(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded user settings")
	}

	// 3. Load env vars
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
		for _, name := range known {
			if name == key {
				return key
			}
		}
		return ""
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}

	// 4. Load flag overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid settings").
			WithDetail("path", path)
	}
	s.source = path

	if s.Logging.Verbosity < 0 {
		return nil, errors.Newf(errors.ErrConfigValid, "logging.verbosity must not be negative, got %d", s.Logging.Verbosity)
	}

	return &s, nil
}

// Source returns the user config file the settings were read from, or ""
func (s *Settings) Source() string {
	return s.source
}

// ProfilesRoot returns the configured profiles directory or the XDG default
func (s *Settings) ProfilesRoot() string {
	if s.Profiles.Root != "" {
		return s.Profiles.Root
	}
	return filepath.Join(xdg.DataHome, logging.AppName, "profiles")
}

// RegistryFiles returns the user registry files with relative entries
// resolved against the directory of the config file that named them.
func (s *Settings) RegistryFiles() []string {
	base := ConfigDir()
	if s.source != "" {
		base = filepath.Dir(s.source)
	}

	files := make([]string, 0, len(s.Registry.Files))
	for _, f := range s.Registry.Files {
		if f == "" {
			continue
		}
		if !filepath.IsAbs(f) {
			f = filepath.Join(base, f)
		}
		files = append(files, f)
	}
	return files
}

func locateConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", explicit).
				WithDetail("path", explicit)
		}
		return explicit, nil
	}

	xdg.Reload()
	for _, name := range configFileNames {
		path := filepath.Join(ConfigDir(), name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// parserFor picks the koanf parser by file extension, defaulting to TOML
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	}
	return toml.Parser()
}
