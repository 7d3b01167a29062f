package loaders

import (
	"path"
	"strings"

	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/types"
)

// Descriptor is the loader configuration of one game: the static catalog
// entry for Variant plus the fields carried by the game's registry entry.
// It is validated once when loaded and treated as read-only afterwards.
type Descriptor struct {
	Variant Variant `koanf:"name" toml:"name"`

	// SelfPackageID overrides the built-in recognition of the loader's
	// own package when set.
	SelfPackageID string `koanf:"packageName" toml:"packageName,omitempty"`

	// ExtraSubdirs are appended after the built-in rules. Only loaders
	// with SupportsExtraSubdirs accept them.
	ExtraSubdirs []types.SubdirRule `koanf:"subdirs" toml:"subdirs,omitempty"`

	// FixedFiles is the self-install allow-list for loaders that declare
	// it at runtime (DeclaresFiles).
	FixedFiles []string `koanf:"files" toml:"files,omitempty"`
}

// NewDescriptor returns a validated descriptor with no registry overrides
func NewDescriptor(v Variant) (Descriptor, error) {
	d := Descriptor{Variant: v}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// Validate checks registry-provided fields against the catalog. Every
// failure is a configuration error raised before any plan is computed.
func (d Descriptor) Validate() error {
	if !d.Variant.Valid() {
		return errors.Newf(errors.ErrLoaderUnknown, "unknown mod loader %v", d.Variant)
	}

	if len(d.ExtraSubdirs) > 0 && !d.Variant.SupportsExtraSubdirs() {
		return errors.Newf(errors.ErrUnsupportedKey,
			"mod loader %s does not accept extra subdirs", d.Variant).
			WithDetail("loader", d.Variant.String())
	}

	if d.Variant.DeclaresFiles() {
		if len(d.FixedFiles) == 0 {
			return errors.Newf(errors.ErrConfigValid,
				"mod loader %s requires a non-empty files list", d.Variant).
				WithDetail("loader", d.Variant.String())
		}
	} else if len(d.FixedFiles) > 0 {
		return errors.Newf(errors.ErrUnsupportedKey,
			"mod loader %s does not accept a files list", d.Variant).
			WithDetail("loader", d.Variant.String())
	}

	for _, f := range d.FixedFiles {
		if !isRelative(f) {
			return errors.Newf(errors.ErrRuleInvalid, "file %q must be a relative path inside the package", f).
				WithDetail("loader", d.Variant.String())
		}
	}

	seen := make(map[string]string)
	for _, r := range BuiltinRules(d.Variant) {
		if r.Name != "" {
			seen[strings.ToLower(r.Name)] = "built-in"
		}
	}

	for i, r := range d.ExtraSubdirs {
		if strings.TrimSpace(r.Name) == "" {
			return errors.Newf(errors.ErrRuleInvalid, "extra subdir %d has no name", i).
				WithDetail("loader", d.Variant.String()).
				WithDetail("index", i)
		}
		if !isRelative(r.Target) {
			return errors.Newf(errors.ErrRuleInvalid,
				"extra subdir %q target %q must be a relative path inside the profile", r.Name, r.Target).
				WithDetail("loader", d.Variant.String()).
				WithDetail("rule", r.Name)
		}
		key := strings.ToLower(r.Name)
		if origin, dup := seen[key]; dup {
			return errors.Newf(errors.ErrRuleDuplicate,
				"extra subdir %q duplicates a %s rule", r.Name, origin).
				WithDetail("loader", d.Variant.String()).
				WithDetail("rule", r.Name)
		}
		seen[key] = "registry"
	}

	return nil
}

// isRelative rejects empty, absolute and escaping paths
func isRelative(p string) bool {
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.TrimSpace(p) == "" || strings.HasPrefix(p, "/") || (len(p) > 1 && p[1] == ':') {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}
