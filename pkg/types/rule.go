package types

import (
	"fmt"
	"path"
	"strings"
)

// Layout controls how a matched entry is laid out under a rule's target
type Layout int

const (
	// LayoutFlat drops the matched top-level directory and places its
	// contents directly under the target.
	LayoutFlat Layout = iota
	// LayoutNested keeps the entry's structure under Target/<package id>/.
	LayoutNested
)

func (l Layout) String() string {
	switch l {
	case LayoutFlat:
		return "flat"
	case LayoutNested:
		return "nested"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// MarshalText implements encoding.TextMarshaler
func (l Layout) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Layout) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "flat":
		*l = LayoutFlat
	case "nested", "separate", "separated":
		*l = LayoutNested
	default:
		return fmt.Errorf("unknown layout %q", string(text))
	}
	return nil
}

// Tracking controls whether placed files are owned by the manager
type Tracking int

const (
	// Tracked files may be replaced or removed on update and uninstall.
	Tracked Tracking = iota
	// Untracked files are placed but never removed by the manager.
	Untracked
)

func (t Tracking) String() string {
	switch t {
	case Tracked:
		return "tracked"
	case Untracked:
		return "untracked"
	}
	return fmt.Sprintf("Tracking(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler
func (t Tracking) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Tracking) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "tracked":
		*t = Tracked
	case "untracked":
		*t = Untracked
	default:
		return fmt.Errorf("unknown tracking mode %q", string(text))
	}
	return nil
}

// SubdirRule routes one top-level package entry to a destination directory.
// Rules are evaluated in declaration order and the first match wins.
type SubdirRule struct {
	// Name is compared case-insensitively with top-level entry names.
	// Built-in catch-all rules use an empty name and are only reachable
	// as the default rule.
	Name string `koanf:"name" toml:"name"`

	// Target is the destination directory, relative to the profile root.
	Target string `koanf:"target" toml:"target"`

	Layout   Layout   `koanf:"layout" toml:"layout"`
	Tracking Tracking `koanf:"tracking" toml:"tracking"`

	// Mutable marks user-editable files: an existing file at the
	// destination is never overwritten.
	Mutable bool `koanf:"mutable" toml:"mutable,omitempty"`

	// Extension, when set, keeps only files whose name ends with it.
	Extension string `koanf:"extension" toml:"extension,omitempty"`

	// PerPackage places flat files below Target/<package id>/ so packages
	// shipping the same file names do not collide. Nested rules always
	// separate packages.
	PerPackage bool `koanf:"perPackage" toml:"perPackage,omitempty"`
}

// FlatRule returns a tracked rule that flattens the matched directory into target
func FlatRule(name, target string) SubdirRule {
	return SubdirRule{Name: name, Target: target, Layout: LayoutFlat, Tracking: Tracked}
}

// NestedRule returns a tracked rule that keeps each package in its own directory
func NestedRule(name, target string) SubdirRule {
	return SubdirRule{Name: name, Target: target, Layout: LayoutNested, Tracking: Tracked}
}

// SeparatedRule returns a tracked flat rule that gives each package its
// own directory under target
func SeparatedRule(name, target string) SubdirRule {
	r := FlatRule(name, target)
	r.PerPackage = true
	return r
}

// UntrackedRule returns a flat rule whose files the manager never removes
func UntrackedRule(name, target string) SubdirRule {
	return SubdirRule{Name: name, Target: target, Layout: LayoutFlat, Tracking: Untracked}
}

// WithExtension returns a copy of the rule filtered to the given suffix
func (r SubdirRule) WithExtension(ext string) SubdirRule {
	r.Extension = ext
	return r
}

// AsMutable returns a copy of the rule marked as user-editable
func (r SubdirRule) AsMutable() SubdirRule {
	r.Mutable = true
	return r
}

// Base returns the directory files of packageID are placed under
func (r SubdirRule) Base(packageID string) string {
	if r.Layout == LayoutNested || r.PerPackage {
		return path.Join(r.Target, packageID)
	}
	return r.Target
}

// Matches reports whether the rule claims a top-level entry by name
func (r SubdirRule) Matches(entryName string) bool {
	return r.Name != "" && strings.EqualFold(r.Name, entryName)
}

// Accepts reports whether a file passes the rule's extension filter
func (r SubdirRule) Accepts(fileName string) bool {
	if r.Extension == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(fileName), strings.ToLower(r.Extension))
}
