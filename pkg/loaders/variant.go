package loaders

import (
	"fmt"
	"strings"
)

// Variant identifies a mod loader. The set is closed; every switch over
// Variant must list all of them (enforced by the exhaustive linter).
type Variant int

const (
	BepInEx Variant = iota
	BepisLoader
	MelonLoader
	Northstar
	GDWeave
	Shimloader
	Lovely
	ReturnOfModding
)

var variantNames = [...]string{
	BepInEx:         "BepInEx",
	BepisLoader:     "BepisLoader",
	MelonLoader:     "MelonLoader",
	Northstar:       "Northstar",
	GDWeave:         "GDWeave",
	Shimloader:      "Shimloader",
	Lovely:          "Lovely",
	ReturnOfModding: "ReturnOfModding",
}

// AllVariants returns every known loader in declaration order
func AllVariants() []Variant {
	out := make([]Variant, len(variantNames))
	for i := range variantNames {
		out[i] = Variant(i)
	}
	return out
}

func (v Variant) String() string {
	if v.Valid() {
		return variantNames[v]
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// Valid reports whether v is one of the declared loaders
func (v Variant) Valid() bool {
	return v >= 0 && int(v) < len(variantNames)
}

// ParseVariant resolves a loader name case-insensitively
func ParseVariant(name string) (Variant, error) {
	name = strings.TrimSpace(name)
	for i, n := range variantNames {
		if strings.EqualFold(n, name) {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mod loader %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid mod loader %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// SupportsExtraSubdirs reports whether registry data may add rules
func (v Variant) SupportsExtraSubdirs() bool {
	switch v {
	case BepInEx, BepisLoader, MelonLoader:
		return true
	case Northstar, GDWeave, Shimloader, Lovely, ReturnOfModding:
		return false
	}
	return false
}

// DeclaresFiles reports whether the self-install allow-list comes from
// registry data instead of the built-in catalog.
func (v Variant) DeclaresFiles() bool {
	switch v {
	case ReturnOfModding:
		return true
	case BepInEx, BepisLoader, MelonLoader, Northstar, GDWeave, Shimloader, Lovely:
		return false
	}
	return false
}
