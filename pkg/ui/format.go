package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects a renderer
type Format int

const (
	// FormatAuto picks terminal or text output from the destination
	FormatAuto Format = iota
	// FormatTerminal renders tables, colors and rendered markdown
	FormatTerminal
	// FormatText renders plain text suitable for pipes and scripts
	FormatText
	// FormatJSON renders machine-readable JSON output
	FormatJSON
)

// formatNames lists the accepted spellings; the first one of each format
// is canonical.
var formatNames = []struct {
	format Format
	names  []string
}{
	{FormatAuto, []string{"auto"}},
	{FormatTerminal, []string{"term", "terminal"}},
	{FormatText, []string{"text", "plain"}},
	{FormatJSON, []string{"json"}},
}

// FormatNames returns the canonical format names, for flag completion
func FormatNames() []string {
	out := make([]string, 0, len(formatNames))
	for _, f := range formatNames {
		out = append(out, f.names[0])
	}
	return out
}

func (f Format) String() string {
	for _, known := range formatNames {
		if known.format == f {
			return known.names[0]
		}
	}
	return "unknown"
}

// ParseFormat parses a format name. The empty string means auto.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatAuto, nil
	}
	for _, known := range formatNames {
		for _, name := range known.names {
			if name == s {
				return known.format, nil
			}
		}
	}
	return FormatAuto, fmt.Errorf("unknown format %q, expected one of %s", s, strings.Join(FormatNames(), ", "))
}

// ResolveFormat picks the format from the --format flag when given and
// from the output.format setting otherwise.
func ResolveFormat(flag, configured string) (Format, error) {
	if strings.TrimSpace(flag) != "" {
		return ParseFormat(flag)
	}
	f, err := ParseFormat(configured)
	if err != nil {
		return FormatAuto, fmt.Errorf("output.format setting: %w", err)
	}
	return f, nil
}

// DetectFormat chooses terminal output only for color-capable terminals
// and honours NO_COLOR.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
