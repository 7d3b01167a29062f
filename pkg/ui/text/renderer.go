// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/modplan/pkg/types"
	"github.com/arthur-debert/modplan/pkg/ui/display"
)

// Renderer provides plain text output for pipes and scripts
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders a display model as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.PlanResult:
		return r.renderPlan(v)
	case *display.GameList:
		return r.renderGames(v)
	case *display.LoaderInfo:
		_, err := io.WriteString(r.output, v.Markdown())
		return err
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderPlan(p *display.PlanResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s placer (%s", p.Package, p.Placer, p.Loader)
	if p.Game != "" {
		fmt.Fprintf(&b, ", %s", p.Game)
	}
	b.WriteString(")\n")

	if len(p.Entries) == 0 {
		b.WriteString("nothing to place\n")
	}
	for _, e := range p.Entries {
		fmt.Fprintf(&b, "  %s -> %s%s\n", e.Source, e.Destination, flags(e))
	}
	for _, w := range p.Warnings {
		fmt.Fprintf(&b, "warning: %s: %s\n", w.Entry, w.Reason)
	}

	if p.Applied != nil {
		fmt.Fprintf(&b, "applied to %s: %d written, %d preserved\n",
			p.Applied.Profile, len(p.Applied.Written), len(p.Applied.Preserved))
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) renderGames(l *display.GameList) error {
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	for _, g := range l.Games {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", g.Slug, g.Loader, g.Name); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func flags(e types.PlanEntry) string {
	var f []string
	if !e.Tracked {
		f = append(f, "untracked")
	}
	if e.Preserve {
		f = append(f, "preserve")
	}
	if len(f) == 0 {
		return ""
	}
	return " [" + strings.Join(f, ",") + "]"
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, writeErr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return writeErr
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
