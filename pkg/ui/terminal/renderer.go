// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/modplan/pkg/types"
	"github.com/arthur-debert/modplan/pkg/ui/display"
	"github.com/arthur-debert/modplan/pkg/ui/styles"
	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
)

// Renderer draws results as styled tables and rendered markdown
type Renderer struct {
	output io.Writer

	// MarkdownStyle is a glamour style name or path; "auto" detects the
	// terminal background.
	MarkdownStyle string
	// Width wraps rendered markdown; 0 keeps glamour's default.
	Width int
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w, MarkdownStyle: "auto"}, nil
}

// RenderResult renders a display model with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.PlanResult:
		return r.renderPlan(v)
	case *display.GameList:
		return r.renderGames(v)
	case *display.LoaderInfo:
		_, err := io.WriteString(r.output, r.renderMarkdown(v.Markdown()))
		return err
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderPlan(p *display.PlanResult) error {
	var b strings.Builder

	title := fmt.Sprintf("%s %s", styles.Render("Package", p.Package), styles.Render("Muted", "("+p.Placer+" placer)"))
	loader := styles.Render("Loader", p.Loader)
	if p.Game != "" {
		loader += styles.Render("Muted", " for "+p.Game)
	}
	b.WriteString(styles.Render("Header", title+"\n"+loader))
	b.WriteString("\n")

	if len(p.Entries) == 0 {
		b.WriteString(styles.Render("Muted", "Nothing to place."))
		b.WriteString("\n")
	} else {
		data := pterm.TableData{{"Source", "Destination", "Mode"}}
		for _, e := range p.Entries {
			data = append(data, []string{e.Source, styles.Render("FilePath", e.Destination), mode(e)})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		b.WriteString(table)
		b.WriteString("\n")
	}

	for _, w := range p.Warnings {
		fmt.Fprintf(&b, "%s %s: %s\n", styles.Render("Warning", "!"), w.Entry, w.Reason)
	}

	if p.Applied != nil {
		msg := fmt.Sprintf("Applied to %s: %d written", p.Applied.Profile, len(p.Applied.Written))
		if n := len(p.Applied.Preserved); n > 0 {
			msg += fmt.Sprintf(", %d preserved", n)
		}
		b.WriteString(styles.Render("Success", msg))
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) renderGames(l *display.GameList) error {
	data := pterm.TableData{{"Slug", "Game", "Loader"}}
	for _, g := range l.Games {
		data = append(data, []string{g.Slug, g.Name, styles.Render("Loader", g.Loader)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.output, table)
	return err
}

func mode(e types.PlanEntry) string {
	switch {
	case e.Preserve:
		return styles.Render("Preserved", "preserve")
	case !e.Tracked:
		return styles.Render("Muted", "untracked")
	}
	return "tracked"
}

// renderMarkdown falls back to the raw markdown if glamour fails
func (r *Renderer) renderMarkdown(content string) string {
	var options []glamour.TermRendererOption
	if r.MarkdownStyle != "" && r.MarkdownStyle != "auto" {
		options = append(options, glamour.WithStylePath(r.MarkdownStyle))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// RenderError renders an error in the error style
func (r *Renderer) RenderError(err error) error {
	_, writeErr := fmt.Fprintln(r.output, styles.Render("Error", "Error: ")+err.Error())
	return writeErr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
