// Package ui renders command results for modplan. Results are display
// models (see package display) and each output format has its own
// renderer: rich terminal output, plain text for pipes and JSON.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/modplan/pkg/ui/json"
	"github.com/arthur-debert/modplan/pkg/ui/terminal"
	"github.com/arthur-debert/modplan/pkg/ui/text"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a display model
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto inspects output
// and falls back to plain text for anything that is not a terminal.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	}
	return nil, fmt.Errorf("unknown format: %v", format)
}
