// Package ui holds the terminal presentation layer: prompt and status
// styling plus Markdown rendering of assistant answers.
package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PromptStyle renders the input prompt marker.
	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4285F4")).
			Bold(true)

	// ToolStyle renders tool invocation results in the transcript.
	ToolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBC04"))

	// ErrorStyle renders recoverable errors shown inline.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EA4335"))

	// TitleStyle renders the banner line at startup.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34A853")).
			Bold(true)
)

// Renderer converts Markdown answers to styled terminal output. A nil
// renderer degrades to plain text, so construction failure is not an
// error the caller has to handle.
type Renderer struct {
	renderer *glamour.TermRenderer
}

// NewRenderer creates a Markdown renderer wrapped at the given width.
func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return &Renderer{renderer: r}
}

// Render returns the styled form of markdown, or the original text when
// rendering is unavailable or fails.
func (r *Renderer) Render(markdown string) string {
	if r == nil || r.renderer == nil {
		return markdown
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimSuffix(rendered, "\n")
}
