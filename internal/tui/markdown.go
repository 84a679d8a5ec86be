package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/habitlit/internal/logger"
)

// RenderMarkdown renders generated coach text for the terminal. The raw text
// is returned when glamour cannot render it.
func RenderMarkdown(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Debug("Markdown renderer unavailable", "error", err)
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		logger.Debug("Failed to render markdown", "error", err)
		return text
	}
	return strings.TrimRight(out, "\n")
}
