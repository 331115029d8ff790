package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer wraps glamour with a fixed wrap width. Reports, analyses
// and drafted documents are all Markdown, so this is the main body renderer.
type markdownRenderer struct {
	r     *glamour.TermRenderer
	width int
}

func newMarkdownRenderer(width int) *markdownRenderer {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &markdownRenderer{width: width}
	}
	return &markdownRenderer{r: r, width: width}
}

// Render falls back to the raw text when glamour cannot process it, so a
// malformed document is still readable.
func (m *markdownRenderer) Render(content string) string {
	if m == nil || m.r == nil {
		return content
	}
	out, err := m.r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
