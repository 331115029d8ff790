package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/types"
)

func (m *Model) onDashboardKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "n" {
		if m.app.Session.ChangeView(types.ViewNewReport) {
			return m.onViewEntered(types.ViewNewReport), true
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) viewDashboard() string {
	s := m.app.Session
	var b strings.Builder

	name := "there"
	if p := s.Profile(); p != nil && p.Name != "" {
		name = p.Name
	}
	b.WriteString(m.theme.PaneTitle.Render(fmt.Sprintf("Welcome back, %s", name)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Documented incidents   %d\n", len(s.Reports())))
	b.WriteString(fmt.Sprintf("  Uploaded documents     %d\n", len(s.Documents())))
	b.WriteString(fmt.Sprintf("  Drafted documents      %d\n", len(s.Drafts())))
	b.WriteString(fmt.Sprintf("  Calendar events        %d\n", len(s.Events())))
	b.WriteString(fmt.Sprintf("  Logged communications  %d\n", len(s.Messages())))
	b.WriteString("\n")

	recent := s.RecentReports(5)
	if len(recent) == 0 {
		b.WriteString(m.theme.Footer.Render("No incidents documented yet. Press n to document one."))
		return b.String()
	}

	b.WriteString(m.theme.CardTitle.Render("Recent incidents"))
	b.WriteString("\n")
	for _, r := range recent {
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			r.CreatedAt.Format("1/2/2006"),
			m.theme.Tag.Render(string(r.Category)),
			reportTitle(r),
		))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("n new report | open the timeline for the full history"))
	return b.String()
}

// reportTitle derives a short listing title from the report body: the first
// non-heading line of the summary section.
func reportTitle(r types.Report) string {
	for _, line := range strings.Split(r.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) > 60 {
			return line[:57] + "…"
		}
		return line
	}
	return "(empty report)"
}
