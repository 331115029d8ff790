package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/types"
)

func (m *Model) onTimelineKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := m.app.Session
	reports := s.Reports()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.timelineCursor > 0 {
			m.timelineCursor--
		}
		return nil, true
	case key.Matches(msg, m.keys.Down):
		if m.timelineCursor < len(reports)-1 {
			m.timelineCursor++
		}
		return nil, true
	case key.Matches(msg, m.keys.Enter):
		if r := m.timelineReport(); r != nil {
			if m.expandedReport == r.ID {
				m.expandedReport = ""
			} else {
				m.expandedReport = r.ID
			}
		}
		return nil, true
	case key.Matches(msg, m.keys.Select):
		if r := m.timelineReport(); r != nil {
			s.ToggleReportSelection(r.ID)
		}
		return nil, true
	case key.Matches(msg, m.keys.Analyze):
		if r := m.timelineReport(); r != nil {
			s.AnalyzeIncident(r.ID)
			if s.ActiveView() == types.ViewInsights {
				m.insightText = ""
				m.insightSources = nil
				m.busy = true
				m.statusText = "Running deep analysis…"
				return tea.Batch(m.insightCmd(*s.ActiveInsight()), m.spin.Tick), true
			}
		}
		return nil, true
	case key.Matches(msg, m.keys.Discuss):
		if r := m.timelineReport(); r != nil {
			s.DiscussIncident(r.ID)
			if s.ActiveView() == types.ViewAssistant {
				m.transcript = nil
				return m.enterAssistant(), true
			}
		}
		return nil, true
	case key.Matches(msg, m.keys.Delete):
		if r := m.timelineReport(); r != nil {
			if err := s.DeleteReport(context.Background(), r.ID); err != nil {
				m.statusText = "Delete failed: " + err.Error()
			} else {
				m.statusText = "Report deleted"
				if m.timelineCursor > 0 {
					m.timelineCursor--
				}
			}
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) timelineReport() *types.Report {
	reports := m.app.Session.Reports()
	if m.timelineCursor < 0 || m.timelineCursor >= len(reports) {
		return nil
	}
	return &reports[m.timelineCursor]
}

func (m *Model) viewTimeline() string {
	s := m.app.Session
	reports := s.Reports()
	if len(reports) == 0 {
		return m.theme.Footer.Render("No incidents documented yet. Open New Report from the menu.")
	}

	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Incident Timeline"))
	b.WriteString("\n\n")

	for i, r := range reports {
		cursor := "  "
		if i == m.timelineCursor {
			cursor = "> "
		}
		mark := "[ ]"
		if s.IsSelected(r.ID) {
			mark = m.theme.SelectMark.Render("[x]")
		}
		line := fmt.Sprintf("%s%s %s  %s  %s",
			cursor, mark,
			r.CreatedAt.Format("1/2/2006"),
			m.theme.Tag.Render(string(r.Category)),
			reportTitle(r),
		)
		if i == m.timelineCursor {
			line = m.theme.CardTitle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")

		if m.expandedReport == r.ID {
			b.WriteString("\n")
			b.WriteString(m.md.Render(r.Content))
			b.WriteString("\n")
			if len(r.Tags) > 0 {
				b.WriteString(m.theme.Tag.Render("tags: " + strings.Join(r.Tags, ", ")))
				b.WriteString("\n")
			}
			if r.LegalContext != "" {
				b.WriteString("\n")
				b.WriteString(m.theme.CardTitle.Render("Legal Context"))
				b.WriteString("\n")
				b.WriteString(m.md.Render(r.LegalContext))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
