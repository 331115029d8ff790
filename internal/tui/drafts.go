package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/types"
)

func draftTypeLabel(t types.DraftType) string {
	switch t {
	case types.DraftIncidentReport:
		return "incident report"
	case types.DraftBehavioralAnalysis:
		return "behavioral analysis"
	case types.DraftLegalDraft:
		return "legal draft"
	case types.DraftUploadedDocument:
		return "document redraft"
	default:
		return string(t)
	}
}

func (m *Model) onDraftsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := m.app.Session
	drafts := s.Drafts()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.draftCursor > 0 {
			m.draftCursor--
		}
		return nil, true
	case key.Matches(msg, m.keys.Down):
		if m.draftCursor < len(drafts)-1 {
			m.draftCursor++
		}
		return nil, true
	case key.Matches(msg, m.keys.Enter):
		m.draftOpen = !m.draftOpen
		return nil, true
	case key.Matches(msg, m.keys.Back):
		m.draftOpen = false
		return nil, true
	case key.Matches(msg, m.keys.Delete):
		if m.draftCursor < len(drafts) {
			if err := s.DeleteDraft(context.Background(), drafts[m.draftCursor].ID); err != nil {
				m.statusText = "Delete failed: " + err.Error()
			} else {
				m.statusText = "Draft deleted"
				m.draftOpen = false
				if m.draftCursor > 0 {
					m.draftCursor--
				}
			}
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) viewDrafts() string {
	drafts := m.app.Session.Drafts()
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Drafted Documents"))
	b.WriteString("\n\n")

	if len(drafts) == 0 {
		b.WriteString(m.theme.Footer.Render("Nothing saved yet. Analyses, court drafts and redrafts you keep land here."))
		return b.String()
	}

	for i, d := range drafts {
		cursor := "  "
		if i == m.draftCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %s", cursor,
			d.CreatedAt.Format("1/2/2006"),
			d.Title,
			m.theme.Tag.Render(draftTypeLabel(d.Type)),
		)
		if i == m.draftCursor {
			line = m.theme.CardTitle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")

		if i == m.draftCursor && m.draftOpen {
			b.WriteString("\n")
			b.WriteString(m.md.Render(d.Content))
			b.WriteString("\n")
			if d.RelatedReportID != "" {
				if r := m.findReportByID(d.RelatedReportID); r != nil {
					b.WriteString(m.theme.Footer.Render(
						fmt.Sprintf("related incident: %s (%s)", r.CreatedAt.Format("1/2/2006"), r.Category)))
				} else {
					b.WriteString(m.theme.Footer.Render("related incident: deleted"))
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) findReportByID(id string) *types.Report {
	reports := m.app.Session.Reports()
	for i := range reports {
		if reports[i].ID == id {
			return &reports[i]
		}
	}
	return nil
}
