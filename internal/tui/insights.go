package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/types"
)

// motionTypes are the court filings the assistant can draft from a finished
// analysis.
var motionTypes = []string{
	"Motion to Compel Parenting Time",
	"Motion for Rule to Show Cause",
	"Motion to Modify Custody",
	"Declaration of Events",
}

func (m *Model) onInsightsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := m.app.Session

	if m.motionPicker {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.motionCursor > 0 {
				m.motionCursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.motionCursor < len(motionTypes)-1 {
				m.motionCursor++
			}
		case key.Matches(msg, m.keys.Enter):
			m.motionPicker = false
			s.GenerateDraftFromInsight(m.insightText, motionTypes[m.motionCursor])
			if s.ActiveView() == types.ViewAssistant {
				m.transcript = nil
				return m.enterAssistant(), true
			}
		case key.Matches(msg, m.keys.Back):
			m.motionPicker = false
		}
		return nil, true
	}

	switch msg.String() {
	case "g":
		if m.insightText != "" {
			m.motionPicker = true
			m.motionCursor = 0
		}
		return nil, true
	case "s":
		if m.insightText == "" {
			return nil, true
		}
		relatedID := ""
		title := "Behavioral Analysis"
		if r := s.ActiveInsight(); r != nil {
			relatedID = r.ID
			title = fmt.Sprintf("Behavioral Analysis %s", r.CreatedAt.Format("1/2/2006"))
		}
		if _, err := s.AddDraft(context.Background(), title, m.insightText, types.DraftBehavioralAnalysis, relatedID); err != nil {
			m.statusText = "Save failed: " + err.Error()
		} else {
			m.statusText = "Analysis saved to drafted documents"
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) onInsight(msg insightMsg) tea.Cmd {
	if !m.app.Session.IsCurrent(msg.gen) {
		return nil
	}
	m.busy = false
	m.statusText = "Ready"
	if msg.err != nil {
		m.insightText = ""
		m.statusText = "Deep analysis failed: " + msg.err.Error()
		return nil
	}
	m.insightText = msg.analysis.Text
	m.insightSources = msg.analysis.Sources
	return nil
}

func (m *Model) viewInsights() string {
	s := m.app.Session
	report := s.ActiveInsight()
	if report == nil {
		return m.theme.Footer.Render("Open an incident from the timeline with a to run a deep analysis.")
	}

	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Deep Analysis"))
	b.WriteString("  ")
	b.WriteString(m.theme.TopBarMeta.Render(fmt.Sprintf("incident of %s, %s",
		report.CreatedAt.Format("1/2/2006"), report.Category)))
	b.WriteString("\n\n")

	if m.motionPicker {
		b.WriteString(m.theme.CardTitle.Render("Draft a court filing from this analysis"))
		b.WriteString("\n\n")
		for i, mt := range motionTypes {
			cursor := "  "
			if i == m.motionCursor {
				cursor = "> "
			}
			line := cursor + mt
			if i == m.motionCursor {
				line = m.theme.CardTitle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		return b.String()
	}

	if m.insightText == "" {
		if m.busy {
			b.WriteString(m.theme.Footer.Render("Analyzing the incident against the full history…"))
		} else {
			b.WriteString(m.theme.Footer.Render("No analysis yet. Run one from the timeline with a."))
		}
		return b.String()
	}

	b.WriteString(m.md.Render(m.insightText))
	b.WriteString("\n")

	if len(m.insightSources) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.CardTitle.Render("Sources"))
		b.WriteString("\n")
		for _, src := range m.insightSources {
			title := src.Title
			if title == "" {
				title = src.URI
			}
			b.WriteString(fmt.Sprintf("  - %s\n", title))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("g generate court draft | s save analysis"))
	return b.String()
}
