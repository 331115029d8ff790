package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/types"
)

func (m *Model) onEvidenceKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.evidenceOpen = false
		m.evidenceText = ""
		return nil
	case key.Matches(msg, m.keys.Save):
		if m.evidenceText == "" {
			return nil
		}
		title := fmt.Sprintf("Evidence Package %s", time.Now().Format("1/2/2006"))
		if _, err := m.app.Session.AddDraft(context.Background(), title, m.evidenceText, types.DraftLegalDraft, ""); err != nil {
			m.statusText = "Save failed: " + err.Error()
			return nil
		}
		m.app.Session.ClearSelection()
		m.evidenceOpen = false
		m.evidenceText = ""
		m.statusText = fmt.Sprintf("Saved %q to drafted documents", title)
		return nil
	}
	return m.updateComponents(msg)
}

func (m *Model) onEvidence(msg evidenceMsg) tea.Cmd {
	if !m.app.Session.IsCurrent(msg.gen) {
		return nil
	}
	m.busy = false
	m.statusText = "Ready"
	if msg.err != nil {
		m.evidenceOpen = false
		m.statusText = "Evidence package failed: " + msg.err.Error()
		return nil
	}
	m.evidenceText = msg.text
	m.vp.GotoTop()
	return nil
}

func (m *Model) viewEvidence() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Evidence Package"))
	b.WriteString("  ")
	b.WriteString(m.theme.TopBarMeta.Render(fmt.Sprintf("%d incidents selected", m.app.Session.SelectedCount())))
	b.WriteString("\n\n")

	if m.evidenceText == "" {
		b.WriteString(m.theme.Footer.Render("Compiling the selected incidents into a court-ready package…"))
		return b.String()
	}

	b.WriteString(m.md.Render(m.evidenceText))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Footer.Render("ctrl+s save to drafted documents | esc close"))
	return b.String()
}
