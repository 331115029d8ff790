package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/types"
)

func (m *Model) resetIntake() {
	m.chat = []types.ChatMessage{{Role: "model", Content: intakeGreeting}}
	m.intakePreview = nil
}

func (m *Model) onIntakeKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.intakePreview != nil {
		switch {
		case key.Matches(msg, m.keys.Enter):
			return m.saveGeneratedReport(), true
		case key.Matches(msg, m.keys.Back):
			m.intakePreview = nil
			m.statusText = "Back to the conversation"
			return nil, true
		}
		return nil, true
	}

	switch {
	case key.Matches(msg, m.keys.Enter):
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.busy {
			return nil, true
		}
		if date := m.app.Session.PendingIncidentDate(); date != "" && m.userTurns() == 0 {
			text = fmt.Sprintf("(Incident Date: %s) %s", date, text)
		}
		m.chat = append(m.chat, types.ChatMessage{Role: "user", Content: text})
		m.input.Reset()
		m.busy = true
		m.statusText = "Thinking…"
		return tea.Batch(m.chatCmd(m.chat), m.spin.Tick), true

	case key.Matches(msg, m.keys.Generate):
		if len(m.chat) > 2 && !m.busy {
			m.busy = true
			m.statusText = "Generating report…"
			return tea.Batch(m.generateReportCmd(m.chat), m.spin.Tick), true
		}
		return nil, true

	case key.Matches(msg, m.keys.Back):
		m.resetIntake()
		return nil, true
	}
	return nil, false
}

func (m *Model) userTurns() int {
	n := 0
	for _, msg := range m.chat {
		if msg.Role == "user" {
			n++
		}
	}
	return n
}

func (m *Model) onChatReply(msg chatReplyMsg) tea.Cmd {
	if !m.app.Session.IsCurrent(msg.gen) {
		return nil
	}
	m.busy = false
	m.statusText = "Ready"
	if msg.err != nil {
		m.chat = append(m.chat, types.ChatMessage{
			Role:    "model",
			Content: "I'm sorry, I encountered an error. Could you please repeat that?",
		})
		return nil
	}
	m.chat = append(m.chat, types.ChatMessage{Role: "model", Content: msg.text})
	m.vp.GotoBottom()
	return nil
}

func (m *Model) onReportGenerated(msg reportGeneratedMsg) tea.Cmd {
	if !m.app.Session.IsCurrent(msg.gen) {
		return nil
	}
	m.busy = false
	m.statusText = "Ready"
	if msg.err != nil {
		m.chat = append(m.chat, types.ChatMessage{
			Role:    "model",
			Content: "I'm sorry, I couldn't generate the report from our conversation. Please add more detail and try again.",
		})
		return nil
	}
	data := msg.data
	m.intakePreview = &data
	m.statusText = "Review the report"
	return nil
}

func (m *Model) saveGeneratedReport() tea.Cmd {
	if m.intakePreview == nil {
		return nil
	}
	report, err := m.app.Session.AddReport(context.Background(), *m.intakePreview, nil)
	if err != nil {
		m.statusText = "Save failed: " + err.Error()
		return nil
	}
	m.resetIntake()
	m.app.Session.ChangeView(types.ViewTimeline)
	m.timelineCursor = 0
	m.expandedReport = report.ID
	m.statusText = "Report saved"
	return nil
}

func (m *Model) viewIntake() string {
	var b strings.Builder

	if m.intakePreview != nil {
		b.WriteString(m.theme.PaneTitle.Render("Generated Report"))
		b.WriteString("\n\n")
		b.WriteString(m.md.Render(m.intakePreview.Content))
		b.WriteString("\n\n")
		b.WriteString(m.theme.Tag.Render(fmt.Sprintf("category: %s", m.intakePreview.Category)))
		b.WriteString("\n")
		if len(m.intakePreview.Tags) > 0 {
			b.WriteString(m.theme.Tag.Render("tags: " + strings.Join(m.intakePreview.Tags, ", ")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.theme.Footer.Render("enter save | esc keep editing"))
		return b.String()
	}

	b.WriteString(m.theme.PaneTitle.Render("New Report"))
	if date := m.app.Session.PendingIncidentDate(); date != "" {
		b.WriteString(m.theme.TopBarMeta.Render("  documenting " + date))
	}
	b.WriteString("\n\n")

	for _, msg := range m.chat {
		if msg.Role == "user" {
			b.WriteString(m.theme.TopBarBadge.Render("You"))
		} else {
			b.WriteString(m.theme.CardTitle.Render("Guide"))
		}
		b.WriteString("\n")
		b.WriteString(m.md.Render(msg.Content))
		b.WriteString("\n\n")
	}

	if len(m.chat) > 2 && !m.busy {
		b.WriteString(m.theme.OkText.Render("Enough detail collected. ctrl+r generates the formal report."))
		b.WriteString("\n")
	}
	return b.String()
}
