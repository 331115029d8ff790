package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/types"
)

func (m *Model) senderLabel(sender types.MessageSender) string {
	if sender == types.SenderUser {
		return "You"
	}
	if p := m.app.Session.Profile(); p != nil {
		return p.OtherParentRole()
	}
	return "Other parent"
}

func (m *Model) onMessagingKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Sender):
		if m.sender == types.SenderUser {
			m.sender = types.SenderOtherParent
		} else {
			m.sender = types.SenderUser
		}
		m.statusText = fmt.Sprintf("Logging as: %s", m.senderLabel(m.sender))
		return nil, true

	case key.Matches(msg, m.keys.Enter):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return nil, true
		}
		if _, err := m.app.Session.LogMessage(context.Background(), m.sender, text); err != nil {
			m.statusText = "Log failed: " + err.Error()
			return nil, true
		}
		m.input.Reset()
		m.vp.GotoBottom()
		return nil, true
	}
	return nil, false
}

func (m *Model) viewMessaging() string {
	messages := m.app.Session.Messages()
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Communication Log"))
	b.WriteString("  ")
	b.WriteString(m.theme.TopBarMeta.Render("logging as " + m.senderLabel(m.sender)))
	b.WriteString("\n\n")

	if len(messages) == 0 {
		b.WriteString(m.theme.Footer.Render("Record exchanges with the other parent here, in the order they happened. Entries are permanent."))
		return b.String()
	}

	for _, msg := range messages {
		var who string
		if msg.Sender == types.SenderUser {
			who = m.theme.TopBarBadge.Render(m.senderLabel(types.SenderUser))
		} else {
			who = m.theme.CardTitle.Render(m.senderLabel(types.SenderOtherParent))
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", who, m.theme.Footer.Render(msg.Timestamp.Format("1/2/2006 3:04 PM"))))
		b.WriteString(msg.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}
