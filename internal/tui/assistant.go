package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/ai"
	"custodyx/internal/types"
)

// enterAssistant runs the pending hand-off work when the legal assistant
// opens: a seeded drafting query is sent immediately, and a report handed
// over for discussion gets its initial legal analysis.
func (m *Model) enterAssistant() tea.Cmd {
	s := m.app.Session

	if query := s.InitialLegalQuery(); query != "" {
		s.ClearInitialLegalQuery()
		m.transcript = append(m.transcript, assistantEntry{Role: "user", Content: query})
		m.busy = true
		m.statusText = "Drafting…"
		return tea.Batch(m.assistantCmd(query), m.spin.Tick)
	}

	if report := s.ActiveReport(); report != nil {
		m.busy = true
		m.statusText = "Reviewing the incident…"
		return tea.Batch(m.initialLegalCmd(*report), m.spin.Tick)
	}
	return nil
}

func (m *Model) onAssistantKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		query := strings.TrimSpace(m.input.Value())
		if query == "" || m.busy {
			return nil, true
		}
		m.transcript = append(m.transcript, assistantEntry{Role: "user", Content: query})
		m.input.Reset()
		m.busy = true
		m.statusText = "Thinking…"
		return tea.Batch(m.assistantCmd(query), m.spin.Tick), true

	case key.Matches(msg, m.keys.Save):
		return m.saveLastDocument(), true
	}
	return nil, false
}

// saveLastDocument stores the most recent document reply in the drafted
// documents library.
func (m *Model) saveLastDocument() tea.Cmd {
	for i := len(m.transcript) - 1; i >= 0; i-- {
		entry := m.transcript[i]
		if !entry.IsDocument {
			continue
		}
		relatedID := ""
		if r := m.app.Session.ActiveReport(); r != nil {
			relatedID = r.ID
		}
		_, err := m.app.Session.AddDraft(context.Background(), entry.Title, entry.DocumentText, types.DraftLegalDraft, relatedID)
		if err != nil {
			m.statusText = "Save failed: " + err.Error()
		} else {
			m.statusText = fmt.Sprintf("Saved %q to drafted documents", entry.Title)
		}
		return nil
	}
	m.statusText = "No document to save yet"
	return nil
}

func (m *Model) onAssistantReply(msg assistantMsg) tea.Cmd {
	if !m.app.Session.IsCurrent(msg.gen) {
		return nil
	}
	m.busy = false
	m.statusText = "Ready"
	if msg.err != nil {
		m.transcript = append(m.transcript, assistantEntry{
			Role:    "error",
			Content: "I'm sorry, an unexpected error occurred while processing your request.",
		})
		return nil
	}

	reply := msg.reply
	entry := assistantEntry{
		Role:    "model",
		Content: reply.Content,
		Sources: reply.Sources,
	}
	if reply.Kind == ai.ReplyDocument {
		entry.IsDocument = true
		entry.Title = reply.Title
		entry.DocumentText = reply.DocumentText
	}
	m.transcript = append(m.transcript, entry)
	m.vp.GotoBottom()
	return nil
}

func (m *Model) viewAssistant() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Legal Assistant"))
	if r := m.app.Session.ActiveReport(); r != nil {
		b.WriteString(m.theme.TopBarMeta.Render(fmt.Sprintf("  discussing the incident of %s", r.CreatedAt.Format("1/2/2006"))))
	} else if m.app.Session.AnalysisContext() != "" {
		b.WriteString(m.theme.TopBarMeta.Render("  drafting from a deep analysis"))
	}
	b.WriteString("\n\n")

	if len(m.transcript) == 0 && !m.busy {
		b.WriteString(m.theme.Footer.Render("Ask about your documented history, Indiana procedure, or request a court draft."))
		return b.String()
	}

	for _, entry := range m.transcript {
		switch entry.Role {
		case "user":
			b.WriteString(m.theme.TopBarBadge.Render("You"))
		case "error":
			b.WriteString(m.theme.ErrText.Render("Error"))
		default:
			b.WriteString(m.theme.CardTitle.Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(m.md.Render(entry.Content))
		b.WriteString("\n")

		if entry.IsDocument {
			b.WriteString("\n")
			b.WriteString(m.theme.CardTitle.Render("Document: " + entry.Title))
			b.WriteString("\n")
			b.WriteString(m.md.Render(entry.DocumentText))
			b.WriteString("\n")
			b.WriteString(m.theme.OkText.Render("ctrl+s saves this document"))
			b.WriteString("\n")
		}

		if len(entry.Sources) > 0 {
			b.WriteString(m.theme.Footer.Render("sources:"))
			b.WriteString("\n")
			for _, src := range entry.Sources {
				title := src.Title
				if title == "" {
					title = src.URI
				}
				b.WriteString(m.theme.Footer.Render("  - " + title))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
