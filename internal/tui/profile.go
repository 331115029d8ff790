package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	profFieldName = iota
	profFieldRole
	profFieldChildren
	profFieldCount
)

func (m *Model) onProfileKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.profEditing {
		switch {
		case key.Matches(msg, m.keys.Enter):
			value := strings.TrimSpace(m.input.Value())
			switch m.profCursor {
			case profFieldName:
				m.profDraft.Name = value
			case profFieldChildren:
				m.profDraft.Children = splitChildren(value)
			}
			m.profEditing = false
			m.input.Reset()
			return nil, true
		case key.Matches(msg, m.keys.Back):
			m.profEditing = false
			m.input.Reset()
			return nil, true
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.profCursor > 0 {
			m.profCursor--
		}
		return nil, true
	case key.Matches(msg, m.keys.Down):
		if m.profCursor < profFieldCount-1 {
			m.profCursor++
		}
		return nil, true
	case key.Matches(msg, m.keys.Enter):
		switch m.profCursor {
		case profFieldRole:
			m.profDraft.Role = nextRole(m.profDraft.Role)
		case profFieldName:
			m.profEditing = true
			m.input.Reset()
			m.input.SetValue(m.profDraft.Name)
			m.input.Placeholder = "Your name"
		case profFieldChildren:
			m.profEditing = true
			m.input.Reset()
			m.input.SetValue(strings.Join(m.profDraft.Children, ", "))
			m.input.Placeholder = "Children, comma separated"
		}
		return nil, true
	case key.Matches(msg, m.keys.Save):
		if err := m.app.Session.SaveProfile(context.Background(), m.profDraft); err != nil {
			m.statusText = "Save failed: " + err.Error()
		} else {
			m.statusText = "Profile saved"
		}
		return nil, true
	}
	return nil, false
}

func nextRole(role string) string {
	switch role {
	case "":
		return "Mother"
	case "Mother":
		return "Father"
	default:
		return ""
	}
}

func splitChildren(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (m *Model) viewProfile() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Profile"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Footer.Render("The profile personalizes reports, analyses and drafts."))
	b.WriteString("\n\n")

	role := m.profDraft.Role
	if role == "" {
		role = "(not set)"
	}
	children := strings.Join(m.profDraft.Children, ", ")
	if children == "" {
		children = "(none listed)"
	}

	fields := []struct {
		label string
		value string
	}{
		{"Name", valueOr(m.profDraft.Name, "(not set)")},
		{"Role", role},
		{"Children", children},
	}
	for i, f := range fields {
		cursor := "  "
		if i == m.profCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-10s %s", cursor, f.label, f.value)
		if i == m.profCursor {
			line = m.theme.CardTitle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.profEditing {
		b.WriteString(m.theme.Footer.Render("Type the new value below and press enter."))
	} else {
		b.WriteString(m.theme.Footer.Render("enter edits the field (role cycles), ctrl+s saves"))
	}
	return b.String()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
