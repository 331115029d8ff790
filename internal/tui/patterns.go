package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/types"
)

func (m *Model) onPatternsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	categories := types.AllCategories()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.categoryCursor > 0 {
			m.categoryCursor--
		}
		return nil, true
	case key.Matches(msg, m.keys.Down):
		if m.categoryCursor < len(categories)-1 {
			m.categoryCursor++
		}
		return nil, true
	case key.Matches(msg, m.keys.Enter):
		if m.busy {
			return nil, true
		}
		category := categories[m.categoryCursor]
		m.busy = true
		m.statusText = fmt.Sprintf("Analyzing %s incidents…", category)
		return tea.Batch(m.themesCmd(category), m.spin.Tick), true
	}
	return nil, false
}

func (m *Model) onThemes(msg themesMsg) tea.Cmd {
	if !m.app.Session.IsCurrent(msg.gen) {
		return nil
	}
	m.busy = false
	m.statusText = "Ready"
	if msg.err != nil {
		m.statusText = "Pattern analysis failed: " + msg.err.Error()
		return nil
	}
	m.themes = msg.themes
	m.themesFor = msg.category
	return nil
}

func (m *Model) viewPatterns() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Behavioral Patterns"))
	b.WriteString("\n\n")

	counts := make(map[types.IncidentCategory]int)
	for _, r := range m.app.Session.Reports() {
		counts[r.Category]++
	}

	for i, c := range types.AllCategories() {
		cursor := "  "
		if i == m.categoryCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-30s %d", cursor, c, counts[c])
		if i == m.categoryCursor {
			line = m.theme.CardTitle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.themes) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.CardTitle.Render(fmt.Sprintf("Recurring themes in %s", m.themesFor)))
		b.WriteString("\n\n")
		maxVal := 1
		for _, t := range m.themes {
			if t.Value > maxVal {
				maxVal = t.Value
			}
		}
		for _, t := range m.themes {
			bar := strings.Repeat("█", maxInt(1, t.Value*20/maxVal))
			b.WriteString(fmt.Sprintf("  %-28s %s %d\n", t.Name, m.theme.Tag.Render(bar), t.Value))
		}
	} else {
		b.WriteString("\n")
		b.WriteString(m.theme.Footer.Render("Pick a category and press enter to surface recurring themes."))
	}
	return b.String()
}
