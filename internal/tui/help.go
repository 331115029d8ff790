package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit     key.Binding
	Sidebar  key.Binding
	Help     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Analyze  key.Binding
	Discuss  key.Binding
	Select   key.Binding
	Delete   key.Binding
	Evidence key.Binding
	Generate key.Binding
	Save     key.Binding
	Upload   key.Binding
	Redraft  key.Binding
	AddEvent key.Binding
	Sender   key.Binding
	PrevMo   key.Binding
	NextMo   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "menu"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select/send"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down", "move down"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "deep analysis"),
		),
		Discuss: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "discuss with assistant"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select for evidence"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Evidence: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "evidence package"),
		),
		Generate: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "generate report"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),
		Redraft: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "redraft"),
		),
		AddEvent: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add event"),
		),
		Sender: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "switch sender"),
		),
		PrevMo: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous month"),
		),
		NextMo: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
	}
}

func (m *Model) viewHelp() string {
	var b strings.Builder

	b.WriteString(m.theme.PaneTitle.Render("custodyx help"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.CardTitle.Render("navigation"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  open the menu, pick a view with up/down + enter\n", m.theme.Tag.Render("tab")))
	b.WriteString(fmt.Sprintf("  %s  go back / dismiss\n", m.theme.Tag.Render("esc")))
	b.WriteString(fmt.Sprintf("  %s  quit\n", m.theme.Tag.Render("ctrl+c")))
	b.WriteString("\n")

	b.WriteString(m.theme.CardTitle.Render("timeline"))
	b.WriteString("\n")
	b.WriteString("  a      deep analysis of the highlighted incident\n")
	b.WriteString("  d      discuss the highlighted incident with the legal assistant\n")
	b.WriteString("  space  select/unselect for the evidence package\n")
	b.WriteString("  x      delete the highlighted incident\n")
	b.WriteString("\n")

	b.WriteString(m.theme.CardTitle.Render("documenting"))
	b.WriteString("\n")
	b.WriteString("  New Report is a guided chat. Describe what happened; once the\n")
	b.WriteString("  conversation has enough detail, ctrl+r turns it into a formal report.\n")
	b.WriteString("\n")

	b.WriteString(m.theme.CardTitle.Render("evidence"))
	b.WriteString("\n")
	b.WriteString("  With incidents selected on the timeline or calendar, ctrl+e compiles\n")
	b.WriteString("  a court-ready evidence package from the selection.\n")
	b.WriteString("\n")

	b.WriteString(m.theme.Footer.Render("press any key to close"))
	return b.String()
}
