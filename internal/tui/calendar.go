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

func (m *Model) calSelectedDate() string {
	return fmt.Sprintf("%04d-%02d-%02d", m.calMonth.Year(), int(m.calMonth.Month()), m.calDay)
}

func daysInMonth(month time.Time) int {
	return month.AddDate(0, 1, -1).Day()
}

func (m *Model) clampCalDay() {
	if last := daysInMonth(m.calMonth); m.calDay > last {
		m.calDay = last
	}
	if m.calDay < 1 {
		m.calDay = 1
	}
}

func (m *Model) onCalendarKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := m.app.Session

	if m.eventMode {
		switch {
		case key.Matches(msg, m.keys.Enter):
			title := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.eventMode = false
			if title == "" {
				return nil, true
			}
			event := types.CalendarEvent{
				Title:     title,
				EventDate: m.calSelectedDate(),
				EventType: types.EventCustom,
				Color:     "#7aa2ff",
			}
			if _, err := s.AddEvent(context.Background(), event); err != nil {
				m.statusText = "Add event failed: " + err.Error()
			} else {
				m.statusText = fmt.Sprintf("Event added on %s", event.EventDate)
			}
			return nil, true
		case key.Matches(msg, m.keys.Back):
			m.eventMode = false
			m.input.Reset()
			return nil, true
		}
		return nil, false
	}

	switch msg.String() {
	case "left":
		m.calDay--
		m.clampCalDay()
		return nil, true
	case "right":
		m.calDay++
		m.clampCalDay()
		return nil, true
	case "up":
		m.calDay -= 7
		m.clampCalDay()
		return nil, true
	case "down":
		m.calDay += 7
		m.clampCalDay()
		return nil, true
	case "[":
		m.calMonth = m.calMonth.AddDate(0, -1, 0)
		m.clampCalDay()
		return nil, true
	case "]":
		m.calMonth = m.calMonth.AddDate(0, 1, 0)
		m.clampCalDay()
		return nil, true
	case " ":
		for _, r := range m.reportsOnDate(m.calSelectedDate()) {
			s.ToggleReportSelection(r.ID)
		}
		return nil, true
	case "a":
		m.eventMode = true
		m.input.Reset()
		m.input.Placeholder = "Event title for " + m.calSelectedDate()
		return nil, true
	case "x":
		for _, e := range m.eventsOnDate(m.calSelectedDate()) {
			if err := s.DeleteEvent(context.Background(), e.ID); err != nil {
				m.statusText = "Delete failed: " + err.Error()
			} else {
				m.statusText = "Event deleted"
			}
			return nil, true
		}
		return nil, true
	case "enter":
		s.OpenNewReportForDate(m.calSelectedDate())
		m.resetIntake()
		return nil, true
	}
	return nil, false
}

func (m *Model) reportsOnDate(date string) []types.Report {
	var out []types.Report
	for _, r := range m.app.Session.Reports() {
		if r.CreatedAt.Format("2006-01-02") == date {
			out = append(out, r)
		}
	}
	return out
}

func (m *Model) eventsOnDate(date string) []types.CalendarEvent {
	var out []types.CalendarEvent
	for _, e := range m.app.Session.Events() {
		if e.EventDate == date {
			out = append(out, e)
		}
	}
	return out
}

func (m *Model) viewCalendar() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render(m.calMonth.Format("January 2006")))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Footer.Render("  Su   Mo   Tu   We   Th   Fr   Sa"))
	b.WriteString("\n")

	firstWeekday := int(m.calMonth.Weekday())
	last := daysInMonth(m.calMonth)

	cell := 0
	for i := 0; i < firstWeekday; i++ {
		b.WriteString("     ")
		cell++
	}
	for day := 1; day <= last; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", m.calMonth.Year(), int(m.calMonth.Month()), day)
		marker := " "
		switch {
		case len(m.reportsOnDate(date)) > 0 && len(m.eventsOnDate(date)) > 0:
			marker = "#"
		case len(m.reportsOnDate(date)) > 0:
			marker = "*"
		case len(m.eventsOnDate(date)) > 0:
			marker = "+"
		}
		text := fmt.Sprintf("%3d%s ", day, marker)
		if day == m.calDay {
			text = m.theme.SidebarSelected.Render(text)
		} else if marker != " " {
			text = m.theme.Tag.Render(text)
		}
		b.WriteString(text)
		cell++
		if cell%7 == 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.theme.Footer.Render("* incident  + event  # both"))
	b.WriteString("\n\n")

	selected := m.calSelectedDate()
	b.WriteString(m.theme.CardTitle.Render(selected))
	b.WriteString("\n")

	dayReports := m.reportsOnDate(selected)
	dayEvents := m.eventsOnDate(selected)
	if len(dayReports) == 0 && len(dayEvents) == 0 {
		b.WriteString(m.theme.Footer.Render("  Nothing on this day. Press enter to document an incident for it."))
		b.WriteString("\n")
		return b.String()
	}
	for _, r := range dayReports {
		mark := "[ ]"
		if m.app.Session.IsSelected(r.ID) {
			mark = m.theme.SelectMark.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", mark, m.theme.Tag.Render(string(r.Category)), reportTitle(r)))
	}
	for _, e := range dayEvents {
		b.WriteString(fmt.Sprintf("  +   %s", e.Title))
		if e.Description != "" {
			b.WriteString("  " + m.theme.Footer.Render(e.Description))
		}
		b.WriteString("\n")
	}
	return b.String()
}
