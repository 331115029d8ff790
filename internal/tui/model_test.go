package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/ai"
	"custodyx/internal/app"
	"custodyx/internal/store"
	"custodyx/internal/types"
)

func newTestModel(t *testing.T, tier types.Tier) *Model {
	t.Helper()
	st := store.NewFileStore(t.TempDir())
	session := app.NewSession(st, tier, nil)
	session.Load(context.Background())
	application := &app.Application{
		Store:   st,
		AI:      app.NewOfflineAI(),
		Session: session,
	}
	m := New(application)
	m.width = 100
	m.height = 40
	m.applyLayout()
	return m
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func aiChatReply(text string) ai.AssistantReply {
	return ai.AssistantReply{Kind: ai.ReplyChat, Content: text}
}

func TestReportTitleSkipsHeadings(t *testing.T) {
	r := types.Report{
		GeneratedReportData: types.GeneratedReportData{
			Content: "### Summary of Events\nThe exchange was missed entirely.\n",
		},
	}
	if got := reportTitle(r); got != "The exchange was missed entirely." {
		t.Fatalf("reportTitle = %q", got)
	}
}

func TestReportTitleTruncatesLongLines(t *testing.T) {
	r := types.Report{
		GeneratedReportData: types.GeneratedReportData{
			Content: strings.Repeat("a", 100),
		},
	}
	got := reportTitle(r)
	if len([]rune(got)) > 60 {
		t.Fatalf("title too long: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestSidebarMarksLockedViews(t *testing.T) {
	m := newTestModel(t, types.TierFree)
	m.app.Session.ToggleSidebar()

	out := m.renderSidebar()
	if !strings.Contains(out, "Deep Analysis (Pro)") {
		t.Fatalf("insights should be marked Pro:\n%s", out)
	}
	if !strings.Contains(out, "Legal Assistant (Plus)") {
		t.Fatalf("assistant should be marked Plus:\n%s", out)
	}
	if strings.Contains(out, "Timeline (") {
		t.Fatalf("free views must not carry a tier marker:\n%s", out)
	}
}

func TestBlockedNavigationRendersUpgradePrompt(t *testing.T) {
	m := newTestModel(t, types.TierFree)
	m.app.Session.ChangeView(types.ViewInsights)

	out := m.renderContent()
	if !strings.Contains(out, "Deep Analysis") || !strings.Contains(out, "Pro") {
		t.Fatalf("upgrade prompt should name the feature and tier:\n%s", out)
	}
}

func TestIntakePrefixesPendingIncidentDate(t *testing.T) {
	m := newTestModel(t, types.TierFree)
	m.app.Session.OpenNewReportForDate("2026-08-14")
	m.resetIntake()

	m.input.SetValue("He arrived two hours late.")
	if _, handled := m.onIntakeKey(keyEnter()); !handled {
		t.Fatalf("enter should be consumed by the intake view")
	}

	last := m.chat[len(m.chat)-1]
	if last.Role != "user" {
		t.Fatalf("last turn should be the user's, got %s", last.Role)
	}
	want := "(Incident Date: 2026-08-14) He arrived two hours late."
	if last.Content != want {
		t.Fatalf("message = %q, want %q", last.Content, want)
	}
}

func TestIntakeSecondMessageHasNoDatePrefix(t *testing.T) {
	m := newTestModel(t, types.TierFree)
	m.app.Session.OpenNewReportForDate("2026-08-14")
	m.resetIntake()
	m.chat = append(m.chat, types.ChatMessage{Role: "user", Content: "(Incident Date: 2026-08-14) first"})

	m.input.SetValue("second detail")
	m.busy = false
	m.onIntakeKey(keyEnter())

	last := m.chat[len(m.chat)-1]
	if strings.Contains(last.Content, "Incident Date") {
		t.Fatalf("only the first user turn carries the date: %q", last.Content)
	}
}

func TestGenerateRequiresConversation(t *testing.T) {
	m := newTestModel(t, types.TierFree)
	m.resetIntake()

	cmd, _ := m.onIntakeKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd != nil || m.busy {
		t.Fatalf("report generation must not start from the greeting alone")
	}

	m.chat = append(m.chat,
		types.ChatMessage{Role: "user", Content: "detail one"},
		types.ChatMessage{Role: "model", Content: "noted"},
	)
	cmd, _ = m.onIntakeKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil || !m.busy {
		t.Fatalf("report generation should start once the conversation has detail")
	}
}

func TestStaleAssistantReplyDropped(t *testing.T) {
	m := newTestModel(t, types.TierPro)

	stale := m.app.Session.BeginRequest()
	m.app.Session.BeginRequest()

	m.onAssistantReply(assistantMsg{gen: stale, reply: aiChatReply("old news")})
	if len(m.transcript) != 0 {
		t.Fatalf("stale reply must not reach the transcript")
	}
}

func TestCalendarDateHelpers(t *testing.T) {
	m := newTestModel(t, types.TierFree)
	m.calMonth = time.Date(2024, time.February, 1, 0, 0, 0, 0, time.Local)
	m.calDay = 31
	m.clampCalDay()
	if m.calDay != 29 {
		t.Fatalf("February 2024 has 29 days, clamped to %d", m.calDay)
	}
	if got := m.calSelectedDate(); got != "2024-02-29" {
		t.Fatalf("selected date = %q", got)
	}
}

func TestCalendarEnterHandsOffToIntake(t *testing.T) {
	m := newTestModel(t, types.TierFree)
	m.app.Session.ChangeView(types.ViewCalendar)
	m.calMonth = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.Local)
	m.calDay = 14

	m.onCalendarKey(keyEnter())

	if m.app.Session.ActiveView() != types.ViewNewReport {
		t.Fatalf("view = %s, want new_report", m.app.Session.ActiveView())
	}
	if m.app.Session.PendingIncidentDate() != "2026-08-14" {
		t.Fatalf("pending date = %q", m.app.Session.PendingIncidentDate())
	}
}

func TestSplitChildren(t *testing.T) {
	got := splitChildren(" Ava , Ben,,  ")
	if len(got) != 2 || got[0] != "Ava" || got[1] != "Ben" {
		t.Fatalf("splitChildren = %v", got)
	}
}

func TestNextRoleCycles(t *testing.T) {
	if nextRole("") != "Mother" || nextRole("Mother") != "Father" || nextRole("Father") != "" {
		t.Fatalf("role cycle broken")
	}
}
