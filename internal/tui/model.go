package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"custodyx/internal/app"
	"custodyx/internal/types"
)

// sidebarViews is the navigation order of the menu.
var sidebarViews = []types.View{
	types.ViewDashboard,
	types.ViewTimeline,
	types.ViewNewReport,
	types.ViewCalendar,
	types.ViewPatterns,
	types.ViewInsights,
	types.ViewAssistant,
	types.ViewDocuments,
	types.ViewDraftedDocuments,
	types.ViewMessaging,
	types.ViewProfile,
}

const intakeGreeting = "Hello, I'm here to help you document a co-parenting incident. Please describe what happened, including the date, time, location, and who was involved."

// assistantEntry is one rendered turn of the legal assistant conversation.
type assistantEntry struct {
	Role         string // user|model|error
	Content      string
	IsDocument   bool
	Title        string
	DocumentText string
	Sources      []types.Source
}

type Model struct {
	app   *app.Application
	theme Theme
	keys  keyMap
	md    *markdownRenderer

	width  int
	height int
	ready  bool

	spin       spinner.Model
	busy       bool
	statusText string

	showHelp     bool
	sidebarIndex int

	vp    viewport.Model
	input textarea.Model

	// new report intake
	chat          []types.ChatMessage
	intakePreview *types.GeneratedReportData

	// timeline
	timelineCursor int
	expandedReport string

	// patterns
	categoryCursor int
	themes         []types.Theme
	themesFor      types.IncidentCategory

	// deep analysis
	insightText    string
	insightSources []types.Source
	motionPicker   bool
	motionCursor   int

	// legal assistant
	transcript []assistantEntry

	// documents
	docCursor   int
	docAnalyses map[string]string
	uploadMode  bool

	// drafted documents
	draftCursor int
	draftOpen   bool

	// calendar
	calMonth  time.Time
	calDay    int
	eventMode bool

	// communication log
	sender types.MessageSender

	// profile
	profCursor  int
	profEditing bool
	profDraft   types.UserProfile

	// evidence package overlay
	evidenceOpen bool
	evidenceText string
}

func New(application *app.Application) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type here, then press Enter."
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetHeight(1)
	ta.Prompt = " "
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()

	t := NewTheme()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = t.Spinner

	now := time.Now()
	m := &Model{
		app:         application,
		theme:       t,
		keys:        defaultKeyMap(),
		md:          newMarkdownRenderer(96),
		width:       100,
		height:      30,
		spin:        sp,
		statusText:  "Ready",
		input:       ta,
		docAnalyses: make(map[string]string),
		calMonth:    time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local),
		calDay:      now.Day(),
		sender:      types.SenderUser,
	}
	m.resetIntake()
	if p := application.Session.Profile(); p != nil {
		m.profDraft = *p
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if m.ready {
		m.syncViewport()
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return cmd

	case chatReplyMsg:
		return m.onChatReply(msg)
	case reportGeneratedMsg:
		return m.onReportGenerated(msg)
	case themesMsg:
		return m.onThemes(msg)
	case insightMsg:
		return m.onInsight(msg)
	case assistantMsg:
		return m.onAssistantReply(msg)
	case docAnalysisMsg:
		return m.onDocAnalysis(msg)
	case redraftMsg:
		return m.onRedraft(msg)
	case evidenceMsg:
		return m.onEvidence(msg)

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) onKey(msg tea.KeyMsg) tea.Cmd {
	s := m.app.Session

	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return nil
	}

	if s.UpgradePrompt() != nil {
		if key.Matches(msg, m.keys.Enter) || key.Matches(msg, m.keys.Back) {
			s.DismissUpgradePrompt()
		}
		return nil
	}

	if m.evidenceOpen {
		return m.onEvidenceKey(msg)
	}

	if s.SidebarOpen() {
		return m.onSidebarKey(msg)
	}

	if key.Matches(msg, m.keys.Sidebar) {
		s.ToggleSidebar()
		m.sidebarIndex = m.currentSidebarIndex()
		return nil
	}

	if !m.typing() {
		if key.Matches(msg, m.keys.Help) {
			m.showHelp = true
			return nil
		}
	}

	if key.Matches(msg, m.keys.Evidence) && s.EvidenceBuilderAvailable() {
		m.evidenceOpen = true
		m.evidenceText = ""
		m.busy = true
		m.statusText = "Compiling evidence package…"
		return tea.Batch(m.evidenceCmd(), m.spin.Tick)
	}

	cmd, handled := m.onViewKey(msg)
	if handled {
		return cmd
	}
	return m.updateComponents(msg)
}

// onViewKey routes a key to the active view. The boolean reports whether the
// view consumed it; unconsumed keys continue to the shared input/viewport.
func (m *Model) onViewKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch m.app.Session.ActiveView() {
	case types.ViewDashboard:
		return m.onDashboardKey(msg)
	case types.ViewTimeline:
		return m.onTimelineKey(msg)
	case types.ViewNewReport:
		return m.onIntakeKey(msg)
	case types.ViewPatterns:
		return m.onPatternsKey(msg)
	case types.ViewInsights:
		return m.onInsightsKey(msg)
	case types.ViewAssistant:
		return m.onAssistantKey(msg)
	case types.ViewDocuments:
		return m.onDocumentsKey(msg)
	case types.ViewDraftedDocuments:
		return m.onDraftsKey(msg)
	case types.ViewCalendar:
		return m.onCalendarKey(msg)
	case types.ViewMessaging:
		return m.onMessagingKey(msg)
	case types.ViewProfile:
		return m.onProfileKey(msg)
	}
	return nil, false
}

func (m *Model) onSidebarKey(msg tea.KeyMsg) tea.Cmd {
	s := m.app.Session
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sidebarIndex > 0 {
			m.sidebarIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sidebarIndex < len(sidebarViews)-1 {
			m.sidebarIndex++
		}
	case key.Matches(msg, m.keys.Enter):
		target := sidebarViews[m.sidebarIndex]
		if s.ChangeView(target) {
			return m.onViewEntered(target)
		}
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Sidebar):
		s.ToggleSidebar()
	}
	return nil
}

// onViewEntered runs entry work for views that start with a pending hand-off.
func (m *Model) onViewEntered(target types.View) tea.Cmd {
	switch target {
	case types.ViewAssistant:
		m.input.Placeholder = "Ask a question or request a draft."
		return m.enterAssistant()
	case types.ViewMessaging:
		m.input.Placeholder = "Write the message exactly as it was sent."
	case types.ViewProfile:
		if p := m.app.Session.Profile(); p != nil {
			m.profDraft = *p
		}
		m.profEditing = false
		m.profCursor = 0
	case types.ViewNewReport:
		m.input.Placeholder = "Describe what happened."
		if len(m.chat) <= 1 {
			m.resetIntake()
		}
	}
	return nil
}

// typing reports whether the active view routes printable keys into the
// shared text input.
func (m *Model) typing() bool {
	switch m.app.Session.ActiveView() {
	case types.ViewNewReport:
		return m.intakePreview == nil
	case types.ViewAssistant, types.ViewMessaging:
		return true
	case types.ViewDocuments:
		return m.uploadMode
	case types.ViewCalendar:
		return m.eventMode
	case types.ViewProfile:
		return m.profEditing
	}
	return false
}

func (m *Model) updateComponents(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.typing() {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	} else if m.ready {
		m.vp, cmd = m.vp.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) currentSidebarIndex() int {
	active := m.app.Session.ActiveView()
	for i, v := range sidebarViews {
		if v == active {
			return i
		}
	}
	return 0
}

func (m *Model) applyLayout() {
	contentW := m.contentWidth()
	contentH := m.contentHeight()
	if !m.ready {
		m.vp = viewport.New(contentW, contentH)
		m.vp.Style = lipgloss.NewStyle()
		m.ready = true
	} else {
		m.vp.Width = contentW
		m.vp.Height = contentH
	}
	m.input.SetWidth(maxInt(10, m.width-6))
	m.md = newMarkdownRenderer(contentW)
}

func (m *Model) contentWidth() int {
	w := m.width - 4
	if m.app.Session.SidebarOpen() {
		w -= sidebarWidth
	}
	return maxInt(20, w)
}

func (m *Model) contentHeight() int {
	h := m.height - 4 // top bar, pane frame, footer
	if m.typing() {
		h -= 3
	}
	return maxInt(3, h)
}

func (m *Model) syncViewport() {
	m.vp.Width = m.contentWidth()
	m.vp.Height = m.contentHeight()
	m.vp.SetContent(m.renderContent())
}

const sidebarWidth = 26

func (m *Model) View() string {
	if !m.ready {
		return "…"
	}

	top := m.renderTopBar()
	pane := m.theme.Pane.Width(m.contentWidth() + 2).Render(m.vp.View())

	var body string
	if m.app.Session.SidebarOpen() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), pane)
	} else {
		body = pane
	}

	parts := []string{top, body}
	if m.typing() {
		parts = append(parts, m.theme.InputBoxF.Width(m.width-4).Render(m.input.View()))
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderTopBar() string {
	s := m.app.Session
	title := m.theme.TopBarTitle.Render("CustodyX")
	badge := m.theme.TopBarBadge.Render(s.Tier().DisplayName())
	view := m.theme.TopBarMeta.Render(s.ActiveView().DisplayName())
	meta := m.theme.TopBarMeta.Render(fmt.Sprintf("%d incidents", len(s.Reports())))
	return m.theme.TopBar.Render(fmt.Sprintf(" %s  %s  |  %s  |  %s", title, badge, view, meta))
}

func (m *Model) renderSidebar() string {
	s := m.app.Session
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Menu"))
	b.WriteString("\n\n")
	for i, v := range sidebarViews {
		label := v.DisplayName()
		required := types.RequiredTier(v)
		locked := !s.Tier().AtLeast(required)

		style := m.theme.SidebarItem
		marker := "  "
		if i == m.sidebarIndex {
			style = m.theme.SidebarSelected
			marker = "> "
		}
		if locked {
			style = m.theme.SidebarLocked
			label += fmt.Sprintf(" (%s)", required.DisplayName())
		}
		b.WriteString(style.Render(marker + label))
		b.WriteString("\n")
	}
	return m.theme.Pane.Width(sidebarWidth - 2).Height(m.contentHeight()).Render(b.String())
}

func (m *Model) renderFooter() string {
	if m.busy {
		return m.theme.Footer.Render(fmt.Sprintf(" %s %s", m.spin.View(), m.statusText))
	}
	hints := m.footerHints()
	return m.theme.Footer.Render(" " + hints + "  |  " + m.statusText)
}

func (m *Model) footerHints() string {
	common := "tab menu | ctrl+c quit"
	switch m.app.Session.ActiveView() {
	case types.ViewTimeline:
		h := "a analyze | d discuss | space select | x delete | ? help | " + common
		if m.app.Session.EvidenceBuilderAvailable() {
			h = fmt.Sprintf("ctrl+e evidence (%d) | %s", m.app.Session.SelectedCount(), h)
		}
		return h
	case types.ViewNewReport:
		if m.intakePreview != nil {
			return "enter save report | esc keep editing | " + common
		}
		if len(m.chat) > 2 {
			return "enter send | ctrl+r generate report | " + common
		}
		return "enter send | " + common
	case types.ViewPatterns:
		return "up/down category | enter analyze | " + common
	case types.ViewInsights:
		if m.motionPicker {
			return "up/down motion | enter draft | esc cancel | " + common
		}
		return "g generate draft | s save analysis | " + common
	case types.ViewAssistant:
		return "enter send | ctrl+s save document | " + common
	case types.ViewDocuments:
		if m.uploadMode {
			return "enter upload path | esc cancel | " + common
		}
		return "u upload | enter analyze | r redraft | x delete | " + common
	case types.ViewDraftedDocuments:
		return "enter open/close | x delete | " + common
	case types.ViewCalendar:
		h := "arrows move | [ ] month | enter document day | a add event | x delete event | " + common
		if m.app.Session.EvidenceBuilderAvailable() {
			h = fmt.Sprintf("ctrl+e evidence (%d) | %s", m.app.Session.SelectedCount(), h)
		}
		return h
	case types.ViewMessaging:
		return "enter log | ctrl+o switch sender | " + common
	case types.ViewProfile:
		if m.profEditing {
			return "enter apply | esc cancel | " + common
		}
		return "up/down field | enter edit | ctrl+s save | " + common
	}
	return "? help | " + common
}

func (m *Model) renderContent() string {
	if m.showHelp {
		return m.viewHelp()
	}
	if p := m.app.Session.UpgradePrompt(); p != nil {
		return m.viewUpgradePrompt(*p)
	}
	if m.evidenceOpen {
		return m.viewEvidence()
	}

	switch m.app.Session.ActiveView() {
	case types.ViewDashboard:
		return m.viewDashboard()
	case types.ViewTimeline:
		return m.viewTimeline()
	case types.ViewNewReport:
		return m.viewIntake()
	case types.ViewPatterns:
		return m.viewPatterns()
	case types.ViewInsights:
		return m.viewInsights()
	case types.ViewAssistant:
		return m.viewAssistant()
	case types.ViewDocuments:
		return m.viewDocuments()
	case types.ViewDraftedDocuments:
		return m.viewDrafts()
	case types.ViewCalendar:
		return m.viewCalendar()
	case types.ViewMessaging:
		return m.viewMessaging()
	case types.ViewProfile:
		return m.viewProfile()
	}
	return ""
}

func (m *Model) viewUpgradePrompt(p app.UpgradePrompt) string {
	body := fmt.Sprintf("%s\n\n%s requires the %s plan.\n\n%s",
		m.theme.PaneTitle.Render("Upgrade required"),
		m.theme.CardTitle.Render(p.Feature),
		p.Required.DisplayName(),
		m.theme.Footer.Render("press enter or esc to continue"),
	)
	return m.theme.Overlay.Render(body)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
