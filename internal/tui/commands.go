package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/ai"
	"custodyx/internal/types"
)

// aiTimeout bounds a single gateway call including its retries.
const aiTimeout = 2 * time.Minute

// Every AI result message carries the request generation it was issued
// under. Update drops results whose generation is no longer current, so a
// superseded request can never overwrite newer state.
type chatReplyMsg struct {
	gen  uint64
	text string
	err  error
}

type reportGeneratedMsg struct {
	gen  uint64
	data types.GeneratedReportData
	err  error
}

type themesMsg struct {
	gen      uint64
	category types.IncidentCategory
	themes   []types.Theme
	err      error
}

type insightMsg struct {
	gen      uint64
	analysis ai.Analysis
	err      error
}

type assistantMsg struct {
	gen   uint64
	reply ai.AssistantReply
	err   error
}

type docAnalysisMsg struct {
	gen   uint64
	docID string
	text  string
	err   error
}

type redraftMsg struct {
	gen   uint64
	docID string
	text  string
	err   error
}

type evidenceMsg struct {
	gen  uint64
	text string
	err  error
}

func (m *Model) chatCmd(history []types.ChatMessage) tea.Cmd {
	gen := m.app.Session.BeginRequest()
	profile := m.app.Session.Profile()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		text, err := m.app.AI.ChatResponse(ctx, history, profile)
		return chatReplyMsg{gen: gen, text: text, err: err}
	}
}

func (m *Model) generateReportCmd(history []types.ChatMessage) tea.Cmd {
	gen := m.app.Session.BeginRequest()
	profile := m.app.Session.Profile()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		data, err := m.app.AI.GenerateReport(ctx, history, profile)
		return reportGeneratedMsg{gen: gen, data: data, err: err}
	}
}

func (m *Model) themesCmd(category types.IncidentCategory) tea.Cmd {
	gen := m.app.Session.BeginRequest()
	var matching []types.Report
	for _, r := range m.app.Session.Reports() {
		if r.Category == category {
			matching = append(matching, r)
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		themes, err := m.app.AI.ThemeAnalysis(ctx, matching, category)
		return themesMsg{gen: gen, category: category, themes: themes, err: err}
	}
}

func (m *Model) insightCmd(report types.Report) tea.Cmd {
	gen := m.app.Session.BeginRequest()
	all := m.app.Session.Reports()
	profile := m.app.Session.Profile()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		analysis, err := m.app.AI.IncidentAnalysis(ctx, report, all, profile)
		return insightMsg{gen: gen, analysis: analysis, err: err}
	}
}

func (m *Model) assistantCmd(query string) tea.Cmd {
	gen := m.app.Session.BeginRequest()
	reports := m.app.Session.Reports()
	documents := m.app.Session.Documents()
	profile := m.app.Session.Profile()
	analysisContext := m.app.Session.AnalysisContext()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		reply, err := m.app.AI.AssistantReply(ctx, reports, documents, query, profile, analysisContext)
		return assistantMsg{gen: gen, reply: reply, err: err}
	}
}

func (m *Model) initialLegalCmd(report types.Report) tea.Cmd {
	gen := m.app.Session.BeginRequest()
	all := m.app.Session.Reports()
	profile := m.app.Session.Profile()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		reply, err := m.app.AI.InitialLegalAnalysis(ctx, report, all, profile)
		return assistantMsg{gen: gen, reply: reply, err: err}
	}
}

func (m *Model) analyzeDocCmd(doc types.StoredDocument) tea.Cmd {
	gen := m.app.Session.BeginRequest()
	profile := m.app.Session.Profile()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		text, err := m.app.AI.AnalyzeDocument(ctx, doc, profile)
		return docAnalysisMsg{gen: gen, docID: doc.ID, text: text, err: err}
	}
}

func (m *Model) redraftCmd(doc types.StoredDocument, analysis string) tea.Cmd {
	gen := m.app.Session.BeginRequest()
	profile := m.app.Session.Profile()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		text, err := m.app.AI.RedraftDocument(ctx, doc, analysis, profile)
		return redraftMsg{gen: gen, docID: doc.ID, text: text, err: err}
	}
}

func (m *Model) evidenceCmd() tea.Cmd {
	gen := m.app.Session.BeginRequest()
	selected := m.app.Session.SelectedReports()
	documents := m.app.Session.Documents()
	profile := m.app.Session.Profile()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
		defer cancel()
		text, err := m.app.AI.EvidencePackage(ctx, selected, documents, profile)
		return evidenceMsg{gen: gen, text: text, err: err}
	}
}
