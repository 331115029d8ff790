package app

import (
	"context"
	"fmt"
	"strings"

	"custodyx/internal/ai"
	"custodyx/internal/types"
)

// OfflineAI is the no-network AIClient used when no API key is configured.
// Replies are deterministic and clearly marked so nobody mistakes them for
// real analysis; documentation and persistence keep working without a key.
type OfflineAI struct{}

func NewOfflineAI() *OfflineAI { return &OfflineAI{} }

const offlineNotice = "(Offline mode: set GEMINI_API_KEY to enable AI responses.)"

func (o *OfflineAI) ChatResponse(ctx context.Context, messages []types.ChatMessage, profile *types.UserProfile) (string, error) {
	if len(messages) <= 1 {
		return "Please describe what happened, including the date, time, location and who was involved. " + offlineNotice, nil
	}
	return "Noted. Add any remaining details, or use Generate Report to create a formal summary. " + offlineNotice, nil
}

func (o *OfflineAI) GenerateReport(ctx context.Context, messages []types.ChatMessage, profile *types.UserProfile) (types.GeneratedReportData, error) {
	var described []string
	for _, m := range messages {
		if m.Role == "user" {
			described = append(described, m.Content)
		}
	}
	content := "### Summary of Events\n" + strings.Join(described, "\n\n") +
		"\n\n### Behavior of Parent 1 (User)\nNot analyzed offline.\n\n### Behavior of Parent 2 (Other Party)\nNot analyzed offline.\n\n### Impact or Outcome\nNot analyzed offline.\n\n### Notes or Context\n" + offlineNotice
	return types.GeneratedReportData{
		Content:  content,
		Category: types.CategoryOther,
		Tags:     []string{"offline"},
	}, nil
}

func (o *OfflineAI) ThemeAnalysis(ctx context.Context, reports []types.Report, category types.IncidentCategory) ([]types.Theme, error) {
	return []types.Theme{{Name: fmt.Sprintf("%s incidents", category), Value: len(reports)}}, nil
}

func (o *OfflineAI) IncidentAnalysis(ctx context.Context, main types.Report, all []types.Report, profile *types.UserProfile) (ai.Analysis, error) {
	return ai.Analysis{Text: "Deep analysis requires an API key. " + offlineNotice}, nil
}

func (o *OfflineAI) AssistantReply(ctx context.Context, reports []types.Report, documents []types.StoredDocument, query string, profile *types.UserProfile, analysisContext string) (ai.AssistantReply, error) {
	return ai.AssistantReply{
		Kind:    ai.ReplyChat,
		Content: fmt.Sprintf("You asked: %q. The legal assistant requires an API key. %s", query, offlineNotice),
	}, nil
}

func (o *OfflineAI) InitialLegalAnalysis(ctx context.Context, main types.Report, all []types.Report, profile *types.UserProfile) (ai.AssistantReply, error) {
	return ai.AssistantReply{
		Kind:    ai.ReplyChat,
		Content: fmt.Sprintf("Incident %s is loaded as context. %s", main.ID, offlineNotice),
	}, nil
}

func (o *OfflineAI) AnalyzeDocument(ctx context.Context, doc types.StoredDocument, profile *types.UserProfile) (string, error) {
	return "Document review requires an API key. " + offlineNotice, nil
}

func (o *OfflineAI) RedraftDocument(ctx context.Context, doc types.StoredDocument, analysis string, profile *types.UserProfile) (string, error) {
	return "Document redrafting requires an API key. " + offlineNotice, nil
}

func (o *OfflineAI) EvidencePackage(ctx context.Context, reports []types.Report, documents []types.StoredDocument, profile *types.UserProfile) (string, error) {
	var b strings.Builder
	b.WriteString("# Evidence Package\n\n## II. Chronological Record of Incidents\n\n")
	for i := len(reports) - 1; i >= 0; i-- {
		r := reports[i]
		fmt.Fprintf(&b, "- **Date of Incident:** %s, **Category:** %s\n", r.CreatedAt.Format("1/2/2006"), r.Category)
	}
	b.WriteString("\n## III. Exhibits\n\n")
	for _, d := range documents {
		fmt.Fprintf(&b, "- %s\n", d.Name)
	}
	b.WriteString("\n" + offlineNotice + "\n")
	return b.String(), nil
}
