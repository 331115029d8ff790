package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"custodyx/internal/types"
)

const DefaultModel = "gemini-2.5-flash"

// Analysis is a grounded behavioral analysis with its web citations.
type Analysis struct {
	Text    string
	Sources []types.Source
}

// Gateway is the single boundary to the Gemini API. It owns prompt assembly
// and response parsing; callers receive domain values or errors, never raw
// model output.
type Gateway struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewGateway(ctx context.Context, apiKey string, model string, log *zap.Logger) (*Gateway, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing Gemini API key")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gateway{client: client, model: model, log: log}, nil
}

// generate issues one request with bounded retries. Transient API failures
// are retried twice with a short backoff; context cancellation wins.
func (g *Gateway) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			g.log.Warn("retrying generate request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("generate content: %w", lastErr)
}

func (g *Gateway) messagesToContents(messages []types.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		parts := []*genai.Part{genai.NewPartFromText(msg.Content)}
		for _, img := range msg.Images {
			data, err := base64.StdEncoding.DecodeString(img.Data)
			if err != nil {
				g.log.Warn("dropping undecodable inline image", zap.Error(err))
				continue
			}
			parts = append(parts, genai.NewPartFromBytes(data, img.MimeType))
		}
		role := genai.Role(genai.RoleUser)
		if msg.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents
}

func (g *Gateway) documentPart(doc types.StoredDocument) (*genai.Part, error) {
	data, err := base64.StdEncoding.DecodeString(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return genai.NewPartFromBytes(data, doc.MimeType), nil
}

func groundingSources(resp *genai.GenerateContentResponse) []types.Source {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}
	var out []types.Source
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		out = append(out, types.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return out
}

// ChatResponse drives one intake-coaching turn.
func (g *Gateway) ChatResponse(ctx context.Context, messages []types.ChatMessage, profile *types.UserProfile) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatPrompt(profile), genai.RoleUser),
	}
	resp, err := g.generate(ctx, g.messagesToContents(messages), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenerateReport turns an intake conversation into a structured report.
func (g *Gateway) GenerateReport(ctx context.Context, messages []types.ChatMessage, profile *types.UserProfile) (types.GeneratedReportData, error) {
	var transcript []string
	for _, m := range messages {
		speaker := "Assistant"
		if m.Role == "user" {
			speaker = "User"
		}
		transcript = append(transcript, speaker+": "+m.Content)
	}
	prompt := "Based on the conversation transcript provided below, please generate the incident report JSON.\n\n--- CONVERSATION START ---\n\n" +
		strings.Join(transcript, "\n\n") +
		"\n\n--- CONVERSATION END ---"

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(reportGenerationPrompt(profile), genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return types.GeneratedReportData{}, err
	}
	return ParseGeneratedReport(resp.Text())
}

// ThemeAnalysis counts recurring sub-themes across reports in one category.
func (g *Gateway) ThemeAnalysis(ctx context.Context, reports []types.Report, category types.IncidentCategory) ([]types.Theme, error) {
	var blocks []string
	for _, r := range reports {
		blocks = append(blocks, "--- REPORT ---\n"+r.Content+"\n--- END REPORT ---")
	}
	prompt := strings.Replace(systemPromptThemeAnalysis, "{CATEGORY_NAME}", string(category), 1) +
		"\n\n## Incident Reports Content\n\n" + strings.Join(blocks, "\n\n")

	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return nil, err
	}
	return ParseThemes(resp.Text())
}

// IncidentAnalysis produces the deep forensic analysis of one incident with
// the rest of the corpus as context, grounded by web search.
func (g *Gateway) IncidentAnalysis(ctx context.Context, main types.Report, all []types.Report, profile *types.UserProfile) (Analysis, error) {
	prompt := systemPromptIncidentAnalysis + "\n\n" + profileContext(profile) +
		"\n\n## Incident Reports for Analysis:\n\n" + primaryReportBlock(main) +
		"\n\n" + supportingReportBlocks(main, all)

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return Analysis{}, err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return Analysis{}, errors.New("received empty analysis from model")
	}
	return Analysis{Text: text, Sources: groundingSources(resp)}, nil
}

// AssistantReply answers a legal-assistant query over the report corpus, the
// document library and an optional behavioral analysis context.
func (g *Gateway) AssistantReply(
	ctx context.Context,
	reports []types.Report,
	documents []types.StoredDocument,
	query string,
	profile *types.UserProfile,
	analysisContext string,
) (AssistantReply, error) {
	var blocks []string
	for _, r := range reports {
		blocks = append(blocks, reportBlock(r))
	}
	prompt := systemPromptLegalAssistant + "\n" + profileContext(profile) +
		"\n\n## Incident Reports Available for Query:\n\n" + strings.Join(blocks, "\n\n")
	if strings.TrimSpace(analysisContext) != "" {
		prompt += "\n\n## Forensic Behavioral Analysis (Primary Context):\n\n" + analysisContext
	}
	prompt += "\n\n## User's Question:\n\n" + query

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, doc := range documents {
		part, err := g.documentPart(doc)
		if err != nil {
			g.log.Warn("skipping unreadable library document",
				zap.String("document_id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		parts = append(parts, part)
	}

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return AssistantReply{}, err
	}
	reply, err := ParseAssistantReply(resp.Text())
	if err != nil {
		return AssistantReply{}, err
	}
	reply.Sources = groundingSources(resp)
	return reply, nil
}

// InitialLegalAnalysis produces the suggestion reply shown when a report is
// handed to the assistant. The reply must be conversational.
func (g *Gateway) InitialLegalAnalysis(ctx context.Context, main types.Report, all []types.Report, profile *types.UserProfile) (AssistantReply, error) {
	prompt := systemPromptInitialLegalAnalysis + "\n" + profileContext(profile) +
		"\n\n## Incident Reports for Analysis:\n\n" + primaryReportBlock(main) +
		"\n\n" + supportingReportBlocks(main, all)

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return AssistantReply{}, err
	}
	reply, err := ParseAssistantReply(resp.Text())
	if err != nil {
		return AssistantReply{}, err
	}
	if reply.Kind != ReplyChat {
		return AssistantReply{}, fmt.Errorf("%w: expected chat reply", ErrMalformedReply)
	}
	reply.Sources = groundingSources(resp)
	return reply, nil
}

// AnalyzeDocument reviews a library document for clarity and professionalism.
func (g *Gateway) AnalyzeDocument(ctx context.Context, doc types.StoredDocument, profile *types.UserProfile) (string, error) {
	part, err := g.documentPart(doc)
	if err != nil {
		return "", err
	}
	parts := []*genai.Part{
		part,
		genai.NewPartFromText("Please review and analyze this document according to your instructions."),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPromptDocumentAnalysis+"\n"+profileContext(profile), genai.RoleUser),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// RedraftDocument rewrites a document incorporating a prior analysis.
func (g *Gateway) RedraftDocument(ctx context.Context, doc types.StoredDocument, analysis string, profile *types.UserProfile) (string, error) {
	part, err := g.documentPart(doc)
	if err != nil {
		return "", err
	}
	parts := []*genai.Part{
		part,
		genai.NewPartFromText("Here is the analysis of the document you are about to redraft. Please incorporate all these suggestions into the new version:\n\n--- ANALYSIS ---\n" + analysis + "\n--- END ANALYSIS ---"),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPromptDocumentRedraft+"\n"+profileContext(profile), genai.RoleUser),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// EvidencePackage synthesizes selected reports and documents into a single
// court-ready Markdown package. Reports are presented oldest first.
func (g *Gateway) EvidencePackage(ctx context.Context, reports []types.Report, documents []types.StoredDocument, profile *types.UserProfile) (string, error) {
	ordered := make([]types.Report, len(reports))
	copy(ordered, reports)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].CreatedAt.Before(ordered[j].CreatedAt) })

	var b strings.Builder
	b.WriteString("## Selected Incident Reports (oldest first)\n\n")
	for _, r := range ordered {
		fmt.Fprintf(&b, "--- REPORT (Date: %s, Category: %s) ---\n%s\n", r.CreatedAt.Format("1/2/2006"), r.Category, r.Content)
		if r.LegalContext != "" {
			fmt.Fprintf(&b, "Legal Context Note: %s\n", r.LegalContext)
		}
		b.WriteString("--- END REPORT ---\n\n")
	}
	b.WriteString("## Selected Documents\n\n")
	for _, d := range documents {
		fmt.Fprintf(&b, "- %s (uploaded %s)\n", d.Name, d.CreatedAt.Format("1/2/2006"))
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(evidencePackagePrompt(profile, time.Now()), genai.RoleUser),
	}
	contents := []*genai.Content{genai.NewContentFromText(b.String(), genai.RoleUser)}
	resp, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("received empty evidence package from model")
	}
	return text, nil
}
