package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"custodyx/internal/types"
)

// ErrMalformedReply marks assistant output that could not be parsed into a
// valid reply. Callers surface a generic error to the user; they must never
// fall back to stale data.
var ErrMalformedReply = errors.New("malformed assistant reply")

// ReplyKind discriminates the assistant's tagged reply union.
type ReplyKind string

const (
	ReplyChat     ReplyKind = "chat"
	ReplyDocument ReplyKind = "document"
)

// AssistantReply is the parsed legal-assistant response. Content always
// carries the conversational message; Title and DocumentText are only set
// when Kind is ReplyDocument.
type AssistantReply struct {
	Kind         ReplyKind
	Content      string
	Title        string
	DocumentText string
	Sources      []types.Source
}

// ExtractJSONObject returns the substring between the first '{' and the last
// '}' of raw. Model replies routinely wrap the object in prose or code
// fences; everything outside the brace pair is discarded.
func ExtractJSONObject(raw string) (string, error) {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first == -1 || last == -1 || last < first {
		return "", fmt.Errorf("%w: no JSON object delimiters", ErrMalformedReply)
	}
	return raw[first : last+1], nil
}

// StripCodeFences removes a leading ```json (or bare ```) fence and the
// trailing fence, if present.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type rawAssistantReply struct {
	Type         string `json:"type"`
	Content      string `json:"content"`
	Title        string `json:"title,omitempty"`
	DocumentText string `json:"documentText,omitempty"`
}

// ParseAssistantReply extracts and validates the tagged reply object from a
// raw model response. The type and content fields are mandatory; a document
// reply without document text degrades to a chat reply rather than losing
// the message.
func ParseAssistantReply(raw string) (AssistantReply, error) {
	jsonText, err := ExtractJSONObject(raw)
	if err != nil {
		return AssistantReply{}, err
	}
	var parsed rawAssistantReply
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return AssistantReply{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if parsed.Content == "" {
		return AssistantReply{}, fmt.Errorf("%w: missing content", ErrMalformedReply)
	}
	switch ReplyKind(parsed.Type) {
	case ReplyChat:
		return AssistantReply{Kind: ReplyChat, Content: parsed.Content}, nil
	case ReplyDocument:
		if strings.TrimSpace(parsed.DocumentText) == "" {
			return AssistantReply{Kind: ReplyChat, Content: parsed.Content}, nil
		}
		return AssistantReply{
			Kind:         ReplyDocument,
			Content:      parsed.Content,
			Title:        parsed.Title,
			DocumentText: parsed.DocumentText,
		}, nil
	default:
		return AssistantReply{}, fmt.Errorf("%w: unknown type %q", ErrMalformedReply, parsed.Type)
	}
}

type rawReportData struct {
	Content      string   `json:"content"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	LegalContext string   `json:"legalContext,omitempty"`
}

// ParseGeneratedReport decodes the report-generation JSON payload. Content,
// category and tags are mandatory; the category is coerced onto the closed
// category set.
func ParseGeneratedReport(raw string) (types.GeneratedReportData, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return types.GeneratedReportData{}, fmt.Errorf("%w: empty report payload", ErrMalformedReply)
	}
	var parsed rawReportData
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return types.GeneratedReportData{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if parsed.Content == "" || parsed.Category == "" || parsed.Tags == nil {
		return types.GeneratedReportData{}, fmt.Errorf("%w: incomplete report fields", ErrMalformedReply)
	}
	return types.GeneratedReportData{
		Content:      parsed.Content,
		Category:     types.ParseCategory(parsed.Category),
		Tags:         parsed.Tags,
		LegalContext: parsed.LegalContext,
	}, nil
}

// ParseThemes decodes the theme-analysis JSON array.
func ParseThemes(raw string) ([]types.Theme, error) {
	cleaned := StripCodeFences(raw)
	var themes []types.Theme
	if err := json.Unmarshal([]byte(cleaned), &themes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return themes, nil
}
