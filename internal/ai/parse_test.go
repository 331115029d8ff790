package ai

import (
	"errors"
	"testing"

	"custodyx/internal/types"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "embedded in prose",
			in:   "Sure, here is the result:\n{\"type\":\"chat\",\"content\":\"hi\"}\nLet me know!",
			want: `{"type":"chat","content":"hi"}`,
		},
		{
			name: "fenced",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "nested braces kept intact",
			in:   `prefix {"outer":{"inner":2}} suffix`,
			want: `{"outer":{"inner":2}}`,
		},
		{name: "no braces", in: "plain text reply", wantErr: true},
		{name: "only open brace", in: "{ unterminated", wantErr: true},
		{name: "reversed braces", in: "} backwards {", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if !errors.Is(err, ErrMalformedReply) {
					t.Fatalf("error should wrap ErrMalformedReply: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestParseAssistantReplyChat(t *testing.T) {
	raw := `Here you go: {"type": "chat", "content": "Pickup disputes appear in 4 reports."}`
	reply, err := ParseAssistantReply(raw)
	if err != nil {
		t.Fatalf("ParseAssistantReply: %v", err)
	}
	if reply.Kind != ReplyChat || reply.Content == "" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if reply.DocumentText != "" || reply.Title != "" {
		t.Fatalf("chat reply must not carry document fields: %+v", reply)
	}
}

func TestParseAssistantReplyDocument(t *testing.T) {
	raw := `{"type":"document","title":"DRAFT: Motion to Compel","content":"I drafted it.","documentText":"IN THE COURT OF..."}`
	reply, err := ParseAssistantReply(raw)
	if err != nil {
		t.Fatalf("ParseAssistantReply: %v", err)
	}
	if reply.Kind != ReplyDocument {
		t.Fatalf("want document reply, got %q", reply.Kind)
	}
	if reply.Title != "DRAFT: Motion to Compel" || reply.DocumentText == "" {
		t.Fatalf("document fields lost: %+v", reply)
	}
}

func TestParseAssistantReplyDocumentWithoutTextDegradesToChat(t *testing.T) {
	raw := `{"type":"document","title":"DRAFT: Declaration","content":"Something went sideways."}`
	reply, err := ParseAssistantReply(raw)
	if err != nil {
		t.Fatalf("ParseAssistantReply: %v", err)
	}
	if reply.Kind != ReplyChat {
		t.Fatalf("document reply without text should degrade to chat, got %q", reply.Kind)
	}
	if reply.Content != "Something went sideways." {
		t.Fatalf("content lost in degradation: %+v", reply)
	}
}

func TestParseAssistantReplyRejectsBadShapes(t *testing.T) {
	cases := []string{
		`{"type":"chat"}`,
		`{"content":"no type"}`,
		`{"type":"oracle","content":"x"}`,
		`no json at all`,
		`{"type":"chat","content":`,
	}
	for _, raw := range cases {
		if _, err := ParseAssistantReply(raw); !errors.Is(err, ErrMalformedReply) {
			t.Fatalf("raw %q: want ErrMalformedReply, got %v", raw, err)
		}
	}
}

func TestParseGeneratedReport(t *testing.T) {
	raw := "```json\n{\"content\":\"### Summary of Events\\n...\",\"category\":\"Missed Visitation\",\"tags\":[\"weekend\",\"pickup\"],\"legalContext\":\"May touch upon parenting time guidelines.\"}\n```"
	got, err := ParseGeneratedReport(raw)
	if err != nil {
		t.Fatalf("ParseGeneratedReport: %v", err)
	}
	if got.Category != types.CategoryMissedVisitation {
		t.Fatalf("category = %q", got.Category)
	}
	if len(got.Tags) != 2 || got.LegalContext == "" {
		t.Fatalf("fields lost: %+v", got)
	}
}

func TestParseGeneratedReportUnknownCategoryCoerced(t *testing.T) {
	raw := `{"content":"x","category":"Galactic Dispute","tags":[]}`
	got, err := ParseGeneratedReport(raw)
	if err != nil {
		t.Fatalf("ParseGeneratedReport: %v", err)
	}
	if got.Category != types.CategoryOther {
		t.Fatalf("unknown category should coerce to Other, got %q", got.Category)
	}
}

func TestParseGeneratedReportIncomplete(t *testing.T) {
	for _, raw := range []string{
		`{"category":"Other","tags":[]}`,
		`{"content":"x","tags":[]}`,
		`{"content":"x","category":"Other"}`,
		``,
	} {
		if _, err := ParseGeneratedReport(raw); !errors.Is(err, ErrMalformedReply) {
			t.Fatalf("raw %q should be rejected, got %v", raw, err)
		}
	}
}

func TestParseThemes(t *testing.T) {
	raw := `[{"name":"Last-minute changes","value":3},{"name":"Unanswered calls","value":2}]`
	themes, err := ParseThemes(raw)
	if err != nil {
		t.Fatalf("ParseThemes: %v", err)
	}
	if len(themes) != 2 || themes[0].Value != 3 {
		t.Fatalf("themes mismatch: %+v", themes)
	}
	if _, err := ParseThemes(`{"not":"an array"}`); !errors.Is(err, ErrMalformedReply) {
		t.Fatalf("non-array should be rejected")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n[1,2]\n```":         `[1,2]`,
		`{"a":1}`:                 `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripCodeFences(in); got != want {
			t.Fatalf("StripCodeFences(%q) = %q want %q", in, got, want)
		}
	}
}
