package ai

import (
	"strings"
	"testing"
	"time"

	"custodyx/internal/types"
)

func TestProfileContext(t *testing.T) {
	if got := profileContext(nil); got != "" {
		t.Fatalf("nil profile should contribute nothing, got %q", got)
	}
	if got := profileContext(&types.UserProfile{Name: "  "}); got != "" {
		t.Fatalf("nameless profile should contribute nothing, got %q", got)
	}

	p := &types.UserProfile{Name: "Jordan", Role: "Mother", Children: []string{"Avery", "Sam"}}
	got := profileContext(p)
	if !strings.HasPrefix(got, "\n### User Context\n") {
		t.Fatalf("missing context heading: %q", got)
	}
	for _, want := range []string{
		"The user's name is Jordan",
		"they identify as the Mother",
		"referred to as the Father",
		"Avery, Sam",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("context missing %q: %q", want, got)
		}
	}
}

func TestChatPromptSubstitution(t *testing.T) {
	got := chatPrompt(&types.UserProfile{Name: "Sam", Role: "Father"})
	if strings.Contains(got, "{USER_PROFILE_CONTEXT}") {
		t.Fatalf("placeholder not substituted")
	}
	if !strings.Contains(got, "The user's name is Sam") {
		t.Fatalf("profile context not injected")
	}
}

func TestReportGenerationPromptCarriesLegalContext(t *testing.T) {
	got := reportGenerationPrompt(nil)
	if !strings.Contains(got, "### Legal Context") {
		t.Fatalf("missing legal context section")
	}
	if !strings.Contains(got, "Indiana Parenting Time Guidelines") {
		t.Fatalf("missing Indiana guidelines block")
	}
	for _, heading := range []string{
		"### Summary of Events",
		"### Behavior of Parent 1 (User)",
		"### Behavior of Parent 2 (Other Party)",
		"### Impact or Outcome",
		"### Notes or Context",
	} {
		if !strings.Contains(got, heading) {
			t.Fatalf("missing report heading %q", heading)
		}
	}
}

func TestEvidencePackagePromptDate(t *testing.T) {
	now := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	got := evidencePackagePrompt(nil, now)
	if !strings.Contains(got, "March 5, 2026") {
		t.Fatalf("current date not substituted: %q", got)
	}
	if strings.Contains(got, "{CURRENT_DATE}") || strings.Contains(got, "{USER_PROFILE_CONTEXT}") {
		t.Fatalf("placeholders left behind")
	}
}

func TestSupportingReportBlocksExcludePrimary(t *testing.T) {
	main := types.Report{ID: "r1", CreatedAt: time.Now(), GeneratedReportData: types.GeneratedReportData{Content: "primary"}}
	all := []types.Report{
		main,
		{ID: "r2", CreatedAt: time.Now(), GeneratedReportData: types.GeneratedReportData{Content: "secondary"}},
	}
	got := supportingReportBlocks(main, all)
	if strings.Contains(got, "primary") {
		t.Fatalf("primary report leaked into supporting blocks")
	}
	if !strings.Contains(got, "SUPPORTING REPORT (ID: r2") {
		t.Fatalf("supporting report missing: %q", got)
	}
}
