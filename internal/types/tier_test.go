package types

import "testing"

func TestParseTier(t *testing.T) {
	cases := []struct {
		in   string
		want Tier
		ok   bool
	}{
		{"free", TierFree, true},
		{" Plus ", TierPlus, true},
		{"PRO", TierPro, true},
		{"enterprise", Tier(""), false},
		{"", Tier(""), false},
	}
	for _, tc := range cases {
		got, ok := ParseTier(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseTier(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTierOrdering(t *testing.T) {
	if !TierFree.AtLeast(TierFree) {
		t.Fatalf("free should satisfy free")
	}
	if TierFree.AtLeast(TierPlus) {
		t.Fatalf("free should not satisfy plus")
	}
	if !TierPlus.AtLeast(TierFree) || TierPlus.AtLeast(TierPro) {
		t.Fatalf("plus ordering wrong")
	}
	if !TierPro.AtLeast(TierPlus) || !TierPro.AtLeast(TierPro) {
		t.Fatalf("pro should satisfy every tier")
	}
}

func TestRequiredTier(t *testing.T) {
	free := []View{ViewDashboard, ViewTimeline, ViewNewReport, ViewCalendar, ViewProfile}
	for _, v := range free {
		if RequiredTier(v) != TierFree {
			t.Fatalf("view %s should be free", v)
		}
	}
	plus := []View{ViewPatterns, ViewDocuments, ViewDraftedDocuments, ViewMessaging, ViewAssistant}
	for _, v := range plus {
		if RequiredTier(v) != TierPlus {
			t.Fatalf("view %s should require plus", v)
		}
	}
	if RequiredTier(ViewInsights) != TierPro {
		t.Fatalf("insights should require pro")
	}
}

func TestParseView(t *testing.T) {
	if v, ok := ParseView("drafted_documents"); !ok || v != ViewDraftedDocuments {
		t.Fatalf("ParseView(drafted_documents) = %q,%v", v, ok)
	}
	if _, ok := ParseView("settings"); ok {
		t.Fatalf("unknown view should not parse")
	}
}

func TestParseCategoryFallsBackToOther(t *testing.T) {
	if got := ParseCategory("Scheduling Conflict"); got != CategorySchedulingConflict {
		t.Fatalf("got %q", got)
	}
	if got := ParseCategory("Something Else Entirely"); got != CategoryOther {
		t.Fatalf("unknown category should map to Other, got %q", got)
	}
}
