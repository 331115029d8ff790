package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"custodyx/internal/store"
	"custodyx/internal/types"
)

func newTestSession(t *testing.T, tier types.Tier, reports ...types.Report) *Session {
	t.Helper()
	st := store.NewFileStore(t.TempDir())
	ctx := context.Background()
	for _, r := range reports {
		if err := st.CreateReport(ctx, r); err != nil {
			t.Fatalf("seed report %s: %v", r.ID, err)
		}
	}
	s := NewSession(st, tier, nil)
	s.Load(ctx)
	return s
}

func seedReport(id string, age time.Duration) types.Report {
	return types.Report{
		ID:        id,
		CreatedAt: time.Now().Add(-age),
		GeneratedReportData: types.GeneratedReportData{
			Content:  "### Summary of Events\nIncident " + id,
			Category: types.CategorySchedulingConflict,
			Tags:     []string{"pickup"},
		},
	}
}

func TestDiscussIncidentUnknownIDIsNoOp(t *testing.T) {
	s := newTestSession(t, types.TierPlus, seedReport("r1", time.Hour))
	s.ChangeView(types.ViewTimeline)

	s.DiscussIncident("nope")

	if s.ActiveView() != types.ViewTimeline {
		t.Fatalf("view changed on unknown id: %s", s.ActiveView())
	}
	if s.ActiveReport() != nil || s.AnalysisContext() != "" {
		t.Fatalf("context mutated on unknown id")
	}
}

func TestDiscussIncidentHandsOffToAssistant(t *testing.T) {
	s := newTestSession(t, types.TierPlus, seedReport("r1", time.Hour))
	s.GenerateDraftFromInsight("old analysis", "Motion to Compel")

	s.DiscussIncident("r1")

	if s.ActiveView() != types.ViewAssistant {
		t.Fatalf("view = %s, want assistant", s.ActiveView())
	}
	if s.ActiveReport() == nil || s.ActiveReport().ID != "r1" {
		t.Fatalf("active report not set")
	}
	if s.AnalysisContext() != "" {
		t.Fatalf("analysis context must be cleared on discuss hand-off")
	}
}

func TestAnalyzeIncidentUnknownIDIsNoOp(t *testing.T) {
	s := newTestSession(t, types.TierPro, seedReport("r1", time.Hour))

	s.AnalyzeIncident("ghost")

	if s.ActiveView() != types.ViewDashboard || s.ActiveInsight() != nil {
		t.Fatalf("state mutated on unknown id")
	}
}

func TestAnalyzeIncidentHandsOffToInsights(t *testing.T) {
	s := newTestSession(t, types.TierPro, seedReport("r1", time.Hour))

	s.AnalyzeIncident("r1")

	if s.ActiveView() != types.ViewInsights {
		t.Fatalf("view = %s, want insights", s.ActiveView())
	}
	if s.ActiveInsight() == nil || s.ActiveInsight().ID != "r1" {
		t.Fatalf("active insight not set")
	}
}

func TestToggleReportSelectionIsInvolution(t *testing.T) {
	s := newTestSession(t, types.TierFree, seedReport("r1", time.Hour), seedReport("r2", 2*time.Hour))
	s.ToggleReportSelection("r2")

	s.ToggleReportSelection("r1")
	s.ToggleReportSelection("r1")

	if s.IsSelected("r1") {
		t.Fatalf("double toggle should restore r1 to unselected")
	}
	if !s.IsSelected("r2") {
		t.Fatalf("double toggle of r1 must not disturb r2")
	}
	if s.SelectedCount() != 1 {
		t.Fatalf("selection size = %d, want 1", s.SelectedCount())
	}
}

func TestToggleSelectionIgnoresUnknownReport(t *testing.T) {
	s := newTestSession(t, types.TierFree, seedReport("r1", time.Hour))

	s.ToggleReportSelection("not-a-report")

	if s.SelectedCount() != 0 {
		t.Fatalf("selection must stay a subset of loaded reports")
	}
}

func TestFreeTierBlockedFromInsights(t *testing.T) {
	s := newTestSession(t, types.TierFree)

	if s.ChangeView(types.ViewInsights) {
		t.Fatalf("free tier must not open insights")
	}
	if s.ActiveView() != types.ViewDashboard {
		t.Fatalf("view changed on refusal: %s", s.ActiveView())
	}
	prompt := s.UpgradePrompt()
	if prompt == nil {
		t.Fatalf("refusal must surface an upgrade prompt")
	}
	if prompt.Feature != "Deep Analysis" {
		t.Fatalf("prompt feature = %q, want Deep Analysis", prompt.Feature)
	}
	if prompt.Required != types.TierPro {
		t.Fatalf("prompt required tier = %q, want pro", prompt.Required)
	}
}

func TestFreeTierAllowedViews(t *testing.T) {
	s := newTestSession(t, types.TierFree)
	for _, v := range []types.View{
		types.ViewDashboard, types.ViewTimeline, types.ViewNewReport,
		types.ViewCalendar, types.ViewProfile,
	} {
		if !s.ChangeView(v) {
			t.Fatalf("free tier should open %s", v)
		}
		if s.UpgradePrompt() != nil {
			t.Fatalf("successful navigation must clear the upgrade prompt")
		}
	}
	for _, v := range []types.View{
		types.ViewPatterns, types.ViewDocuments, types.ViewDraftedDocuments,
		types.ViewMessaging, types.ViewAssistant,
	} {
		if s.ChangeView(v) {
			t.Fatalf("free tier should not open %s", v)
		}
	}
}

func TestProTierOpensEverything(t *testing.T) {
	s := newTestSession(t, types.TierPro)
	for _, v := range []types.View{
		types.ViewDashboard, types.ViewTimeline, types.ViewNewReport,
		types.ViewPatterns, types.ViewInsights, types.ViewAssistant,
		types.ViewProfile, types.ViewDocuments, types.ViewDraftedDocuments,
		types.ViewCalendar, types.ViewMessaging,
	} {
		if !s.ChangeView(v) {
			t.Fatalf("pro tier should open %s", v)
		}
	}
}

func TestGenerateDraftFromInsight(t *testing.T) {
	s := newTestSession(t, types.TierPro, seedReport("r1", time.Hour))
	s.AnalyzeIncident("r1")
	s.DiscussIncident("r1")
	s.AnalyzeIncident("r1")

	s.GenerateDraftFromInsight("analysis text", "Motion to Compel")

	want := `Based on the provided analysis, please draft a "Motion to Compel".`
	if got := s.InitialLegalQuery(); got != want {
		t.Fatalf("initial legal query = %q, want %q", got, want)
	}
	if s.ActiveView() != types.ViewAssistant {
		t.Fatalf("view = %s, want assistant", s.ActiveView())
	}
	if s.ActiveReport() != nil {
		t.Fatalf("active report must be cleared")
	}
	if s.ActiveInsight() != nil {
		t.Fatalf("active insight must be cleared")
	}
	if s.AnalysisContext() != "analysis text" {
		t.Fatalf("analysis context = %q", s.AnalysisContext())
	}
}

func TestEvidenceAffordanceRequiresSelectionAndView(t *testing.T) {
	s := newTestSession(t, types.TierFree)

	// No reports, empty selection: never available.
	for _, v := range []types.View{types.ViewDashboard, types.ViewTimeline, types.ViewCalendar} {
		s.ChangeView(v)
		if s.EvidenceBuilderAvailable() {
			t.Fatalf("affordance visible with empty selection on %s", v)
		}
	}
}

func TestEvidenceAffordanceLifecycle(t *testing.T) {
	s := newTestSession(t, types.TierFree, seedReport("r1", time.Hour), seedReport("r2", 2*time.Hour))
	s.ChangeView(types.ViewTimeline)

	s.ToggleReportSelection("r1")
	s.ToggleReportSelection("r2")
	if !s.EvidenceBuilderAvailable() {
		t.Fatalf("affordance should be available on timeline with selection")
	}

	s.ChangeView(types.ViewCalendar)
	if !s.EvidenceBuilderAvailable() {
		t.Fatalf("affordance should be available on calendar with selection")
	}

	s.ChangeView(types.ViewDashboard)
	if s.EvidenceBuilderAvailable() {
		t.Fatalf("affordance must hide on dashboard")
	}

	s.ChangeView(types.ViewTimeline)
	s.ClearSelection()
	if s.SelectedCount() != 0 {
		t.Fatalf("clear selection left %d entries", s.SelectedCount())
	}
	if s.EvidenceBuilderAvailable() {
		t.Fatalf("affordance must hide after clearing selection")
	}
}

func TestSelectedReportsFollowCorpusOrder(t *testing.T) {
	s := newTestSession(t, types.TierFree,
		seedReport("old", 3*time.Hour), seedReport("mid", 2*time.Hour), seedReport("new", time.Hour))

	s.ToggleReportSelection("old")
	s.ToggleReportSelection("new")

	got := s.SelectedReports()
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "old" {
		t.Fatalf("selected reports out of order: %+v", got)
	}
}

func TestStaleGenerationDropped(t *testing.T) {
	s := newTestSession(t, types.TierFree)

	first := s.BeginRequest()
	second := s.BeginRequest()

	if s.IsCurrent(first) {
		t.Fatalf("superseded generation must not be current")
	}
	if !s.IsCurrent(second) {
		t.Fatalf("latest generation must be current")
	}
}

func TestChangeViewClearsPendingIncidentDate(t *testing.T) {
	s := newTestSession(t, types.TierFree)
	s.OpenNewReportForDate("2026-08-14")

	if s.ActiveView() != types.ViewNewReport || s.PendingIncidentDate() != "2026-08-14" {
		t.Fatalf("calendar hand-off did not seed intake: %s %q", s.ActiveView(), s.PendingIncidentDate())
	}

	// Re-entering the intake view keeps the date.
	s.ChangeView(types.ViewNewReport)
	if s.PendingIncidentDate() != "2026-08-14" {
		t.Fatalf("date dropped on re-entering new_report")
	}

	s.ChangeView(types.ViewDashboard)
	if s.PendingIncidentDate() != "" {
		t.Fatalf("date must clear when leaving intake")
	}
}

func TestAddReportPrependsNewest(t *testing.T) {
	s := newTestSession(t, types.TierFree, seedReport("r1", time.Hour))
	ctx := context.Background()

	created, err := s.AddReport(ctx, types.GeneratedReportData{
		Content: "### Summary of Events\nnew", Category: types.CategoryOther, Tags: []string{},
	}, nil)
	if err != nil {
		t.Fatalf("AddReport: %v", err)
	}
	reports := s.Reports()
	if len(reports) != 2 || reports[0].ID != created.ID {
		t.Fatalf("new report should lead the corpus: %+v", reports)
	}
}

func TestDeleteReportDropsSelectionAndContexts(t *testing.T) {
	s := newTestSession(t, types.TierPro, seedReport("r1", time.Hour))
	ctx := context.Background()
	s.ToggleReportSelection("r1")
	s.AnalyzeIncident("r1")

	if err := s.DeleteReport(ctx, "r1"); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	if s.IsSelected("r1") || s.ActiveInsight() != nil {
		t.Fatalf("delete must clear selection and insight context")
	}
}

// failingStore errors on every operation so fail-safe behavior can be
// observed.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Profile(context.Context) (*types.UserProfile, error) { return nil, errStoreDown }
func (failingStore) SaveProfile(context.Context, types.UserProfile) error {
	return errStoreDown
}
func (failingStore) Reports(context.Context) ([]types.Report, error)     { return nil, errStoreDown }
func (failingStore) CreateReport(context.Context, types.Report) error    { return errStoreDown }
func (failingStore) DeleteReport(context.Context, string) error          { return errStoreDown }
func (failingStore) Documents(context.Context) ([]types.StoredDocument, error) {
	return nil, errStoreDown
}
func (failingStore) CreateDocument(context.Context, types.StoredDocument) error {
	return errStoreDown
}
func (failingStore) DeleteDocument(context.Context, string) error { return errStoreDown }
func (failingStore) Drafts(context.Context) ([]types.DraftedDocument, error) {
	return nil, errStoreDown
}
func (failingStore) CreateDraft(context.Context, types.DraftedDocument) error { return errStoreDown }
func (failingStore) DeleteDraft(context.Context, string) error                { return errStoreDown }
func (failingStore) Events(context.Context) ([]types.CalendarEvent, error) {
	return nil, errStoreDown
}
func (failingStore) CreateEvent(context.Context, types.CalendarEvent) error { return errStoreDown }
func (failingStore) DeleteEvent(context.Context, string) error              { return errStoreDown }
func (failingStore) Messages(context.Context) ([]types.AppMessage, error) {
	return nil, errStoreDown
}
func (failingStore) AppendMessage(context.Context, types.AppMessage) error { return errStoreDown }
func (failingStore) Close() error                                          { return nil }

func TestLoadDegradesToEmptyCollections(t *testing.T) {
	s := NewSession(failingStore{}, types.TierFree, nil)
	s.Load(context.Background())

	if len(s.Reports()) != 0 || len(s.Documents()) != 0 || len(s.Messages()) != 0 {
		t.Fatalf("failed loads must leave collections empty")
	}
	if s.Profile() != nil {
		t.Fatalf("failed profile load must leave profile nil")
	}
	if s.ActiveView() != types.ViewDashboard {
		t.Fatalf("load failure must not affect navigation")
	}
}

func TestWriteFailureLeavesMemoryUnchanged(t *testing.T) {
	s := NewSession(failingStore{}, types.TierFree, nil)
	ctx := context.Background()

	_, err := s.AddReport(ctx, types.GeneratedReportData{
		Content: "x", Category: types.CategoryOther, Tags: []string{},
	}, nil)
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(s.Reports()) != 0 {
		t.Fatalf("memory mutated despite failed write")
	}

	if _, err := s.LogMessage(ctx, types.SenderUser, "hello"); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(s.Messages()) != 0 {
		t.Fatalf("messages mutated despite failed write")
	}
}
