package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"custodyx/internal/store"
	"custodyx/internal/types"
)

// UpgradePrompt describes a refused navigation: which feature was blocked
// and the tier that unlocks it.
type UpgradePrompt struct {
	Feature  string
	Required types.Tier
}

// Session is the application session controller. It owns the active view,
// the loaded collections, the contextual hand-off state between views, and
// the report selection. Every navigation and mutation goes through it.
//
// All methods must be called from the UI event loop; the Session is not
// synchronized. Store writes are awaited and the in-memory collection only
// mutates after the write succeeds, so memory never claims persistence that
// did not happen.
type Session struct {
	log   *zap.Logger
	store store.Store
	tier  types.Tier

	view        types.View
	sidebarOpen bool

	profile   *types.UserProfile
	reports   []types.Report
	documents []types.StoredDocument
	drafts    []types.DraftedDocument
	events    []types.CalendarEvent
	messages  []types.AppMessage

	activeReport      *types.Report
	activeInsight     *types.Report
	analysisContext   string
	initialLegalQuery string

	selected            map[string]struct{}
	pendingIncidentDate string

	upgradePrompt *UpgradePrompt

	generation uint64
}

func NewSession(st store.Store, tier types.Tier, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		log:      log,
		store:    st,
		tier:     tier,
		view:     types.ViewDashboard,
		selected: make(map[string]struct{}),
	}
}

// Load fetches every collection in parallel and joins before returning. An
// individual failure logs and leaves that collection empty; Load itself
// never fails.
func (s *Session) Load(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.store.Profile(ctx)
		if err != nil {
			s.log.Error("load profile failed", zap.Error(err))
			return nil
		}
		s.profile = profile
		return nil
	})
	g.Go(func() error {
		reports, err := s.store.Reports(ctx)
		if err != nil {
			s.log.Error("load reports failed", zap.Error(err))
			return nil
		}
		s.reports = reports
		return nil
	})
	g.Go(func() error {
		documents, err := s.store.Documents(ctx)
		if err != nil {
			s.log.Error("load documents failed", zap.Error(err))
			return nil
		}
		s.documents = documents
		return nil
	})
	g.Go(func() error {
		drafts, err := s.store.Drafts(ctx)
		if err != nil {
			s.log.Error("load drafts failed", zap.Error(err))
			return nil
		}
		s.drafts = drafts
		return nil
	})
	g.Go(func() error {
		events, err := s.store.Events(ctx)
		if err != nil {
			s.log.Error("load events failed", zap.Error(err))
			return nil
		}
		s.events = events
		return nil
	})
	g.Go(func() error {
		messages, err := s.store.Messages(ctx)
		if err != nil {
			s.log.Error("load messages failed", zap.Error(err))
			return nil
		}
		s.messages = messages
		return nil
	})

	_ = g.Wait()
}

// authorize checks the tier gate for a target view. Refusal records an
// upgrade prompt naming the blocked feature and leaves all other state
// untouched.
func (s *Session) authorize(target types.View) bool {
	required := types.RequiredTier(target)
	if s.tier.AtLeast(required) {
		s.upgradePrompt = nil
		return true
	}
	s.upgradePrompt = &UpgradePrompt{Feature: target.DisplayName(), Required: required}
	s.log.Info("navigation blocked by tier",
		zap.String("view", string(target)),
		zap.String("tier", string(s.tier)),
		zap.String("required", string(required)),
	)
	return false
}

// ChangeView navigates to target if the tier allows it. On success the
// sidebar closes and any pending incident date is dropped unless the target
// is the intake view.
func (s *Session) ChangeView(target types.View) bool {
	if !s.authorize(target) {
		return false
	}
	if target != types.ViewNewReport {
		s.pendingIncidentDate = ""
	}
	s.view = target
	s.sidebarOpen = false
	return true
}

// DiscussIncident hands a report to the legal assistant. An unknown id is a
// silent no-op.
func (s *Session) DiscussIncident(id string) {
	report := s.findReport(id)
	if report == nil {
		s.log.Debug("discuss requested for unknown report", zap.String("report_id", id))
		return
	}
	if !s.authorize(types.ViewAssistant) {
		return
	}
	s.activeReport = report
	s.analysisContext = ""
	s.view = types.ViewAssistant
	s.sidebarOpen = false
}

// AnalyzeIncident hands a report to the deep-analysis view. An unknown id is
// a silent no-op.
func (s *Session) AnalyzeIncident(id string) {
	report := s.findReport(id)
	if report == nil {
		s.log.Debug("analyze requested for unknown report", zap.String("report_id", id))
		return
	}
	if !s.authorize(types.ViewInsights) {
		return
	}
	s.activeInsight = report
	s.view = types.ViewInsights
	s.sidebarOpen = false
}

// GenerateDraftFromInsight carries a finished analysis into the assistant as
// the primary drafting context, seeding the drafting query.
func (s *Session) GenerateDraftFromInsight(analysisText string, motionType string) {
	if !s.authorize(types.ViewAssistant) {
		return
	}
	s.initialLegalQuery = fmt.Sprintf("Based on the provided analysis, please draft a %q.", motionType)
	s.analysisContext = analysisText
	s.activeReport = nil
	s.activeInsight = nil
	s.view = types.ViewAssistant
	s.sidebarOpen = false
}

// OpenNewReportForDate pre-seeds the intake chat with a calendar date.
func (s *Session) OpenNewReportForDate(date string) {
	s.pendingIncidentDate = date
	s.view = types.ViewNewReport
	s.sidebarOpen = false
}

// ToggleReportSelection flips a report in or out of the evidence selection.
// Ids that do not name a loaded report are ignored so the selection stays a
// subset of the corpus.
func (s *Session) ToggleReportSelection(id string) {
	if s.findReport(id) == nil {
		return
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

func (s *Session) ClearSelection() {
	s.selected = make(map[string]struct{})
}

func (s *Session) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

func (s *Session) SelectedCount() int { return len(s.selected) }

// SelectedReports returns the selected reports in corpus order.
func (s *Session) SelectedReports() []types.Report {
	var out []types.Report
	for _, r := range s.reports {
		if s.IsSelected(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Session) SelectedReportIDs() []string {
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EvidenceBuilderAvailable reports whether the evidence-package affordance
// should render: a non-empty selection on a view that shows reports.
func (s *Session) EvidenceBuilderAvailable() bool {
	if len(s.selected) == 0 {
		return false
	}
	return s.view == types.ViewTimeline || s.view == types.ViewCalendar
}

// BeginRequest starts a new AI request generation. Responses carry the
// generation they were issued under; IsCurrent decides acceptance.
func (s *Session) BeginRequest() uint64 {
	s.generation++
	return s.generation
}

// IsCurrent reports whether a response generation is still the live one.
// Stale generations must be dropped, never rendered.
func (s *Session) IsCurrent(gen uint64) bool {
	return gen == s.generation
}

// AddReport finalizes generated report data into a stored report. The write
// is awaited; memory only changes when it succeeds.
func (s *Session) AddReport(ctx context.Context, data types.GeneratedReportData, images []string) (types.Report, error) {
	report := types.Report{
		GeneratedReportData: data,
		ID:                  uuid.NewString(),
		CreatedAt:           time.Now(),
		Images:              images,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		s.log.Error("create report failed", zap.String("report_id", report.ID), zap.Error(err))
		return types.Report{}, err
	}
	s.reports = append([]types.Report{report}, s.reports...)
	return report, nil
}

func (s *Session) DeleteReport(ctx context.Context, id string) error {
	if err := s.store.DeleteReport(ctx, id); err != nil {
		s.log.Error("delete report failed", zap.String("report_id", id), zap.Error(err))
		return err
	}
	kept := s.reports[:0]
	for _, r := range s.reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.reports = kept
	delete(s.selected, id)
	if s.activeReport != nil && s.activeReport.ID == id {
		s.activeReport = nil
	}
	if s.activeInsight != nil && s.activeInsight.ID == id {
		s.activeInsight = nil
	}
	return nil
}

func (s *Session) AddDocument(ctx context.Context, name string, mimeType string, data string) (types.StoredDocument, error) {
	doc := types.StoredDocument{
		ID:        uuid.NewString(),
		Name:      name,
		MimeType:  mimeType,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		s.log.Error("create document failed", zap.String("name", name), zap.Error(err))
		return types.StoredDocument{}, err
	}
	s.documents = append([]types.StoredDocument{doc}, s.documents...)
	return doc, nil
}

func (s *Session) DeleteDocument(ctx context.Context, id string) error {
	if err := s.store.DeleteDocument(ctx, id); err != nil {
		s.log.Error("delete document failed", zap.String("document_id", id), zap.Error(err))
		return err
	}
	kept := s.documents[:0]
	for _, d := range s.documents {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.documents = kept
	return nil
}

func (s *Session) AddDraft(ctx context.Context, title string, content string, draftType types.DraftType, relatedReportID string) (types.DraftedDocument, error) {
	draft := types.DraftedDocument{
		ID:              uuid.NewString(),
		Title:           title,
		Content:         content,
		Type:            draftType,
		RelatedReportID: relatedReportID,
		CreatedAt:       time.Now(),
	}
	if err := s.store.CreateDraft(ctx, draft); err != nil {
		s.log.Error("create draft failed", zap.String("title", title), zap.Error(err))
		return types.DraftedDocument{}, err
	}
	s.drafts = append([]types.DraftedDocument{draft}, s.drafts...)
	return draft, nil
}

func (s *Session) DeleteDraft(ctx context.Context, id string) error {
	if err := s.store.DeleteDraft(ctx, id); err != nil {
		s.log.Error("delete draft failed", zap.String("draft_id", id), zap.Error(err))
		return err
	}
	kept := s.drafts[:0]
	for _, d := range s.drafts {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.drafts = kept
	return nil
}

func (s *Session) AddEvent(ctx context.Context, event types.CalendarEvent) (types.CalendarEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		s.log.Error("create event failed", zap.String("title", event.Title), zap.Error(err))
		return types.CalendarEvent{}, err
	}
	s.events = append(s.events, event)
	return event, nil
}

func (s *Session) DeleteEvent(ctx context.Context, id string) error {
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		s.log.Error("delete event failed", zap.String("event_id", id), zap.Error(err))
		return err
	}
	kept := s.events[:0]
	for _, e := range s.events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.events = kept
	return nil
}

func (s *Session) LogMessage(ctx context.Context, sender types.MessageSender, text string) (types.AppMessage, error) {
	msg := types.AppMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		s.log.Error("log message failed", zap.Error(err))
		return types.AppMessage{}, err
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *Session) SaveProfile(ctx context.Context, profile types.UserProfile) error {
	if err := s.store.SaveProfile(ctx, profile); err != nil {
		s.log.Error("save profile failed", zap.Error(err))
		return err
	}
	s.profile = &profile
	return nil
}

func (s *Session) findReport(id string) *types.Report {
	for i := range s.reports {
		if s.reports[i].ID == id {
			return &s.reports[i]
		}
	}
	return nil
}

func (s *Session) ActiveView() types.View { return s.view }

func (s *Session) Tier() types.Tier { return s.tier }

func (s *Session) Profile() *types.UserProfile { return s.profile }

func (s *Session) Reports() []types.Report { return s.reports }

// RecentReports returns the n newest reports for the dashboard.
func (s *Session) RecentReports(n int) []types.Report {
	if n > len(s.reports) {
		n = len(s.reports)
	}
	return s.reports[:n]
}

func (s *Session) Documents() []types.StoredDocument { return s.documents }

func (s *Session) Drafts() []types.DraftedDocument { return s.drafts }

func (s *Session) Events() []types.CalendarEvent { return s.events }

func (s *Session) Messages() []types.AppMessage { return s.messages }

func (s *Session) ActiveReport() *types.Report { return s.activeReport }

func (s *Session) ClearActiveReport() { s.activeReport = nil }

func (s *Session) ActiveInsight() *types.Report { return s.activeInsight }

func (s *Session) ClearActiveInsight() { s.activeInsight = nil }

func (s *Session) AnalysisContext() string { return s.analysisContext }

func (s *Session) ClearAnalysisContext() { s.analysisContext = "" }

func (s *Session) InitialLegalQuery() string { return s.initialLegalQuery }

func (s *Session) ClearInitialLegalQuery() { s.initialLegalQuery = "" }

func (s *Session) PendingIncidentDate() string { return s.pendingIncidentDate }

func (s *Session) UpgradePrompt() *UpgradePrompt { return s.upgradePrompt }

func (s *Session) DismissUpgradePrompt() { s.upgradePrompt = nil }

func (s *Session) SidebarOpen() bool { return s.sidebarOpen }

func (s *Session) ToggleSidebar() { s.sidebarOpen = !s.sidebarOpen }
