package store

import (
	"context"
	"testing"
	"time"

	"custodyx/internal/types"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLiteProfileAbsentThenUpsert(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	p, err := st.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil profile before first save, got %+v", p)
	}

	want := types.UserProfile{Name: "Jordan", Role: "Mother", Children: []string{"Avery", "Sam"}}
	if err := st.SaveProfile(ctx, want); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	// Upsert replaces, never duplicates.
	want.Role = "Father"
	if err := st.SaveProfile(ctx, want); err != nil {
		t.Fatalf("SaveProfile again: %v", err)
	}

	got, err := st.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if got == nil || got.Name != "Jordan" || got.Role != "Father" || len(got.Children) != 2 {
		t.Fatalf("profile round-trip mismatch: %+v", got)
	}
}

func TestSQLiteReportsNewestFirst(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"r1", "r2", "r3"} {
		r := types.Report{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			GeneratedReportData: types.GeneratedReportData{
				Content:  "### Summary of Events\nEntry " + id,
				Category: types.CategorySchedulingConflict,
				Tags:     []string{"pickup", id},
			},
		}
		if err := st.CreateReport(ctx, r); err != nil {
			t.Fatalf("CreateReport(%s): %v", id, err)
		}
	}

	got, err := st.Reports(ctx)
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 reports, got %d", len(got))
	}
	if got[0].ID != "r3" || got[2].ID != "r1" {
		t.Fatalf("reports not newest first: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if len(got[0].Tags) != 2 || got[0].Tags[0] != "pickup" {
		t.Fatalf("tags lost on round-trip: %+v", got[0].Tags)
	}
}

func TestSQLiteDeleteReportIdempotent(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	r := types.Report{ID: "r1", GeneratedReportData: types.GeneratedReportData{
		Content: "x", Category: types.CategoryOther, Tags: []string{},
	}}
	if err := st.CreateReport(ctx, r); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if err := st.DeleteReport(ctx, "r1"); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	// Deleting an id that no longer exists is a no-op, not an error.
	if err := st.DeleteReport(ctx, "r1"); err != nil {
		t.Fatalf("second DeleteReport: %v", err)
	}
	got, err := st.Reports(ctx)
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty, got %d", len(got))
	}
}

func TestSQLiteDocumentPayloadRoundTrip(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	// Payload with padding and every base64 alphabet quirk we care about.
	payload := "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJ+/=="
	doc := types.StoredDocument{
		ID:       "d1",
		Name:     "custody-order.pdf",
		MimeType: "application/pdf",
		Data:     payload,
	}
	if err := st.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	got, err := st.Documents(ctx)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 document, got %d", len(got))
	}
	if got[0].Data != payload {
		t.Fatalf("base64 payload altered on round-trip")
	}
	if got[0].MimeType != "application/pdf" || got[0].Name != "custody-order.pdf" {
		t.Fatalf("metadata altered: %+v", got[0])
	}
}

func TestSQLiteDraftSoftReference(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	draft := types.DraftedDocument{
		ID:              "dd1",
		Title:           "Motion to Compel",
		Content:         "# Motion\n...",
		Type:            types.DraftLegalDraft,
		RelatedReportID: "r-missing",
	}
	if err := st.CreateDraft(ctx, draft); err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	// The related report does not exist; the draft must still load intact.
	got, err := st.Drafts(ctx)
	if err != nil {
		t.Fatalf("Drafts: %v", err)
	}
	if len(got) != 1 || got[0].RelatedReportID != "r-missing" || got[0].Type != types.DraftLegalDraft {
		t.Fatalf("draft round-trip mismatch: %+v", got)
	}
}

func TestSQLiteMessagesChronological(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	msgs := []types.AppMessage{
		{ID: "m2", Sender: types.SenderOtherParent, Text: "late again", Timestamp: base.Add(time.Minute)},
		{ID: "m1", Sender: types.SenderUser, Text: "pickup at 5?", Timestamp: base},
	}
	for _, m := range msgs {
		if err := st.AppendMessage(ctx, m); err != nil {
			t.Fatalf("AppendMessage(%s): %v", m.ID, err)
		}
	}
	got, err := st.Messages(ctx)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m2" {
		t.Fatalf("messages not chronological: %+v", got)
	}
}

func TestSQLiteEventsOrderedByDate(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	events := []types.CalendarEvent{
		{ID: "e2", Title: "Hearing", EventDate: "2026-09-12", EventType: types.EventDeadline},
		{ID: "e1", Title: "Pediatrician", EventDate: "2026-09-03", EventType: types.EventAppointment},
	}
	for _, e := range events {
		if err := st.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent(%s): %v", e.ID, err)
		}
	}
	got, err := st.Events(ctx)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e2" {
		t.Fatalf("events not date ordered: %+v", got)
	}
}
