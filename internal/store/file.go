package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"custodyx/internal/types"
)

// FileStore is the JSON fallback used when sqlite cannot be opened. One file
// per collection under the data root:
//
//	<root>/profile.json
//	<root>/reports.json
//	<root>/documents.json
//	<root>/drafted_documents.json
//	<root>/calendar_events.json
//	<root>/messages.json
//
// A missing or unreadable file reads as an empty collection. The store never
// fails a read; only writes can error.
type FileStore struct {
	Root string

	mu sync.Mutex
}

func NewFileStore(root string) *FileStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultDataRoot()
	}
	return &FileStore{Root: filepath.Clean(root)}
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.Root, name+".json")
}

// readCollection decodes the named file into out. Absent or corrupt payloads
// leave out untouched.
func (s *FileStore) readCollection(name string, out interface{}) {
	payload, err := os.ReadFile(s.path(name))
	if err != nil {
		return
	}
	_ = json.Unmarshal(payload, out)
}

func (s *FileStore) writeCollection(name string, value interface{}) error {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(name), payload, 0o644)
}

func (s *FileStore) Profile(ctx context.Context) (*types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := os.ReadFile(s.path("profile"))
	if err != nil {
		return nil, nil
	}
	var p types.UserProfile
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, nil
	}
	return &p, nil
}

func (s *FileStore) SaveProfile(ctx context.Context, profile types.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeCollection("profile", profile)
}

func (s *FileStore) Reports(ctx context.Context) ([]types.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadReports(), nil
}

func (s *FileStore) loadReports() []types.Report {
	out := []types.Report{}
	s.readCollection("reports", &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *FileStore) CreateReport(ctx context.Context, report types.Report) error {
	if strings.TrimSpace(report.ID) == "" {
		return errors.New("missing report id")
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := s.loadReports()
	reports = append(reports, report)
	return s.writeCollection("reports", reports)
}

func (s *FileStore) DeleteReport(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := s.loadReports()
	kept := reports[:0]
	for _, r := range reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return s.writeCollection("reports", kept)
}

func (s *FileStore) Documents(ctx context.Context) ([]types.StoredDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadDocuments(), nil
}

func (s *FileStore) loadDocuments() []types.StoredDocument {
	out := []types.StoredDocument{}
	s.readCollection("documents", &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *FileStore) CreateDocument(ctx context.Context, doc types.StoredDocument) error {
	if strings.TrimSpace(doc.ID) == "" {
		return errors.New("missing document id")
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.loadDocuments()
	docs = append(docs, doc)
	return s.writeCollection("documents", docs)
}

func (s *FileStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.loadDocuments()
	kept := docs[:0]
	for _, d := range docs {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	return s.writeCollection("documents", kept)
}

func (s *FileStore) Drafts(ctx context.Context) ([]types.DraftedDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadDrafts(), nil
}

func (s *FileStore) loadDrafts() []types.DraftedDocument {
	out := []types.DraftedDocument{}
	s.readCollection("drafted_documents", &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *FileStore) CreateDraft(ctx context.Context, draft types.DraftedDocument) error {
	if strings.TrimSpace(draft.ID) == "" {
		return errors.New("missing draft id")
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	drafts := s.loadDrafts()
	drafts = append(drafts, draft)
	return s.writeCollection("drafted_documents", drafts)
}

func (s *FileStore) DeleteDraft(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drafts := s.loadDrafts()
	kept := drafts[:0]
	for _, d := range drafts {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	return s.writeCollection("drafted_documents", kept)
}

func (s *FileStore) Events(ctx context.Context) ([]types.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadEvents(), nil
}

func (s *FileStore) loadEvents() []types.CalendarEvent {
	out := []types.CalendarEvent{}
	s.readCollection("calendar_events", &out)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EventDate != out[j].EventDate {
			return out[i].EventDate < out[j].EventDate
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *FileStore) CreateEvent(ctx context.Context, event types.CalendarEvent) error {
	if strings.TrimSpace(event.ID) == "" {
		return errors.New("missing event id")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.loadEvents()
	events = append(events, event)
	return s.writeCollection("calendar_events", events)
}

func (s *FileStore) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.loadEvents()
	kept := events[:0]
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return s.writeCollection("calendar_events", kept)
}

func (s *FileStore) Messages(ctx context.Context) ([]types.AppMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMessages(), nil
}

func (s *FileStore) loadMessages() []types.AppMessage {
	out := []types.AppMessage{}
	s.readCollection("messages", &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func (s *FileStore) AppendMessage(ctx context.Context, msg types.AppMessage) error {
	if strings.TrimSpace(msg.ID) == "" {
		return errors.New("missing message id")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.loadMessages()
	msgs = append(msgs, msg)
	return s.writeCollection("messages", msgs)
}
