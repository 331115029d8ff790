package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"custodyx/internal/types"
)

// SQLiteStore is the primary store, one database file under the data root.
type SQLiteStore struct {
	Root   string
	dbPath string

	mu   sync.Mutex
	db   *sql.DB
	once sync.Once
	err  error
}

// DefaultDataRoot resolves the data directory.
func DefaultDataRoot() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "custodyx")
	}
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".local", "share", "custodyx")
	}
	return filepath.Join(os.TempDir(), "custodyx")
}

func NewSQLiteStore(root string) (*SQLiteStore, error) {
	if strings.TrimSpace(root) == "" {
		root = DefaultDataRoot()
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	st := &SQLiteStore{
		Root:   root,
		dbPath: filepath.Join(root, "custodyx.db"),
	}
	// Initialize eagerly so callers fail fast.
	if err := st.init(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SQLiteStore) init() error {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			s.err = err
			return
		}
		// Keep sqlite responsive under contention.
		_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
		_, _ = db.Exec("PRAGMA journal_mode = WAL;")
		_, _ = db.Exec("PRAGMA synchronous = NORMAL;")

		schema := []string{
			`CREATE TABLE IF NOT EXISTS profiles (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				name TEXT NOT NULL,
				role TEXT NOT NULL,
				children TEXT NOT NULL,
				updated_at_ns INTEGER NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS reports (
				id TEXT PRIMARY KEY,
				content TEXT NOT NULL,
				category TEXT NOT NULL,
				tags TEXT NOT NULL,
				legal_context TEXT,
				images TEXT NOT NULL,
				created_at_ns INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at_ns);`,
			`CREATE TABLE IF NOT EXISTS documents (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				mime_type TEXT NOT NULL,
				data TEXT NOT NULL,
				created_at_ns INTEGER NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS drafted_documents (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				content TEXT NOT NULL,
				type TEXT NOT NULL,
				related_report_id TEXT,
				created_at_ns INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_drafts_created ON drafted_documents(created_at_ns);`,
			`CREATE TABLE IF NOT EXISTS calendar_events (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT,
				event_date TEXT NOT NULL,
				event_type TEXT NOT NULL,
				color TEXT,
				created_at_ns INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_events_date ON calendar_events(event_date);`,
			`CREATE TABLE IF NOT EXISTS messages (
				id TEXT PRIMARY KEY,
				sender TEXT NOT NULL,
				body TEXT NOT NULL,
				created_at_ns INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at_ns);`,
		}
		for _, stmt := range schema {
			if _, err := db.Exec(stmt); err != nil {
				_ = db.Close()
				s.err = err
				return
			}
		}

		s.db = db
	})
	return s.err
}

func (s *SQLiteStore) dbConn() (*sql.DB, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, errors.New("sqlite store unavailable")
	}
	return db, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) Profile(ctx context.Context) (*types.UserProfile, error) {
	db, err := s.dbConn()
	if err != nil {
		return nil, err
	}
	var p types.UserProfile
	var children string
	err = db.QueryRowContext(ctx, `SELECT name, role, children FROM profiles WHERE id = 1`).
		Scan(&p.Name, &p.Role, &children)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(children), &p.Children); err != nil {
		p.Children = nil
	}
	return &p, nil
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, profile types.UserProfile) error {
	db, err := s.dbConn()
	if err != nil {
		return err
	}
	children, err := json.Marshal(profile.Children)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO profiles(id, name, role, children, updated_at_ns)
		 VALUES(1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, role=excluded.role,
		   children=excluded.children, updated_at_ns=excluded.updated_at_ns`,
		profile.Name, profile.Role, string(children), time.Now().UnixNano(),
	)
	return err
}

func (s *SQLiteStore) Reports(ctx context.Context) ([]types.Report, error) {
	db, err := s.dbConn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, content, category, tags, legal_context, images, created_at_ns
		 FROM reports ORDER BY created_at_ns DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.Report, 0, 32)
	for rows.Next() {
		var r types.Report
		var category string
		var tags string
		var images string
		var legal sql.NullString
		var createdNS int64
		if err := rows.Scan(&r.ID, &r.Content, &category, &tags, &legal, &images, &createdNS); err != nil {
			continue
		}
		r.Category = types.IncidentCategory(category)
		if legal.Valid {
			r.LegalContext = legal.String
		}
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			r.Tags = nil
		}
		if err := json.Unmarshal([]byte(images), &r.Images); err != nil {
			r.Images = nil
		}
		r.CreatedAt = time.Unix(0, createdNS)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateReport(ctx context.Context, report types.Report) error {
	if strings.TrimSpace(report.ID) == "" {
		return errors.New("missing report id")
	}
	db, err := s.dbConn()
	if err != nil {
		return err
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	tags, err := json.Marshal(emptyIfNil(report.Tags))
	if err != nil {
		return err
	}
	images, err := json.Marshal(emptyIfNil(report.Images))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO reports(id, content, category, tags, legal_context, images, created_at_ns)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Content, string(report.Category), string(tags),
		nullIfEmpty(report.LegalContext), string(images), report.CreatedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) DeleteReport(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "reports", id)
}

func (s *SQLiteStore) Documents(ctx context.Context) ([]types.StoredDocument, error) {
	db, err := s.dbConn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, mime_type, data, created_at_ns
		 FROM documents ORDER BY created_at_ns DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.StoredDocument, 0, 16)
	for rows.Next() {
		var d types.StoredDocument
		var createdNS int64
		if err := rows.Scan(&d.ID, &d.Name, &d.MimeType, &d.Data, &createdNS); err != nil {
			continue
		}
		d.CreatedAt = time.Unix(0, createdNS)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, doc types.StoredDocument) error {
	if strings.TrimSpace(doc.ID) == "" {
		return errors.New("missing document id")
	}
	db, err := s.dbConn()
	if err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO documents(id, name, mime_type, data, created_at_ns)
		 VALUES(?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.MimeType, doc.Data, doc.CreatedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "documents", id)
}

func (s *SQLiteStore) Drafts(ctx context.Context) ([]types.DraftedDocument, error) {
	db, err := s.dbConn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, content, type, related_report_id, created_at_ns
		 FROM drafted_documents ORDER BY created_at_ns DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.DraftedDocument, 0, 16)
	for rows.Next() {
		var d types.DraftedDocument
		var draftType string
		var related sql.NullString
		var createdNS int64
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &draftType, &related, &createdNS); err != nil {
			continue
		}
		d.Type = types.DraftType(draftType)
		if related.Valid {
			d.RelatedReportID = related.String
		}
		d.CreatedAt = time.Unix(0, createdNS)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateDraft(ctx context.Context, draft types.DraftedDocument) error {
	if strings.TrimSpace(draft.ID) == "" {
		return errors.New("missing draft id")
	}
	db, err := s.dbConn()
	if err != nil {
		return err
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO drafted_documents(id, title, content, type, related_report_id, created_at_ns)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		draft.ID, draft.Title, draft.Content, string(draft.Type),
		nullIfEmpty(draft.RelatedReportID), draft.CreatedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) DeleteDraft(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "drafted_documents", id)
}

func (s *SQLiteStore) Events(ctx context.Context) ([]types.CalendarEvent, error) {
	db, err := s.dbConn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, description, event_date, event_type, color, created_at_ns
		 FROM calendar_events ORDER BY event_date ASC, created_at_ns ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.CalendarEvent, 0, 16)
	for rows.Next() {
		var e types.CalendarEvent
		var eventType string
		var desc sql.NullString
		var color sql.NullString
		var createdNS int64
		if err := rows.Scan(&e.ID, &e.Title, &desc, &e.EventDate, &eventType, &color, &createdNS); err != nil {
			continue
		}
		e.EventType = types.EventType(eventType)
		if desc.Valid {
			e.Description = desc.String
		}
		if color.Valid {
			e.Color = color.String
		}
		e.CreatedAt = time.Unix(0, createdNS)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateEvent(ctx context.Context, event types.CalendarEvent) error {
	if strings.TrimSpace(event.ID) == "" {
		return errors.New("missing event id")
	}
	db, err := s.dbConn()
	if err != nil {
		return err
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO calendar_events(id, title, description, event_date, event_type, color, created_at_ns)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, nullIfEmpty(event.Description), event.EventDate,
		string(event.EventType), nullIfEmpty(event.Color), event.CreatedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) DeleteEvent(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "calendar_events", id)
}

func (s *SQLiteStore) Messages(ctx context.Context) ([]types.AppMessage, error) {
	db, err := s.dbConn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, sender, body, created_at_ns
		 FROM messages ORDER BY created_at_ns ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.AppMessage, 0, 64)
	for rows.Next() {
		var m types.AppMessage
		var sender string
		var createdNS int64
		if err := rows.Scan(&m.ID, &sender, &m.Text, &createdNS); err != nil {
			continue
		}
		m.Sender = types.MessageSender(sender)
		m.Timestamp = time.Unix(0, createdNS)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AppendMessage(ctx context.Context, msg types.AppMessage) error {
	if strings.TrimSpace(msg.ID) == "" {
		return errors.New("missing message id")
	}
	db, err := s.dbConn()
	if err != nil {
		return err
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO messages(id, sender, body, created_at_ns) VALUES(?, ?, ?, ?)`,
		msg.ID, string(msg.Sender), msg.Text, msg.Timestamp.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) deleteByID(ctx context.Context, table string, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("missing id")
	}
	db, err := s.dbConn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	return err
}

func nullIfEmpty(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
