package store

import (
	"context"

	"custodyx/internal/types"
)

// Store persists the user's documentation corpus: the profile, incident
// reports, library documents, drafted documents, calendar events and the
// communication log.
//
// Implementations must return reports and drafts newest first, events and
// messages in chronological order, and must treat deletes of unknown ids as
// no-ops. A nil profile with a nil error means no profile has been saved yet.
type Store interface {
	Profile(ctx context.Context) (*types.UserProfile, error)
	SaveProfile(ctx context.Context, profile types.UserProfile) error

	Reports(ctx context.Context) ([]types.Report, error)
	CreateReport(ctx context.Context, report types.Report) error
	DeleteReport(ctx context.Context, id string) error

	Documents(ctx context.Context) ([]types.StoredDocument, error)
	CreateDocument(ctx context.Context, doc types.StoredDocument) error
	DeleteDocument(ctx context.Context, id string) error

	Drafts(ctx context.Context) ([]types.DraftedDocument, error)
	CreateDraft(ctx context.Context, draft types.DraftedDocument) error
	DeleteDraft(ctx context.Context, id string) error

	Events(ctx context.Context) ([]types.CalendarEvent, error)
	CreateEvent(ctx context.Context, event types.CalendarEvent) error
	DeleteEvent(ctx context.Context, id string) error

	Messages(ctx context.Context) ([]types.AppMessage, error)
	AppendMessage(ctx context.Context, msg types.AppMessage) error

	Close() error
}
