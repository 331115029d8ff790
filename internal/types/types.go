package types

import "time"

// IncidentCategory is the closed set of categories the report generator may
// assign. The string values are user facing and are stored verbatim.
type IncidentCategory string

const (
	CategoryCommunicationIssue        IncidentCategory = "Communication Issue"
	CategorySchedulingConflict        IncidentCategory = "Scheduling Conflict"
	CategoryFinancialDispute          IncidentCategory = "Financial Dispute"
	CategoryMissedVisitation          IncidentCategory = "Missed Visitation"
	CategoryParentalAlienationConcern IncidentCategory = "Parental Alienation Concern"
	CategoryChildWellbeing            IncidentCategory = "Child Wellbeing"
	CategoryLegalDocumentation        IncidentCategory = "Legal Documentation"
	CategoryOther                     IncidentCategory = "Other"
)

// AllCategories lists every category in display order.
func AllCategories() []IncidentCategory {
	return []IncidentCategory{
		CategoryCommunicationIssue,
		CategorySchedulingConflict,
		CategoryFinancialDispute,
		CategoryMissedVisitation,
		CategoryParentalAlienationConcern,
		CategoryChildWellbeing,
		CategoryLegalDocumentation,
		CategoryOther,
	}
}

// ParseCategory maps a raw model-emitted string onto the closed category set.
// Unknown values fall back to CategoryOther rather than failing the report.
func ParseCategory(value string) IncidentCategory {
	for _, c := range AllCategories() {
		if string(c) == value {
			return c
		}
	}
	return CategoryOther
}

// ChatImage is an inline attachment on a chat turn.
type ChatImage struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type ChatMessage struct {
	Role    string      `json:"role"` // user|model
	Content string      `json:"content"`
	Images  []ChatImage `json:"images,omitempty"`
}

// GeneratedReportData is the structured payload the report generator returns
// before an id and timestamp are attached.
type GeneratedReportData struct {
	Content      string           `json:"content"`
	Category     IncidentCategory `json:"category"`
	Tags         []string         `json:"tags"`
	LegalContext string           `json:"legal_context,omitempty"`
}

// Report is a finalized incident report.
type Report struct {
	GeneratedReportData
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Images    []string  `json:"images"` // base64 data URLs captured at intake
}

// Theme is one recurring-pattern bucket with its occurrence count.
type Theme struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type UserProfile struct {
	Name     string   `json:"name"`
	Role     string   `json:"role"` // Mother|Father|""
	Children []string `json:"children"`
}

// OtherParentRole returns the counterpart label for the profile role, used
// when prompts and views refer to the other parent.
func (p UserProfile) OtherParentRole() string {
	switch p.Role {
	case "Mother":
		return "Father"
	case "Father":
		return "Mother"
	default:
		return "other parent"
	}
}

// StoredDocument is an uploaded file kept in the document library.
type StoredDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	Data      string    `json:"data"` // base64, opaque to everything but the AI gateway
	CreatedAt time.Time `json:"created_at"`
}

// DraftType classifies entries in the drafted-documents library.
type DraftType string

const (
	DraftIncidentReport     DraftType = "incident_report"
	DraftBehavioralAnalysis DraftType = "behavioral_analysis"
	DraftLegalDraft         DraftType = "legal_draft"
	DraftUploadedDocument   DraftType = "uploaded_document"
)

// DraftedDocument is AI output the user chose to keep. RelatedReportID is a
// soft reference: deleting the report does not cascade here.
type DraftedDocument struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Type            DraftType `json:"type"`
	RelatedReportID string    `json:"related_report_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// EventType classifies user-created calendar entries.
type EventType string

const (
	EventCustom      EventType = "custom"
	EventAppointment EventType = "appointment"
	EventDeadline    EventType = "deadline"
	EventOther       EventType = "other"
)

// CalendarEvent is a user-created entry on the calendar. EventDate is the
// civil date the entry belongs to, formatted 2006-01-02.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   string    `json:"event_date"`
	EventType   EventType `json:"event_type"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageSender identifies who a logged communication came from.
type MessageSender string

const (
	SenderUser        MessageSender = "user"
	SenderOtherParent MessageSender = "otherParent"
)

// AppMessage is one manually logged communication. The log is evidence, not a
// live channel, so entries are append-only from the user's point of view.
type AppMessage struct {
	ID        string        `json:"id"`
	Sender    MessageSender `json:"sender"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp"`
}

// Source is a web citation attached to a grounded AI response.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}
