package types

import "strings"

// View identifies one primary screen. Navigation between views is the
// session controller's job; nothing else may mutate the active view.
type View string

const (
	ViewDashboard        View = "dashboard"
	ViewTimeline         View = "timeline"
	ViewNewReport        View = "new_report"
	ViewPatterns         View = "patterns"
	ViewInsights         View = "insights"
	ViewAssistant        View = "assistant"
	ViewProfile          View = "profile"
	ViewDocuments        View = "documents"
	ViewDraftedDocuments View = "drafted_documents"
	ViewCalendar         View = "calendar"
	ViewMessaging        View = "messaging"
)

func ParseView(value string) (View, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case string(ViewDashboard):
		return ViewDashboard, true
	case string(ViewTimeline):
		return ViewTimeline, true
	case string(ViewNewReport):
		return ViewNewReport, true
	case string(ViewPatterns):
		return ViewPatterns, true
	case string(ViewInsights):
		return ViewInsights, true
	case string(ViewAssistant):
		return ViewAssistant, true
	case string(ViewProfile):
		return ViewProfile, true
	case string(ViewDocuments):
		return ViewDocuments, true
	case string(ViewDraftedDocuments):
		return ViewDraftedDocuments, true
	case string(ViewCalendar):
		return ViewCalendar, true
	case string(ViewMessaging):
		return ViewMessaging, true
	default:
		return View(""), false
	}
}

// DisplayName is the feature name shown in navigation and upgrade prompts.
func (v View) DisplayName() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewTimeline:
		return "Incident Timeline"
	case ViewNewReport:
		return "New Report"
	case ViewPatterns:
		return "Pattern Analysis"
	case ViewInsights:
		return "Deep Analysis"
	case ViewAssistant:
		return "Legal Assistant"
	case ViewProfile:
		return "Profile"
	case ViewDocuments:
		return "Document Library"
	case ViewDraftedDocuments:
		return "Drafted Documents"
	case ViewCalendar:
		return "Calendar"
	case ViewMessaging:
		return "Communication Log"
	default:
		return string(v)
	}
}
