// Package model contains the domain values passed between engine phases.
package model

// Identity is an opaque, stable identifier for a person or account (for
// example a directory email). It is compared byte-for-byte and never parsed.
type Identity string

// Source names the channel an interaction was derived from.
type Source string

// Supported sources. Sources lists them in their canonical processing order.
const (
	SourceCalendar   Source = "calendar"
	SourceChat       Source = "chat"
	SourceMail       Source = "mail"
	SourceDocument   Source = "document"
	SourcePeopleRank Source = "people_rank"
)

// Sources returns every known source in canonical order.
func Sources() []Source {
	return []Source{SourceCalendar, SourceChat, SourceMail, SourceDocument, SourcePeopleRank}
}

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceCalendar, SourceChat, SourceMail, SourceDocument, SourcePeopleRank:
		return true
	default:
		return false
	}
}

// Direction records who initiated an interaction.
type Direction string

const (
	DirectionOutgoing      Direction = "outgoing"
	DirectionIncoming      Direction = "incoming"
	DirectionBidirectional Direction = "bidirectional" // co-membership, e.g. meetings
)

// MeetingClass is the taxonomy category assigned to calendar interactions.
type MeetingClass string

const (
	ClassOneOnOne              MeetingClass = "one_on_one"
	ClassSmallCollaborative    MeetingClass = "small_collaborative"
	ClassSmallRecurring        MeetingClass = "small_recurring"
	ClassPlanningDecision      MeetingClass = "planning_decision"
	ClassInformationalBriefing MeetingClass = "informational_briefing"
	ClassBroadcastWebinar      MeetingClass = "broadcast_webinar"
	ClassTrainingEducation     MeetingClass = "training_education"
)

// MeetingClasses returns the closed set of meeting classes.
func MeetingClasses() []MeetingClass {
	return []MeetingClass{
		ClassOneOnOne,
		ClassSmallCollaborative,
		ClassSmallRecurring,
		ClassPlanningDecision,
		ClassInformationalBriefing,
		ClassBroadcastWebinar,
		ClassTrainingEducation,
	}
}

// Valid reports whether c belongs to the closed set.
func (c MeetingClass) Valid() bool {
	switch c {
	case ClassOneOnOne, ClassSmallCollaborative, ClassSmallRecurring, ClassPlanningDecision,
		ClassInformationalBriefing, ClassBroadcastWebinar, ClassTrainingEducation:
		return true
	default:
		return false
	}
}

// Genuine reports whether the class counts as genuine collaboration.
func (c MeetingClass) Genuine() bool {
	return c == ClassOneOnOne || c == ClassSmallCollaborative || c == ClassPlanningDecision
}

// Consumption reports whether the class is information consumption rather
// than collaboration.
func (c MeetingClass) Consumption() bool {
	return c == ClassInformationalBriefing || c == ClassBroadcastWebinar || c == ClassTrainingEducation
}

// ChatKind distinguishes direct chats from group conversations.
type ChatKind string

const (
	ChatOneOnOne ChatKind = "one_on_one"
	ChatGroup    ChatKind = "group"
)

// MailRole is the subject's (or recipient's) position on a mail.
type MailRole string

const (
	MailTo MailRole = "to"
	MailCC MailRole = "cc"
)

// DocumentKind describes how a document was shared or edited.
type DocumentKind string

const (
	DocumentCoEdit        DocumentKind = "co_edit"
	DocumentShareReceived DocumentKind = "share_received"
	DocumentShareSent     DocumentKind = "share_sent"
)
