package model

import (
	"cmp"
	"time"
)

// CalendarAttrs are shared by every interaction fanned out from one meeting.
type CalendarAttrs struct {
	AttendeeCount    int
	Organizer        Identity
	Subject          string
	DistributionList bool // invitation arrived through a distribution list
}

// ChatAttrs describe a chat conversation.
type ChatAttrs struct {
	Kind         ChatKind
	MessageCount int
}

// MailAttrs describe a mail exchange.
type MailAttrs struct {
	Role       MailRole
	ThreadSize int
}

// DocumentAttrs describe a document interaction.
type DocumentAttrs struct {
	Kind DocumentKind
}

// PeopleRankAttrs carry an organization-provided ranking entry.
type PeopleRankAttrs struct {
	Rank       int     // 1 = highest
	Confidence float64 // in [0,1]
}

// Interaction is the atomic bilateral signal derived from one source record.
//
// Source discriminates the variant: exactly one attribute pointer matching
// Source is non-nil. Class is set only for calendar interactions.
// Values are treated as immutable once constructed.
type Interaction struct {
	Counterpart Identity
	Source      Source
	Timestamp   time.Time
	Direction   Direction

	Calendar   *CalendarAttrs
	Chat       *ChatAttrs
	Mail       *MailAttrs
	Document   *DocumentAttrs
	PeopleRank *PeopleRankAttrs

	Class MeetingClass
}

// WithClass returns a copy of i carrying the given meeting class.
func (i Interaction) WithClass(c MeetingClass) Interaction {
	i.Class = c
	return i
}

// Classified reports whether a meeting class has been assigned.
func (i Interaction) Classified() bool {
	return i.Class != ""
}

// DistributionList reports whether i is a calendar interaction that arrived
// through a distribution-list invitation.
func (i Interaction) DistributionList() bool {
	return i.Calendar != nil && i.Calendar.DistributionList
}

// Compare defines a total order over interactions: timestamp, counterpart,
// source, direction, then every source attribute. Sorting by Compare makes
// aggregation independent of insertion order.
func Compare(a, b Interaction) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Counterpart, b.Counterpart); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Source, b.Source); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Direction, b.Direction); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Class, b.Class); c != 0 {
		return c
	}
	return compareAttrs(a, b)
}

func compareAttrs(a, b Interaction) int {
	switch {
	case a.Calendar != nil && b.Calendar != nil:
		x, y := a.Calendar, b.Calendar
		if c := cmp.Compare(x.Organizer, y.Organizer); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Subject, y.Subject); c != 0 {
			return c
		}
		if c := cmp.Compare(x.AttendeeCount, y.AttendeeCount); c != 0 {
			return c
		}
		return compareBool(x.DistributionList, y.DistributionList)
	case a.Chat != nil && b.Chat != nil:
		if c := cmp.Compare(a.Chat.Kind, b.Chat.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.Chat.MessageCount, b.Chat.MessageCount)
	case a.Mail != nil && b.Mail != nil:
		if c := cmp.Compare(a.Mail.Role, b.Mail.Role); c != 0 {
			return c
		}
		return cmp.Compare(a.Mail.ThreadSize, b.Mail.ThreadSize)
	case a.Document != nil && b.Document != nil:
		return cmp.Compare(a.Document.Kind, b.Document.Kind)
	case a.PeopleRank != nil && b.PeopleRank != nil:
		if c := cmp.Compare(a.PeopleRank.Rank, b.PeopleRank.Rank); c != 0 {
			return c
		}
		return cmp.Compare(a.PeopleRank.Confidence, b.PeopleRank.Confidence)
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
