// Package ingest normalizes per-source raw records into model.Interaction
// values. There is one adapter per source; adapters never classify, weight or
// score.
package ingest

import (
	"time"
)

// CalendarRecord is a raw calendar event.
type CalendarRecord struct {
	ID            string    `json:"id,omitempty"`
	Start         time.Time `json:"start"`
	Organizer     string    `json:"organizer"`
	Subject       string    `json:"subject,omitempty"`
	Attendees     []string  `json:"attendees,omitempty"`
	AttendeeCount int       `json:"attendee_count,omitempty"`
}

// ChatRecord is a raw chat conversation summary.
type ChatRecord struct {
	ID           string    `json:"id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Kind         string    `json:"chat_kind"`
	Participants []string  `json:"participants"`
	From         string    `json:"from,omitempty"`
	MessageCount int       `json:"message_count"`
}

// MailRecord is a raw mail message.
type MailRecord struct {
	ID         string    `json:"id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	From       string    `json:"from"`
	To         []string  `json:"to,omitempty"`
	CC         []string  `json:"cc,omitempty"`
	ThreadSize int       `json:"thread_size"`
}

// DocumentRecord is a raw document share or co-edit.
type DocumentRecord struct {
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"interaction_kind"`
	People    []string  `json:"people"`
}

// PeopleRankEntry is one entry of the directory's ordered people ranking.
type PeopleRankEntry struct {
	ID          string    `json:"id,omitempty"`
	Counterpart string    `json:"counterpart"`
	Rank        int       `json:"rank,omitempty"`
	Confidence  *float64  `json:"rank_source_confidence,omitempty"`
	AsOf        time.Time `json:"as_of,omitempty"`
}

// RecordID implementations key duplicate detection.
func (r CalendarRecord) RecordID() string  { return r.ID }
func (r ChatRecord) RecordID() string      { return r.ID }
func (r MailRecord) RecordID() string      { return r.ID }
func (r DocumentRecord) RecordID() string  { return r.ID }
func (r PeopleRankEntry) RecordID() string { return r.ID }

// Payload is the JSON wire shape of a full source snapshot. A missing key is
// an absent source; an empty array is a present source with no records.
type Payload struct {
	Calendar   []CalendarRecord  `json:"calendar,omitempty"`
	Chat       []ChatRecord      `json:"chat,omitempty"`
	Mail       []MailRecord      `json:"mail,omitempty"`
	Document   []DocumentRecord  `json:"document,omitempty"`
	PeopleRank []PeopleRankEntry `json:"people_rank,omitempty"`
}

// Sources wraps each present payload slice in a static fetcher.
func (p Payload) Sources() Sources {
	var s Sources
	if p.Calendar != nil {
		s.Calendar = Records[CalendarRecord](p.Calendar)
	}
	if p.Chat != nil {
		s.Chat = Records[ChatRecord](p.Chat)
	}
	if p.Mail != nil {
		s.Mail = Records[MailRecord](p.Mail)
	}
	if p.Document != nil {
		s.Document = Records[DocumentRecord](p.Document)
	}
	if p.PeopleRank != nil {
		s.PeopleRank = Records[PeopleRankEntry](p.PeopleRank)
	}
	return s
}
