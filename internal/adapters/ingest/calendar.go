package ingest

import (
	"context"
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// Calendar normalizes calendar events. A meeting fans out into one
// interaction per attendee other than SELF; all of them share the same
// CalendarAttrs value.
type Calendar struct {
	fetcher Fetcher[CalendarRecord]
	opts    options
}

// NewCalendar creates the calendar adapter.
func NewCalendar(f Fetcher[CalendarRecord], opts ...Option) *Calendar {
	return &Calendar{fetcher: f, opts: newOptions(opts)}
}

// Source implements Adapter.
func (a *Calendar) Source() model.Source { return model.SourceCalendar }

// Ingest implements Adapter.
func (a *Calendar) Ingest(ctx context.Context, w Window) (Batch, error) {
	return ingest(ctx, model.SourceCalendar, a.fetcher, w, a.opts, func(i int, r CalendarRecord) (time.Time, []model.Interaction, error) {
		return a.normalize(w.Self, i, r)
	})
}

func (a *Calendar) normalize(self model.Identity, index int, r CalendarRecord) (time.Time, []model.Interaction, error) {
	const src = "calendar"
	switch {
	case r.Start.IsZero():
		return time.Time{}, nil, malformed(src, index, r.ID, "missing start")
	case r.Organizer == "":
		return time.Time{}, nil, malformed(src, index, r.ID, "missing organizer")
	case r.AttendeeCount < 0:
		return time.Time{}, nil, malformed(src, index, r.ID, "negative attendee_count %d", r.AttendeeCount)
	}

	viaList := false
	seen := make(map[model.Identity]struct{}, len(r.Attendees)+2)
	people := make([]model.Identity, 0, len(r.Attendees)+1)
	add := func(raw string) {
		if raw == "" {
			return
		}
		if a.opts.lists.Match(raw) {
			viaList = true
			return
		}
		id := model.Identity(raw)
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		people = append(people, id)
	}
	for _, att := range r.Attendees {
		add(att)
	}
	add(r.Organizer)

	// Distinct people in the meeting, SELF included.
	distinct := len(people)
	if _, ok := seen[self]; !ok {
		distinct++
	}
	count := r.AttendeeCount
	if count < distinct {
		count = distinct
	}

	ts := r.Start.UTC()
	attrs := &model.CalendarAttrs{
		AttendeeCount:    count,
		Organizer:        model.Identity(r.Organizer),
		Subject:          r.Subject,
		DistributionList: viaList,
	}
	out := make([]model.Interaction, 0, len(people))
	for _, p := range people {
		if p == self {
			continue
		}
		out = append(out, model.Interaction{
			Counterpart: p,
			Source:      model.SourceCalendar,
			Timestamp:   ts,
			Direction:   model.DirectionBidirectional,
			Calendar:    attrs,
		})
	}
	return ts, out, nil
}
