package app

import (
	"github.com/cylin-ms/scenara-sub003/internal/adapters/ingest"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// CheckInvariants verifies the data-model invariants of classified
// interactions. The first violation is returned, marked ErrInvariantViolation.
//
// A two-person meeting is a one-on-one unless an earlier classification rule
// (broadcast, informational, training) fired first.
func CheckInvariants(w ingest.Window, items []model.Interaction) error {
	for i, in := range items {
		switch {
		case in.Counterpart == "":
			return violation("interaction %d: empty counterpart", i)
		case in.Counterpart == w.Self:
			return violation("interaction %d: counterpart is the subject", i)
		case !w.Contains(in.Timestamp):
			return violation("interaction %d (%s): timestamp %s outside window", i, in.Counterpart, in.Timestamp)
		case !in.Source.Valid():
			return violation("interaction %d (%s): unknown source %q", i, in.Counterpart, in.Source)
		}
		if err := checkVariant(i, in); err != nil {
			return err
		}
	}
	return nil
}

func checkVariant(i int, in model.Interaction) error {
	set := 0
	for _, present := range []bool{in.Calendar != nil, in.Chat != nil, in.Mail != nil, in.Document != nil, in.PeopleRank != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return violation("interaction %d (%s): %d attribute sets, want 1", i, in.Counterpart, set)
	}

	if in.Source != model.SourceCalendar {
		if in.Classified() {
			return violation("interaction %d (%s): %s interaction carries class %q", i, in.Counterpart, in.Source, in.Class)
		}
		return nil
	}

	c := in.Calendar
	switch {
	case c == nil:
		return violation("interaction %d (%s): calendar attributes missing", i, in.Counterpart)
	case !in.Class.Valid():
		return violation("interaction %d (%s): calendar class %q not in the closed set", i, in.Counterpart, in.Class)
	case c.AttendeeCount < 1:
		return violation("interaction %d (%s): attendee_count %d", i, in.Counterpart, c.AttendeeCount)
	case c.AttendeeCount == 2 && in.Class != model.ClassOneOnOne && !in.Class.Consumption():
		return violation("interaction %d (%s): two-person meeting classified %q", i, in.Counterpart, in.Class)
	case c.DistributionList && (in.Class == model.ClassOneOnOne || in.Class == model.ClassSmallCollaborative):
		return violation("interaction %d (%s): distribution-list invitation classified %q", i, in.Counterpart, in.Class)
	}
	return nil
}
