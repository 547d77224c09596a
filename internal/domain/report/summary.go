package report

import (
	"fmt"
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/internal/domain/scoring"
)

// recentNoun names each channel in "recent ..." summary items.
var recentNoun = map[model.Source]string{
	model.SourceCalendar: "meeting",
	model.SourceChat:     "chat",
	model.SourceMail:     "mail",
	model.SourceDocument: "document activity",
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// summarize renders the short human-readable evidence list of a counterpart,
// e.g. "3 one-on-ones", "2 meetings you organized", "recent chat".
func summarize(a scoring.Aggregate, now time.Time, recent time.Duration) []string {
	ev := a.Evidence
	out := []string{}
	add := func(n int, one, many string) {
		if n > 0 {
			out = append(out, plural(n, one, many))
		}
	}
	add(ev.OneOnOnes, "one-on-one", "one-on-ones")
	add(ev.SelfOrganized, "meeting you organized", "meetings you organized")
	add(ev.CounterpartOrganized, "meeting they organized", "meetings they organized")
	add(ev.SmallCollaborative, "small collaborative meeting", "small collaborative meetings")
	add(ev.ChatMessages, "chat message", "chat messages")
	add(ev.Mails, "mail", "mails")
	add(ev.CoEdits, "co-edit", "co-edits")
	if ev.PeopleRank > 0 {
		out = append(out, fmt.Sprintf("people-rank #%d", ev.PeopleRank))
	}
	for _, src := range model.Sources() {
		noun, ok := recentNoun[src]
		if !ok {
			continue
		}
		if last, seen := a.LastBySource[src]; seen && now.Sub(last) <= recent {
			out = append(out, "recent "+noun)
		}
	}
	return out
}
