package scoring

import (
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/internal/domain/types"
)

// isoWeek is an ISO 8601 week-year bucket.
type isoWeek struct {
	year, week int
}

// Aggregate is the per-counterpart reduction of weighted interactions. It is
// built from scratch for every counterpart and never shared.
type Aggregate struct {
	Counterpart  model.Identity
	Interactions int

	// Calendar counts calendar interactions; Genuine those classified as
	// genuine collaboration.
	Calendar int
	Genuine  int

	// Channels holds the weighted sum per source; every source is present.
	Channels map[model.Source]float64
	Raw      float64

	Evidence types.Evidence

	// Subjects lists the subject of each calendar interaction.
	Subjects []string

	FirstSeen   time.Time
	LastSeen    time.Time
	ActiveWeeks int

	// LastBySource is the latest interaction instant per source present.
	LastBySource map[model.Source]time.Time

	// Recent counts interactions inside the recency bonus window.
	Recent int

	// PeopleRank is the best people-rank position, 0 when absent, and
	// PeopleRankConfidence the source confidence of that entry.
	PeopleRank           int
	PeopleRankConfidence float64
	RankEntries          int
}

func newAggregate(id model.Identity) Aggregate {
	a := Aggregate{
		Counterpart:  id,
		Channels:     make(map[model.Source]float64, len(model.Sources())),
		LastBySource: make(map[model.Source]time.Time),
	}
	for _, src := range model.Sources() {
		a.Channels[src] = 0
	}
	return a
}

// RankOnly reports whether every interaction came from people-rank.
func (a Aggregate) RankOnly() bool {
	return a.Interactions > 0 && a.Interactions == a.RankEntries
}

// GenuineRatio is the share of calendar interactions classified as genuine
// collaboration; 0 without calendar interactions.
func (a Aggregate) GenuineRatio() float64 {
	if a.Calendar == 0 {
		return 0
	}
	return float64(a.Genuine) / float64(a.Calendar)
}

// DistributionListRatio is the share of calendar interactions that arrived
// through a distribution list; 0 without calendar interactions.
func (a Aggregate) DistributionListRatio() float64 {
	if a.Calendar == 0 {
		return 0
	}
	return float64(a.Evidence.DistributionListMeetings) / float64(a.Calendar)
}

// EventsPerWeek is interactions / max(1, span in weeks).
func (a Aggregate) EventsPerWeek() float64 {
	weeks := a.LastSeen.Sub(a.FirstSeen).Hours() / (24 * 7)
	if weeks < 1 {
		weeks = 1
	}
	return float64(a.Interactions) / weeks
}
