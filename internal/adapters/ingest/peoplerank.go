package ingest

import (
	"context"
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// PeopleRank normalizes the directory's ordered people ranking. Entries are
// consumed in list order; a zero rank takes the 1-based list position.
type PeopleRank struct {
	fetcher Fetcher[PeopleRankEntry]
	opts    options
}

// NewPeopleRank creates the people-rank adapter.
func NewPeopleRank(f Fetcher[PeopleRankEntry], opts ...Option) *PeopleRank {
	return &PeopleRank{fetcher: f, opts: newOptions(opts)}
}

// Source implements Adapter.
func (a *PeopleRank) Source() model.Source { return model.SourcePeopleRank }

// Ingest implements Adapter.
func (a *PeopleRank) Ingest(ctx context.Context, w Window) (Batch, error) {
	return ingest(ctx, model.SourcePeopleRank, a.fetcher, w, a.opts, func(i int, r PeopleRankEntry) (time.Time, []model.Interaction, error) {
		return normalizePeopleRank(w, i, r)
	})
}

func normalizePeopleRank(w Window, index int, r PeopleRankEntry) (time.Time, []model.Interaction, error) {
	const src = "people_rank"
	confidence := 1.0
	if r.Confidence != nil {
		confidence = *r.Confidence
	}
	switch {
	case r.Counterpart == "":
		return time.Time{}, nil, malformed(src, index, r.ID, "missing counterpart")
	case r.Rank < 0:
		return time.Time{}, nil, malformed(src, index, r.ID, "negative rank %d", r.Rank)
	case !(confidence >= 0 && confidence <= 1):
		return time.Time{}, nil, malformed(src, index, r.ID, "rank_source_confidence must lie in [0,1], got %v", confidence)
	}

	ts := w.Now
	if !r.AsOf.IsZero() {
		ts = r.AsOf.UTC()
	}
	rank := r.Rank
	if rank == 0 {
		rank = index + 1
	}
	who := model.Identity(r.Counterpart)
	if who == w.Self {
		return ts, nil, nil
	}
	return ts, []model.Interaction{{
		Counterpart: who,
		Source:      model.SourcePeopleRank,
		Timestamp:   ts,
		Direction:   model.DirectionIncoming,
		PeopleRank:  &model.PeopleRankAttrs{Rank: rank, Confidence: confidence},
	}}, nil
}
