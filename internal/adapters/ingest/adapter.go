package ingest

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/domain/dedupe"
	"github.com/cylin-ms/scenara-sub003/internal/domain/match"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/pkg/logger"
)

const day = 24 * time.Hour

// Window is the inclusive analysis window [Start, Now] for one subject.
type Window struct {
	Self  model.Identity
	Now   time.Time
	Start time.Time
}

// NewWindow returns the window ending at now and spanning lookbackDays.
func NewWindow(self model.Identity, now time.Time, lookbackDays int) Window {
	now = now.UTC()
	return Window{
		Self:  self,
		Now:   now,
		Start: now.Add(-time.Duration(lookbackDays) * day),
	}
}

// Contains reports whether ts lies inside the window, bounds included.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && !ts.After(w.Now)
}

// Batch is the immutable result of one adapter run.
type Batch struct {
	Source       model.Source
	Records      int // raw records fetched
	Interactions []model.Interaction
	Malformed    int
	OutOfWindow  int
	SelfOnly     int
	Duplicates   int
}

// Adapter normalizes one source.
type Adapter interface {
	Source() model.Source
	// Ingest fetches and normalizes the source's records. Malformed records
	// are skipped and counted unless the adapter is strict, in which case the
	// first one aborts with ErrMalformedRecord. Fetch failures return
	// ErrSourceUnavailable.
	Ingest(ctx context.Context, w Window) (Batch, error)
}

// Option configures an adapter.
type Option func(*options)

type options struct {
	strict  bool
	deduper dedupe.Deduper
	lists   match.Set
	log     logger.Logger
}

// WithStrict aborts ingestion on the first malformed record.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithDeduper sets the duplicate record-id tracker. By default every Ingest
// call gets a fresh in-memory deduper sized to the fetched records.
func WithDeduper(d dedupe.Deduper) Option {
	return func(o *options) {
		if d != nil {
			o.deduper = d
		}
	}
}

// WithDistributionLists sets the distribution-list patterns used by the
// calendar adapter.
func WithDistributionLists(patterns []string) Option {
	return func(o *options) { o.lists = match.Compile(patterns) }
}

// WithLogger sets the adapter logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type identified interface {
	RecordID() string
}

// normalizer validates one record and returns its timestamp and the
// interactions it yields, SELF already excluded.
type normalizer[T identified] func(index int, rec T) (time.Time, []model.Interaction, error)

// ingest runs the common fetch, validate, window, self and duplicate pipeline.
func ingest[T identified](ctx context.Context, src model.Source, f Fetcher[T], w Window, o options, normalize normalizer[T]) (Batch, error) {
	b := Batch{Source: src}
	if f == nil {
		return b, nil
	}

	records, err := f.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return b, ctx.Err()
		}
		return b, unavailable(string(src), err)
	}
	b.Records = len(records)
	var keyed []keyedRecord
	for i, rec := range records {
		ts, items, err := normalize(i, rec)
		if err != nil {
			if o.strict {
				return Batch{Source: src}, err
			}
			b.Malformed++
			o.log.Debug(ctx, "skipping malformed record", logger.String("source", string(src)), logger.Error(err))
			continue
		}
		if !w.Contains(ts) {
			b.OutOfWindow++
			continue
		}
		if len(items) == 0 {
			b.SelfOnly++
			continue
		}
		if rec.RecordID() == "" {
			b.Interactions = append(b.Interactions, items...)
			continue
		}
		items = slices.Clone(items)
		slices.SortFunc(items, model.Compare)
		keyed = append(keyed, keyedRecord{id: rec.RecordID(), items: items})
	}

	seen := o.deduper
	if seen == nil {
		seen = dedupe.NewInMemoryDeduper(dedupe.WithCapacityHint(len(keyed)))
	}
	// Records sharing an id keep the smallest content, whatever the input order.
	slices.SortFunc(keyed, func(a, c keyedRecord) int {
		if n := cmp.Compare(a.id, c.id); n != 0 {
			return n
		}
		return slices.CompareFunc(a.items, c.items, model.Compare)
	})
	for i, k := range keyed {
		if i > 0 && keyed[i-1].id == k.id {
			b.Duplicates++
			continue
		}
		if seen.SeenAndRecord(ctx, k.id) {
			b.Duplicates++
			continue
		}
		b.Interactions = append(b.Interactions, k.items...)
	}
	return b, nil
}

// keyedRecord holds the interactions of one record carrying an id, sorted
// so that equal content compares equal.
type keyedRecord struct {
	id    string
	items []model.Interaction
}

// NewAdapters returns one adapter per source in canonical order. Absent
// sources get an adapter that yields an empty batch.
func NewAdapters(s Sources, opts ...Option) []Adapter {
	return []Adapter{
		NewCalendar(s.Calendar, opts...),
		NewChat(s.Chat, opts...),
		NewMail(s.Mail, opts...),
		NewDocument(s.Document, opts...),
		NewPeopleRank(s.PeopleRank, opts...),
	}
}
