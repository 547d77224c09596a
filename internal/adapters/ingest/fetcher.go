package ingest

import (
	"context"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// Fetcher retrieves the raw records of one source. Implementations wrap
// already-authenticated client handles; a returned error is reported as
// ErrSourceUnavailable.
type Fetcher[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
}

// Records is a static, in-memory Fetcher.
type Records[T any] []T

// Fetch implements Fetcher.
func (r Records[T]) Fetch(context.Context) ([]T, error) {
	return r, nil
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[T any] func(ctx context.Context) ([]T, error)

// Fetch implements Fetcher.
func (f FetcherFunc[T]) Fetch(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// Sources holds the optional per-source fetchers of one analysis. A nil
// fetcher is an absent source.
type Sources struct {
	Calendar   Fetcher[CalendarRecord]
	Chat       Fetcher[ChatRecord]
	Mail       Fetcher[MailRecord]
	Document   Fetcher[DocumentRecord]
	PeopleRank Fetcher[PeopleRankEntry]
}

// Present reports whether a fetcher was supplied for src.
func (s Sources) Present(src model.Source) bool {
	switch src {
	case model.SourceCalendar:
		return s.Calendar != nil
	case model.SourceChat:
		return s.Chat != nil
	case model.SourceMail:
		return s.Mail != nil
	case model.SourceDocument:
		return s.Document != nil
	case model.SourcePeopleRank:
		return s.PeopleRank != nil
	default:
		return false
	}
}
