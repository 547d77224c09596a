package ingest

import (
	"context"
	"slices"
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// Mail normalizes mail messages. Sent mail yields one outgoing interaction per
// recipient; received mail yields one incoming interaction for the sender,
// carrying SELF's role on the message.
type Mail struct {
	fetcher Fetcher[MailRecord]
	opts    options
}

// NewMail creates the mail adapter.
func NewMail(f Fetcher[MailRecord], opts ...Option) *Mail {
	return &Mail{fetcher: f, opts: newOptions(opts)}
}

// Source implements Adapter.
func (a *Mail) Source() model.Source { return model.SourceMail }

// Ingest implements Adapter.
func (a *Mail) Ingest(ctx context.Context, w Window) (Batch, error) {
	return ingest(ctx, model.SourceMail, a.fetcher, w, a.opts, func(i int, r MailRecord) (time.Time, []model.Interaction, error) {
		return normalizeMail(w.Self, i, r)
	})
}

func normalizeMail(self model.Identity, index int, r MailRecord) (time.Time, []model.Interaction, error) {
	const src = "mail"
	switch {
	case r.Timestamp.IsZero():
		return time.Time{}, nil, malformed(src, index, r.ID, "missing timestamp")
	case r.From == "":
		return time.Time{}, nil, malformed(src, index, r.ID, "missing from")
	case r.ThreadSize < 1:
		return time.Time{}, nil, malformed(src, index, r.ID, "thread_size must be at least 1, got %d", r.ThreadSize)
	}

	ts := r.Timestamp.UTC()
	from := model.Identity(r.From)
	if from != self {
		role := model.MailCC
		if slices.Contains(r.To, string(self)) {
			role = model.MailTo
		}
		return ts, []model.Interaction{{
			Counterpart: from,
			Source:      model.SourceMail,
			Timestamp:   ts,
			Direction:   model.DirectionIncoming,
			Mail:        &model.MailAttrs{Role: role, ThreadSize: r.ThreadSize},
		}}, nil
	}

	to := &model.MailAttrs{Role: model.MailTo, ThreadSize: r.ThreadSize}
	cc := &model.MailAttrs{Role: model.MailCC, ThreadSize: r.ThreadSize}
	var out []model.Interaction
	emit := func(p model.Identity, attrs *model.MailAttrs) {
		out = append(out, model.Interaction{
			Counterpart: p,
			Source:      model.SourceMail,
			Timestamp:   ts,
			Direction:   model.DirectionOutgoing,
			Mail:        attrs,
		})
	}
	direct := distinct(r.To)
	for _, p := range direct {
		if p != self {
			emit(p, to)
		}
	}
	// A recipient on both lines counts once, as TO.
	for _, p := range distinct(r.CC) {
		if p != self && !slices.Contains(direct, p) {
			emit(p, cc)
		}
	}
	return ts, out, nil
}
