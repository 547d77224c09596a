package ingest

import (
	"context"
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// Chat normalizes chat conversations into one interaction per participant
// other than SELF.
type Chat struct {
	fetcher Fetcher[ChatRecord]
	opts    options
}

// NewChat creates the chat adapter.
func NewChat(f Fetcher[ChatRecord], opts ...Option) *Chat {
	return &Chat{fetcher: f, opts: newOptions(opts)}
}

// Source implements Adapter.
func (a *Chat) Source() model.Source { return model.SourceChat }

// Ingest implements Adapter.
func (a *Chat) Ingest(ctx context.Context, w Window) (Batch, error) {
	return ingest(ctx, model.SourceChat, a.fetcher, w, a.opts, func(i int, r ChatRecord) (time.Time, []model.Interaction, error) {
		return normalizeChat(w.Self, i, r)
	})
}

func normalizeChat(self model.Identity, index int, r ChatRecord) (time.Time, []model.Interaction, error) {
	const src = "chat"
	kind := model.ChatKind(r.Kind)
	switch {
	case r.Timestamp.IsZero():
		return time.Time{}, nil, malformed(src, index, r.ID, "missing timestamp")
	case kind != model.ChatOneOnOne && kind != model.ChatGroup:
		return time.Time{}, nil, malformed(src, index, r.ID, "invalid chat_kind %q", r.Kind)
	case len(r.Participants) == 0:
		return time.Time{}, nil, malformed(src, index, r.ID, "missing participants")
	case r.MessageCount < 1:
		return time.Time{}, nil, malformed(src, index, r.ID, "message_count must be at least 1, got %d", r.MessageCount)
	}

	ts := r.Timestamp.UTC()
	attrs := &model.ChatAttrs{Kind: kind, MessageCount: r.MessageCount}
	from := model.Identity(r.From)
	var out []model.Interaction
	for _, p := range distinct(r.Participants) {
		if p == self {
			continue
		}
		dir := model.DirectionBidirectional
		switch from {
		case self:
			dir = model.DirectionOutgoing
		case p:
			dir = model.DirectionIncoming
		}
		out = append(out, model.Interaction{
			Counterpart: p,
			Source:      model.SourceChat,
			Timestamp:   ts,
			Direction:   dir,
			Chat:        attrs,
		})
	}
	return ts, out, nil
}

// distinct returns the non-empty identities of ids in first-seen order.
func distinct(ids []string) []model.Identity {
	seen := make(map[string]struct{}, len(ids))
	out := make([]model.Identity, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, model.Identity(id))
	}
	return out
}
