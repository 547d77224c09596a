package ingest

import (
	"context"
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// Document normalizes document shares and co-edits into one interaction per
// person other than SELF.
type Document struct {
	fetcher Fetcher[DocumentRecord]
	opts    options
}

// NewDocument creates the document adapter.
func NewDocument(f Fetcher[DocumentRecord], opts ...Option) *Document {
	return &Document{fetcher: f, opts: newOptions(opts)}
}

// Source implements Adapter.
func (a *Document) Source() model.Source { return model.SourceDocument }

// Ingest implements Adapter.
func (a *Document) Ingest(ctx context.Context, w Window) (Batch, error) {
	return ingest(ctx, model.SourceDocument, a.fetcher, w, a.opts, func(i int, r DocumentRecord) (time.Time, []model.Interaction, error) {
		return normalizeDocument(w.Self, i, r)
	})
}

func normalizeDocument(self model.Identity, index int, r DocumentRecord) (time.Time, []model.Interaction, error) {
	const src = "document"
	kind := model.DocumentKind(r.Kind)
	var dir model.Direction
	switch kind {
	case model.DocumentCoEdit:
		dir = model.DirectionBidirectional
	case model.DocumentShareSent:
		dir = model.DirectionOutgoing
	case model.DocumentShareReceived:
		dir = model.DirectionIncoming
	}
	switch {
	case r.Timestamp.IsZero():
		return time.Time{}, nil, malformed(src, index, r.ID, "missing timestamp")
	case dir == "":
		return time.Time{}, nil, malformed(src, index, r.ID, "invalid interaction_kind %q", r.Kind)
	case len(r.People) == 0:
		return time.Time{}, nil, malformed(src, index, r.ID, "missing people")
	}

	ts := r.Timestamp.UTC()
	attrs := &model.DocumentAttrs{Kind: kind}
	var out []model.Interaction
	for _, p := range distinct(r.People) {
		if p == self {
			continue
		}
		out = append(out, model.Interaction{
			Counterpart: p,
			Source:      model.SourceDocument,
			Timestamp:   ts,
			Direction:   dir,
			Document:    attrs,
		})
	}
	return ts, out, nil
}
