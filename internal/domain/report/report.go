// Package report assembles the deterministic, serializable analysis report.
package report

import (
	"cmp"
	"crypto/sha256"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/internal/domain/scoring"
	"github.com/cylin-ms/scenara-sub003/internal/domain/types"
)

// namespace scopes report ids to this engine.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:collab-rank:report"))

const defaultRecentWindow = 7 * 24 * time.Hour

// Meta identifies one analysis.
type Meta struct {
	Subject      model.Identity
	Now          time.Time
	LookbackDays int
	ConfigDigest string
}

// Builder produces reports. It holds no per-run state.
type Builder struct {
	recent time.Duration
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithRecentWindow sets how close to now an interaction must be to count as
// "recent" in evidence summaries.
func WithRecentWindow(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.recent = d
		}
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{recent: defaultRecentWindow}

	// Apply all options
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build sorts survivors by (-final_score, counterpart), assigns ranks from 1
// and attaches metadata. interactions is the canonical, sorted interaction
// list the report was computed from; it keys the report id.
func (b *Builder) Build(meta Meta, survivors []scoring.Result, interactions []model.Interaction,
	counts map[model.Source]int, diag types.Diagnostics,
) types.Report {
	ranked := slices.Clone(survivors)
	slices.SortFunc(ranked, func(x, y scoring.Result) int {
		if c := cmp.Compare(y.Score.FinalScore, x.Score.FinalScore); c != 0 {
			return c
		}
		return cmp.Compare(x.Score.Counterpart, y.Score.Counterpart)
	})

	collaborators := make([]types.CollaboratorScore, len(ranked))
	for i, r := range ranked {
		s := r.Score
		s.Rank = i + 1
		s.Summary = summarize(r.Aggregate, meta.Now, b.recent)
		collaborators[i] = s
	}

	sourceCounts := make(map[model.Source]int, len(model.Sources()))
	for _, src := range model.Sources() {
		sourceCounts[src] = counts[src]
	}
	diag.Survivors = len(collaborators)

	return types.Report{
		AlgorithmVersion: types.AlgorithmVersion,
		ReportID:         ReportID(meta, interactions),
		ConfigDigest:     meta.ConfigDigest,
		Subject:          meta.Subject,
		Now:              meta.Now,
		LookbackDays:     meta.LookbackDays,
		SourceCounts:     sourceCounts,
		Collaborators:    collaborators,
		Diagnostics:      diag,
	}
}

// ReportID derives a name-based UUID from the analysis inputs, so identical
// runs share an id.
func ReportID(meta Meta, interactions []model.Interaction) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\n", meta.ConfigDigest, meta.Subject, meta.Now.UTC().Format(time.RFC3339Nano), meta.LookbackDays)
	for _, in := range interactions {
		writeInteraction(h, in)
	}
	return uuid.NewSHA1(namespace, h.Sum(nil)).String()
}

func writeInteraction(w io.Writer, in model.Interaction) {
	fields := []string{
		string(in.Counterpart),
		string(in.Source),
		strconv.FormatInt(in.Timestamp.UnixNano(), 10),
		string(in.Direction),
		string(in.Class),
	}
	switch {
	case in.Calendar != nil:
		c := in.Calendar
		fields = append(fields, string(c.Organizer), c.Subject, strconv.Itoa(c.AttendeeCount), strconv.FormatBool(c.DistributionList))
	case in.Chat != nil:
		fields = append(fields, string(in.Chat.Kind), strconv.Itoa(in.Chat.MessageCount))
	case in.Mail != nil:
		fields = append(fields, string(in.Mail.Role), strconv.Itoa(in.Mail.ThreadSize))
	case in.Document != nil:
		fields = append(fields, string(in.Document.Kind))
	case in.PeopleRank != nil:
		fields = append(fields, strconv.Itoa(in.PeopleRank.Rank), strconv.FormatFloat(in.PeopleRank.Confidence, 'g', -1, 64))
	}
	for _, f := range fields {
		_, _ = io.WriteString(w, f)
		_, _ = w.Write([]byte{0})
	}
	_, _ = w.Write([]byte{'\n'})
}
