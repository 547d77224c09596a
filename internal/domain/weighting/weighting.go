// Package weighting computes the per-interaction multiplier
// w = w_time * w_context.
package weighting

import (
	"math"
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
)

// Piecewise recency steps: interactions at most maxDays old get factor.
var recencySteps = []struct {
	maxDays float64
	factor  float64
}{
	{7, 2.0},
	{30, 1.5},
	{90, 1.2},
	{180, 1.0},
}

// decayAfterDays is where the exponential tail starts.
const decayAfterDays = 180

// Weighter is bound to one analysis instant. It is read-only and safe to share.
type Weighter struct {
	now      time.Time
	halfLife float64
	penalty  float64
	step     float64
	ctx      config.ContextMultipliers
}

// New creates a Weighter for the analysis instant now.
func New(cfg config.Engine, now time.Time) *Weighter {
	return &Weighter{
		now:      now,
		halfLife: cfg.HalfLifeDays,
		penalty:  cfg.DistributionListPenalty,
		step:     cfg.PeopleRankStep,
		ctx:      cfg.ContextMultipliers,
	}
}

// AgeDays returns the age of ts in fractional days. Future instants have age 0.
func (w *Weighter) AgeDays(ts time.Time) float64 {
	d := w.now.Sub(ts).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}

// Time returns w_time for an interaction at ts.
func (w *Weighter) Time(ts time.Time) float64 {
	age := w.AgeDays(ts)
	for _, s := range recencySteps {
		if age <= s.maxDays {
			return s.factor
		}
	}
	return math.Exp(-(age - decayAfterDays) / w.halfLife)
}

// Context returns w_context for in, including the distribution-list penalty.
// Unclassified calendar interactions weigh 0.
func (w *Weighter) Context(in model.Interaction) float64 {
	f := w.context(in)
	if in.DistributionList() {
		f *= w.penalty
	}
	return f
}

func (w *Weighter) context(in model.Interaction) float64 {
	switch in.Source {
	case model.SourceCalendar:
		return w.classContext(in.Class)
	case model.SourceChat:
		if in.Chat != nil && in.Chat.Kind == model.ChatOneOnOne {
			return w.ctx.ChatOneOnOne
		}
		return w.ctx.ChatGroup
	case model.SourceMail:
		if in.Mail != nil && in.Mail.Role == model.MailTo {
			return w.ctx.MailTo
		}
		return w.ctx.MailCC
	case model.SourceDocument:
		if in.Document == nil {
			return 0
		}
		switch in.Document.Kind {
		case model.DocumentCoEdit:
			return w.ctx.DocumentCoEdit
		case model.DocumentShareSent:
			return w.ctx.DocumentShareSent
		case model.DocumentShareReceived:
			return w.ctx.DocumentShareReceived
		}
		return 0
	case model.SourcePeopleRank:
		if in.PeopleRank == nil {
			return 0
		}
		return w.PeopleRank(in.PeopleRank.Rank) * in.PeopleRank.Confidence
	}
	return 0
}

func (w *Weighter) classContext(c model.MeetingClass) float64 {
	switch c {
	case model.ClassOneOnOne:
		return w.ctx.OneOnOne
	case model.ClassSmallCollaborative:
		return w.ctx.SmallCollaborative
	case model.ClassPlanningDecision:
		return w.ctx.PlanningDecision
	case model.ClassSmallRecurring:
		return w.ctx.SmallRecurring
	case model.ClassTrainingEducation:
		return w.ctx.TrainingEducation
	case model.ClassInformationalBriefing:
		return w.ctx.InformationalBriefing
	case model.ClassBroadcastWebinar:
		return w.ctx.BroadcastWebinar
	}
	return 0
}

// PeopleRank returns max(0, 1 - (rank-1)*step).
func (w *Weighter) PeopleRank(rank int) float64 {
	if rank < 1 {
		rank = 1
	}
	return math.Max(0, 1-float64(rank-1)*w.step)
}

// Weight returns w = w_time * w_context.
func (w *Weighter) Weight(in model.Interaction) float64 {
	return w.Time(in.Timestamp) * w.Context(in)
}
