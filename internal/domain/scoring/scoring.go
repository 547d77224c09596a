// Package scoring aggregates weighted interactions per counterpart into
// channel sub-scores, bonuses and a confidence estimate.
package scoring

import (
	"math"

	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/internal/domain/types"
	"github.com/cylin-ms/scenara-sub003/internal/domain/weighting"
)

// Confidence indicator thresholds.
const (
	genuineRatioFloor    = 0.3
	listRatioCeiling     = 0.7
	confidenceIndicators = 6
)

// Result pairs a score with the aggregate it was computed from.
type Result struct {
	Aggregate Aggregate
	Score     types.CollaboratorScore
}

// Scorer computes collaborator scores for one analysis subject.
type Scorer struct {
	self     model.Identity
	weighter *weighting.Weighter
	base     config.BaseWeights
	bonuses  config.Bonuses

	rankCutoff int
	rankAdmits bool
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithBaseWeights overrides the base-weight table.
func WithBaseWeights(b config.BaseWeights) Option {
	return func(s *Scorer) { s.base = b }
}

// NewScorer creates a Scorer with the engine tables and the weighter bound
// to the analysis instant.
func NewScorer(cfg config.Engine, self model.Identity, w *weighting.Weighter, opts ...Option) *Scorer {
	s := &Scorer{
		self:     self,
		weighter: w,
		base:     cfg.BaseWeights,
		bonuses:  cfg.Bonuses,

		rankCutoff: cfg.PeopleRankCutoff,
		rankAdmits: cfg.PeopleRankAdmitsAlone,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Base returns the base weight b_i of an interaction.
func (s *Scorer) Base(in model.Interaction) float64 {
	switch in.Source {
	case model.SourceCalendar:
		return s.calendarBase(in)
	case model.SourceChat:
		if in.Chat != nil && in.Chat.Kind == model.ChatOneOnOne {
			return s.base.ChatOneOnOne
		}
		return s.base.ChatGroup
	case model.SourceMail:
		if in.Mail != nil && in.Mail.Role == model.MailTo {
			return s.base.MailTo
		}
		return s.base.MailCC
	case model.SourceDocument:
		if in.Document == nil {
			return 0
		}
		switch in.Document.Kind {
		case model.DocumentCoEdit:
			return s.base.DocumentCoEdit
		case model.DocumentShareSent:
			return s.base.DocumentShareSent
		case model.DocumentShareReceived:
			return s.base.DocumentShareReceived
		}
		return 0
	case model.SourcePeopleRank:
		return s.base.PeopleRank
	}
	return 0
}

func (s *Scorer) calendarBase(in model.Interaction) float64 {
	switch {
	case in.Class == model.ClassOneOnOne:
		return s.base.OneOnOne
	case in.Class.Consumption():
		return s.classBase(in.Class)
	case in.Calendar != nil && in.Calendar.Organizer == s.self:
		return s.base.SelfOrganized
	case in.Calendar != nil && in.Calendar.Organizer == in.Counterpart:
		return s.base.CounterpartOrganized
	default:
		return s.classBase(in.Class)
	}
}

func (s *Scorer) classBase(c model.MeetingClass) float64 {
	switch c {
	case model.ClassOneOnOne:
		return s.base.OneOnOne
	case model.ClassSmallCollaborative:
		return s.base.SmallCollaborative
	case model.ClassPlanningDecision:
		return s.base.PlanningDecision
	case model.ClassSmallRecurring:
		return s.base.SmallRecurring
	case model.ClassTrainingEducation:
		return s.base.TrainingEducation
	case model.ClassInformationalBriefing:
		return s.base.InformationalBriefing
	case model.ClassBroadcastWebinar:
		return s.base.BroadcastWebinar
	}
	return 0
}

// Aggregate reduces the interactions of one counterpart. items must be in
// model.Compare order so floating-point sums do not depend on input order.
func (s *Scorer) Aggregate(id model.Identity, items []model.Interaction) Aggregate {
	a := newAggregate(id)
	weeks := make(map[isoWeek]struct{})
	for _, in := range items {
		s.reduce(&a, in)
		y, w := in.Timestamp.UTC().ISOWeek()
		weeks[isoWeek{y, w}] = struct{}{}
	}
	a.ActiveWeeks = len(weeks)
	for _, src := range model.Sources() {
		a.Raw += a.Channels[src]
	}
	return a
}

func (s *Scorer) reduce(a *Aggregate, in model.Interaction) {
	a.Interactions++
	a.Channels[in.Source] += s.Base(in) * s.weighter.Weight(in)

	if a.FirstSeen.IsZero() || in.Timestamp.Before(a.FirstSeen) {
		a.FirstSeen = in.Timestamp
	}
	if in.Timestamp.After(a.LastSeen) {
		a.LastSeen = in.Timestamp
	}
	if in.Timestamp.After(a.LastBySource[in.Source]) {
		a.LastBySource[in.Source] = in.Timestamp
	}
	if s.weighter.AgeDays(in.Timestamp) <= s.bonuses.RecencyWindowDays {
		a.Recent++
	}

	ev := &a.Evidence
	switch in.Source {
	case model.SourceCalendar:
		a.Calendar++
		if in.Class.Genuine() {
			a.Genuine++
		}
		if in.Calendar == nil {
			return
		}
		a.Subjects = append(a.Subjects, in.Calendar.Subject)
		switch in.Class {
		case model.ClassOneOnOne:
			ev.OneOnOnes++
		case model.ClassSmallCollaborative:
			ev.SmallCollaborative++
		}
		if !in.Class.Consumption() {
			switch in.Calendar.Organizer {
			case s.self:
				ev.SelfOrganized++
			case in.Counterpart:
				ev.CounterpartOrganized++
			}
		}
		if in.Calendar.DistributionList {
			ev.DistributionListMeetings++
		}
	case model.SourceChat:
		if in.Chat != nil {
			ev.ChatMessages += in.Chat.MessageCount
		}
	case model.SourceMail:
		ev.Mails++
	case model.SourceDocument:
		if in.Document != nil && in.Document.Kind == model.DocumentCoEdit {
			ev.CoEdits++
		}
	case model.SourcePeopleRank:
		a.RankEntries++
		if in.PeopleRank != nil && (a.PeopleRank == 0 || in.PeopleRank.Rank < a.PeopleRank) {
			a.PeopleRank = in.PeopleRank.Rank
			a.PeopleRankConfidence = in.PeopleRank.Confidence
			ev.PeopleRank = in.PeopleRank.Rank
		}
	}
}

// Bonuses computes the consistency, recency and depth bonuses.
func (s *Scorer) Bonuses(a Aggregate) types.Bonuses {
	var b types.Bonuses
	switch {
	case a.ActiveWeeks >= 3:
		b.Consistency = s.bonuses.ConsistencyHigh
	case a.ActiveWeeks >= 2:
		b.Consistency = s.bonuses.ConsistencyLow
	}
	b.Recency = math.Min(s.bonuses.RecencyCap, s.bonuses.RecencyPerEvent*float64(a.Recent))

	ev := a.Evidence
	depth := s.bonuses.DepthOneOnOne*float64(ev.OneOnOnes) +
		s.bonuses.DepthSelfOrganized*float64(ev.SelfOrganized) +
		s.bonuses.DepthCounterpartOrg*float64(ev.CounterpartOrganized) +
		s.bonuses.DepthSmallCollab*float64(ev.SmallCollaborative)
	b.Depth = math.Min(s.bonuses.DepthCap, depth)
	return b
}

// Indicators is the mean of six 0/1 evidence indicators.
func Indicators(a Aggregate) float64 {
	ev := a.Evidence
	indicators := []bool{
		ev.OneOnOnes > 0,
		ev.SelfOrganized > 0,
		ev.SmallCollaborative > 0,
		a.GenuineRatio() > genuineRatioFloor,
		a.DistributionListRatio() < listRatioCeiling,
		a.ActiveWeeks >= 2,
	}
	n := 0
	for _, ok := range indicators {
		if ok {
			n++
		}
	}
	return math.Max(0, math.Min(1, float64(n)/confidenceIndicators))
}

// AdmittedByRank reports whether the counterpart's best people-rank entry
// lies within the cutoff and people-rank may admit on its own.
func (s *Scorer) AdmittedByRank(a Aggregate) bool {
	return s.rankAdmits && a.PeopleRank > 0 && a.PeopleRank <= s.rankCutoff
}

// Confidence is the indicator mean. A counterpart known only from an
// admitted people-rank entry carries the confidence the ranking source
// reported for it when that is higher.
func (s *Scorer) Confidence(a Aggregate) float64 {
	c := Indicators(a)
	if a.RankOnly() && s.AdmittedByRank(a) {
		c = math.Max(c, math.Min(1, a.PeopleRankConfidence))
	}
	return c
}

// Score computes the collaborator score of an aggregate. Rank and Summary are
// left for the report builder.
func (s *Scorer) Score(a Aggregate) Result {
	b := s.Bonuses(a)
	channels := make(map[model.Source]float64, len(a.Channels))
	for src, v := range a.Channels {
		channels[src] = v
	}
	return Result{
		Aggregate: a,
		Score: types.CollaboratorScore{
			Counterpart:   a.Counterpart,
			FinalScore:    a.Raw + b.Consistency + b.Recency + b.Depth,
			RawScore:      a.Raw,
			ChannelScores: channels,
			Bonuses:       b,
			Evidence:      a.Evidence,
			Temporal: types.Temporal{
				FirstSeen:     a.FirstSeen,
				LastSeen:      a.LastSeen,
				ActiveWeeks:   a.ActiveWeeks,
				EventsPerWeek: a.EventsPerWeek(),
			},
			Confidence: s.Confidence(a),
		},
	}
}

// ScoreCounterpart aggregates and scores one counterpart.
func (s *Scorer) ScoreCounterpart(id model.Identity, items []model.Interaction) Result {
	return s.Score(s.Aggregate(id, items))
}
