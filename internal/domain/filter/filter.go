// Package filter decides which scored counterparts are reported.
//
// A counterpart survives only when every rule holds. Failed rules are kept as
// reasons so diagnostics can count drops without naming counterparts.
package filter

import (
	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/cylin-ms/scenara-sub003/internal/domain/match"
	"github.com/cylin-ms/scenara-sub003/internal/domain/scoring"
)

// Reason names a failed rule.
type Reason string

// Drop reasons, in evaluation order.
const (
	ReasonTooFewInteractions       Reason = "too_few_interactions"
	ReasonInsufficientEvidence     Reason = "insufficient_evidence"
	ReasonBelowScoreThreshold      Reason = "below_score_threshold"
	ReasonBelowConfidenceThreshold Reason = "below_confidence_threshold"
	ReasonSystemAccount            Reason = "system_account"
	ReasonHolidayCalendar          Reason = "holiday_calendar"
)

// Reasons returns every drop reason in evaluation order.
func Reasons() []Reason {
	return []Reason{
		ReasonTooFewInteractions,
		ReasonInsufficientEvidence,
		ReasonBelowScoreThreshold,
		ReasonBelowConfidenceThreshold,
		ReasonSystemAccount,
		ReasonHolidayCalendar,
	}
}

// strongGenuineMinCalendar is the calendar volume under which a genuine
// ratio alone is not strong evidence.
const strongGenuineMinCalendar = 2

// Verdict is the outcome for one counterpart.
type Verdict struct {
	Passed  bool
	Reasons []Reason
}

// Filter applies the survival rules. It is read-only and safe to share.
type Filter struct {
	minInteractions int
	requireStrong   bool
	scoreThreshold  float64
	confThreshold   float64
	rankCutoff      int
	rankAdmits      bool
	holidayRatio    float64

	systems  match.Set
	holidays match.Set
}

// New creates a Filter from the engine configuration.
func New(cfg config.Engine) *Filter {
	return &Filter{
		minInteractions: cfg.MinInteractions,
		requireStrong:   cfg.RequireStrongEvidence,
		scoreThreshold:  cfg.ScoreThreshold,
		confThreshold:   cfg.ConfidenceThreshold,
		rankCutoff:      cfg.PeopleRankCutoff,
		rankAdmits:      cfg.PeopleRankAdmitsAlone,
		holidayRatio:    cfg.HolidaySubjectRatio,
		systems:         match.Compile(cfg.SystemAccountPatterns),
		holidays:        match.Compile(cfg.HolidayKeywords),
	}
}

// Evaluate checks every rule against a scored counterpart.
func (f *Filter) Evaluate(r scoring.Result) Verdict {
	a, s := r.Aggregate, r.Score
	ev := a.Evidence
	ranked := a.PeopleRank > 0 && a.PeopleRank <= f.rankCutoff
	admitted := ranked && f.rankAdmits

	var reasons []Reason
	if a.Interactions < f.minInteractions && ev.OneOnOnes == 0 && !admitted {
		reasons = append(reasons, ReasonTooFewInteractions)
	}
	if f.requireStrong {
		strong := ev.OneOnOnes >= 1 ||
			ev.SelfOrganized >= 1 ||
			ev.SmallCollaborative >= 1 ||
			(a.GenuineRatio() > 0.3 && a.Calendar >= strongGenuineMinCalendar) ||
			ranked
		if !strong {
			reasons = append(reasons, ReasonInsufficientEvidence)
		}
	}
	if s.FinalScore < f.scoreThreshold {
		reasons = append(reasons, ReasonBelowScoreThreshold)
	}
	if s.Confidence < f.confThreshold {
		reasons = append(reasons, ReasonBelowConfidenceThreshold)
	}
	if f.systems.Match(string(a.Counterpart)) {
		reasons = append(reasons, ReasonSystemAccount)
	}
	if f.holidayShare(a.Subjects) > f.holidayRatio {
		reasons = append(reasons, ReasonHolidayCalendar)
	}
	return Verdict{Passed: len(reasons) == 0, Reasons: reasons}
}

// holidayShare is the fraction of subjects containing a holiday keyword.
func (f *Filter) holidayShare(subjects []string) float64 {
	if len(subjects) == 0 {
		return 0
	}
	n := 0
	for _, s := range subjects {
		if f.holidays.Match(s) {
			n++
		}
	}
	return float64(n) / float64(len(subjects))
}
