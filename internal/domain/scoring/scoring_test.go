package scoring_test

import (
	"testing"
	"time"

	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/internal/domain/scoring"
	"github.com/cylin-ms/scenara-sub003/internal/domain/weighting"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	self  = model.Identity("me@contoso.com")
	alice = model.Identity("alice@contoso.com")
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func ago(days float64) time.Time {
	return now.Add(-time.Duration(days * float64(24*time.Hour)))
}

func newScorer(cfg config.Engine) *scoring.Scorer {
	return scoring.NewScorer(cfg, self, weighting.New(cfg, now))
}

func meeting(days float64, class model.MeetingClass, count int, organizer model.Identity, viaList bool) model.Interaction {
	return model.Interaction{
		Counterpart: alice,
		Source:      model.SourceCalendar,
		Timestamp:   ago(days),
		Direction:   model.DirectionBidirectional,
		Calendar:    &model.CalendarAttrs{AttendeeCount: count, Organizer: organizer, Subject: "sync", DistributionList: viaList},
		Class:       class,
	}
}

func TestBase(t *testing.T) {
	s := newScorer(config.DefaultEngine())

	Convey("Given calendar interactions", t, func() {
		Convey("Then one-on-ones should use the one-on-one weight regardless of organizer", func() {
			So(s.Base(meeting(1, model.ClassOneOnOne, 2, self, false)), ShouldEqual, 30)
			So(s.Base(meeting(1, model.ClassOneOnOne, 2, alice, false)), ShouldEqual, 30)
		})

		Convey("Then organizer weights should apply to collaborative meetings", func() {
			So(s.Base(meeting(1, model.ClassSmallCollaborative, 4, self, false)), ShouldEqual, 18)
			So(s.Base(meeting(1, model.ClassSmallRecurring, 4, alice, false)), ShouldEqual, 12)
			So(s.Base(meeting(1, model.ClassSmallCollaborative, 4, "bob", false)), ShouldEqual, 10)
			So(s.Base(meeting(1, model.ClassPlanningDecision, 14, "bob", false)), ShouldEqual, 8)
			So(s.Base(meeting(1, model.ClassSmallRecurring, 4, "bob", false)), ShouldEqual, 6)
		})

		Convey("Then consumption classes should keep their class weight", func() {
			So(s.Base(meeting(1, model.ClassBroadcastWebinar, 200, self, true)), ShouldEqual, 1)
			So(s.Base(meeting(1, model.ClassInformationalBriefing, 20, alice, false)), ShouldEqual, 2)
			So(s.Base(meeting(1, model.ClassTrainingEducation, 20, "bob", false)), ShouldEqual, 3)
		})
	})

	Convey("Given other channels", t, func() {
		Convey("Then each should use its base weight", func() {
			So(s.Base(model.Interaction{Source: model.SourceChat, Chat: &model.ChatAttrs{Kind: model.ChatOneOnOne, MessageCount: 1}}), ShouldEqual, 8)
			So(s.Base(model.Interaction{Source: model.SourceChat, Chat: &model.ChatAttrs{Kind: model.ChatGroup, MessageCount: 1}}), ShouldEqual, 3)
			So(s.Base(model.Interaction{Source: model.SourceMail, Mail: &model.MailAttrs{Role: model.MailTo, ThreadSize: 1}}), ShouldEqual, 4)
			So(s.Base(model.Interaction{Source: model.SourceMail, Mail: &model.MailAttrs{Role: model.MailCC, ThreadSize: 1}}), ShouldEqual, 2)
			So(s.Base(model.Interaction{Source: model.SourceDocument, Document: &model.DocumentAttrs{Kind: model.DocumentCoEdit}}), ShouldEqual, 10)
			So(s.Base(model.Interaction{Source: model.SourceDocument, Document: &model.DocumentAttrs{Kind: model.DocumentShareSent}}), ShouldEqual, 6)
			So(s.Base(model.Interaction{Source: model.SourceDocument, Document: &model.DocumentAttrs{Kind: model.DocumentShareReceived}}), ShouldEqual, 4)
			So(s.Base(model.Interaction{Source: model.SourcePeopleRank, PeopleRank: &model.PeopleRankAttrs{Rank: 1, Confidence: 1}}), ShouldEqual, 20)
		})
	})

	Convey("Given a custom base-weight table", t, func() {
		cfg := config.DefaultEngine()
		b := cfg.BaseWeights
		b.CounterpartOrganized = 18
		custom := scoring.NewScorer(cfg, self, weighting.New(cfg, now), scoring.WithBaseWeights(b))

		Convey("Then the organizer ratio should be configurable", func() {
			So(custom.Base(meeting(1, model.ClassSmallRecurring, 4, alice, false)), ShouldEqual, 18)
		})
	})
}

func TestScore(t *testing.T) {
	s := newScorer(config.DefaultEngine())

	Convey("Given a single recent one-on-one organized by SELF", t, func() {
		r := s.ScoreCounterpart(alice, []model.Interaction{meeting(3, model.ClassOneOnOne, 2, self, false)})

		Convey("Then the raw score should be 30 * 1.3 * 2.0", func() {
			So(r.Score.RawScore, ShouldAlmostEqual, 78, 1e-9)
			So(r.Score.ChannelScores[model.SourceCalendar], ShouldAlmostEqual, 78, 1e-9)
			So(r.Score.ChannelScores, ShouldHaveLength, 5)
			So(r.Score.ChannelScores[model.SourceMail], ShouldEqual, 0)
		})

		Convey("Then bonuses should follow the evidence", func() {
			So(r.Score.Bonuses.Consistency, ShouldEqual, 0)
			So(r.Score.Bonuses.Recency, ShouldEqual, 1.5)
			So(r.Score.Bonuses.Depth, ShouldEqual, 55)
			So(r.Score.FinalScore, ShouldAlmostEqual, 134.5, 1e-9)
		})

		Convey("Then the one-on-one should count as self organized", func() {
			So(r.Score.Evidence.OneOnOnes, ShouldEqual, 1)
			So(r.Score.Evidence.SelfOrganized, ShouldEqual, 1)
			So(r.Score.Confidence, ShouldAlmostEqual, 4.0/6, 1e-12)
		})

		Convey("Then temporal metrics should cover the single event", func() {
			So(r.Score.Temporal.ActiveWeeks, ShouldEqual, 1)
			So(r.Score.Temporal.EventsPerWeek, ShouldEqual, 1)
			So(r.Score.Temporal.FirstSeen, ShouldEqual, r.Score.Temporal.LastSeen)
		})
	})

	Convey("Given interactions spread over several ISO weeks", t, func() {
		items := []model.Interaction{
			meeting(40, model.ClassSmallRecurring, 5, "bob", false),
			meeting(26, model.ClassSmallRecurring, 5, "bob", false),
			meeting(12, model.ClassSmallRecurring, 5, "bob", false),
		}
		r := s.ScoreCounterpart(alice, items)

		Convey("Then consistency should be the high bonus and the span should set the rate", func() {
			So(r.Score.Temporal.ActiveWeeks, ShouldEqual, 3)
			So(r.Score.Bonuses.Consistency, ShouldEqual, 5)
			So(r.Score.Temporal.EventsPerWeek, ShouldAlmostEqual, 3.0/4, 1e-9)
			So(r.Score.Bonuses.Recency, ShouldEqual, 3)
		})
	})

	Convey("Given many deep meetings", t, func() {
		var items []model.Interaction
		for i := 0; i < 10; i++ {
			items = append(items, meeting(float64(i+1), model.ClassOneOnOne, 2, self, false))
		}
		r := s.ScoreCounterpart(alice, items)

		Convey("Then recency and depth should be capped", func() {
			So(r.Score.Bonuses.Recency, ShouldEqual, 10)
			So(r.Score.Bonuses.Depth, ShouldEqual, 200)
		})
	})

	Convey("Given only distribution-list broadcasts", t, func() {
		var items []model.Interaction
		for _, d := range []float64{10, 25, 40, 60, 80} {
			items = append(items, meeting(d, model.ClassBroadcastWebinar, 200, alice, true))
		}
		r := s.ScoreCounterpart(alice, items)

		Convey("Then no depth should accrue and confidence should be low", func() {
			So(r.Score.Evidence.CounterpartOrganized, ShouldEqual, 0)
			So(r.Score.Evidence.DistributionListMeetings, ShouldEqual, 5)
			So(r.Score.Bonuses.Depth, ShouldEqual, 0)
			So(r.Aggregate.GenuineRatio(), ShouldEqual, 0)
			So(r.Aggregate.DistributionListRatio(), ShouldEqual, 1)
			So(r.Score.Confidence, ShouldAlmostEqual, 1.0/6, 1e-12)
			So(r.Score.FinalScore, ShouldBeLessThan, 15)
		})
	})

	Convey("Given a small collaborative meeting replaced by a distribution-list invite", t, func() {
		direct := s.ScoreCounterpart(alice, []model.Interaction{meeting(20, model.ClassSmallCollaborative, 5, "bob", false)})
		viaList := s.ScoreCounterpart(alice, []model.Interaction{meeting(20, model.ClassInformationalBriefing, 5, "bob", true)})

		Convey("Then the final score should strictly decrease", func() {
			So(viaList.Score.FinalScore, ShouldBeLessThan, direct.Score.FinalScore)
		})
	})

	Convey("Given mixed channels", t, func() {
		items := []model.Interaction{
			{Counterpart: alice, Source: model.SourceChat, Timestamp: ago(1), Chat: &model.ChatAttrs{Kind: model.ChatGroup, MessageCount: 7}},
			{Counterpart: alice, Source: model.SourceMail, Timestamp: ago(1), Mail: &model.MailAttrs{Role: model.MailCC, ThreadSize: 1}},
			{Counterpart: alice, Source: model.SourceDocument, Timestamp: ago(1), Document: &model.DocumentAttrs{Kind: model.DocumentCoEdit}},
			{Counterpart: alice, Source: model.SourcePeopleRank, Timestamp: now, PeopleRank: &model.PeopleRankAttrs{Rank: 4, Confidence: 1}},
			{Counterpart: alice, Source: model.SourcePeopleRank, Timestamp: now, PeopleRank: &model.PeopleRankAttrs{Rank: 2, Confidence: 1}},
		}
		r := s.ScoreCounterpart(alice, items)

		Convey("Then channel scores should sum to the raw score", func() {
			sum := 0.0
			for _, v := range r.Score.ChannelScores {
				sum += v
			}
			So(sum, ShouldAlmostEqual, r.Score.RawScore, 1e-9)
			So(r.Score.ChannelScores[model.SourceChat], ShouldAlmostEqual, 3*2*0.7, 1e-9)
			So(r.Score.ChannelScores[model.SourceMail], ShouldAlmostEqual, 2*2*0.4, 1e-9)
		})

		Convey("Then evidence should count every channel", func() {
			So(r.Score.Evidence.ChatMessages, ShouldEqual, 7)
			So(r.Score.Evidence.Mails, ShouldEqual, 1)
			So(r.Score.Evidence.CoEdits, ShouldEqual, 1)
			So(r.Score.Evidence.PeopleRank, ShouldEqual, 2)
			So(r.Aggregate.Calendar, ShouldEqual, 0)
		})
	})
}

func TestPeopleRankConfidence(t *testing.T) {
	entry := func(rank int, conf float64) []model.Interaction {
		return []model.Interaction{{
			Counterpart: alice,
			Source:      model.SourcePeopleRank,
			Timestamp:   now,
			Direction:   model.DirectionIncoming,
			PeopleRank:  &model.PeopleRankAttrs{Rank: rank, Confidence: conf},
		}}
	}

	Convey("Given a counterpart known only from people-rank", t, func() {
		s := newScorer(config.DefaultEngine())

		Convey("When the entry lies within the cutoff", func() {
			r := s.ScoreCounterpart(alice, entry(1, 1))

			Convey("Then confidence should be the ranking source confidence", func() {
				So(scoring.Indicators(r.Aggregate), ShouldAlmostEqual, 1.0/6, 1e-12)
				So(s.AdmittedByRank(r.Aggregate), ShouldBeTrue)
				So(r.Score.Confidence, ShouldEqual, 1)
			})

			Convey("And the score should be 20 * 2.0 * 1.0 plus recency", func() {
				So(r.Score.FinalScore, ShouldAlmostEqual, 41.5, 1e-9)
			})
		})

		Convey("When the ranking source is unsure", func() {
			r := s.ScoreCounterpart(alice, entry(1, 0.4))

			Convey("Then confidence should follow it", func() {
				So(r.Score.Confidence, ShouldAlmostEqual, 0.4, 1e-12)
			})
		})

		Convey("When the entry lies beyond the cutoff", func() {
			r := s.ScoreCounterpart(alice, entry(30, 1))

			Convey("Then only the indicators should count", func() {
				So(s.AdmittedByRank(r.Aggregate), ShouldBeFalse)
				So(r.Score.Confidence, ShouldAlmostEqual, 1.0/6, 1e-12)
			})
		})
	})

	Convey("Given a ranked counterpart with a one-on-one", t, func() {
		s := newScorer(config.DefaultEngine())
		items := append([]model.Interaction{meeting(1, model.ClassOneOnOne, 2, self, false)}, entry(1, 1)...)
		r := s.ScoreCounterpart(alice, items)

		Convey("Then confidence should stay the indicator mean", func() {
			So(r.Aggregate.RankOnly(), ShouldBeFalse)
			So(s.AdmittedByRank(r.Aggregate), ShouldBeTrue)
			So(r.Score.Confidence, ShouldEqual, scoring.Indicators(r.Aggregate))
			So(r.Score.Confidence, ShouldBeLessThan, 1)
		})
	})

	Convey("Given people-rank may not admit on its own", t, func() {
		cfg := config.DefaultEngine()
		cfg.PeopleRankAdmitsAlone = false
		s := newScorer(cfg)
		r := s.ScoreCounterpart(alice, entry(1, 1))

		Convey("Then confidence should not be lifted", func() {
			So(r.Score.Confidence, ShouldAlmostEqual, 1.0/6, 1e-12)
		})
	})
}
