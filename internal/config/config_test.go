package config_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the documented defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Engine.LookbackDays, convey.ShouldEqual, 90)
			convey.So(cfg.Engine.HalfLifeDays, convey.ShouldEqual, 180)
			convey.So(cfg.Engine.ScoreThreshold, convey.ShouldEqual, 15)
			convey.So(cfg.Engine.ConfidenceThreshold, convey.ShouldEqual, 0.6)
			convey.So(cfg.Engine.PeopleRankCutoff, convey.ShouldEqual, 25)
			convey.So(cfg.Engine.DistributionListPenalty, convey.ShouldEqual, 0.25)
			convey.So(cfg.Engine.BaseWeights.OneOnOne, convey.ShouldEqual, 30)
			convey.So(cfg.Engine.BaseWeights.SelfOrganized, convey.ShouldEqual, 18)
			convey.So(cfg.Engine.BaseWeights.CounterpartOrganized, convey.ShouldEqual, 12)
			convey.So(cfg.Engine.ContextMultipliers.BroadcastWebinar, convey.ShouldEqual, 0.05)
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestEngine_Validate(t *testing.T) {
	convey.Convey("Given a valid engine configuration", t, func() {
		base := config.DefaultEngine()

		cases := map[string]func(e *config.Engine){
			"negative score threshold":    func(e *config.Engine) { e.ScoreThreshold = -1 },
			"confidence above one":        func(e *config.Engine) { e.ConfidenceThreshold = 1.5 },
			"zero lookback":               func(e *config.Engine) { e.LookbackDays = 0 },
			"zero half-life":              func(e *config.Engine) { e.HalfLifeDays = 0 },
			"negative base weight":        func(e *config.Engine) { e.BaseWeights.MailCC = -2 },
			"negative context multiplier": func(e *config.Engine) { e.ContextMultipliers.ChatGroup = -0.1 },
			"empty broadcast keywords":    func(e *config.Engine) { e.Keywords.Broadcast = nil },
			"small limit above broadcast": func(e *config.Engine) { e.SmallMeetingLimit = 80 },
			"penalty above one":           func(e *config.Engine) { e.DistributionListPenalty = 2 },
		}

		for name, mutate := range cases {
			convey.Convey("When it has a "+name, func() {
				e := base.Clone()
				mutate(&e)

				convey.Convey("Then Validate should report a configuration error", func() {
					err := e.Validate()
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}

func TestEngine_Digest(t *testing.T) {
	convey.Convey("Given two identical engine configurations", t, func() {
		a := config.DefaultEngine()
		b := config.DefaultEngine()

		convey.Convey("Then their digests should match", func() {
			convey.So(a.Digest(), convey.ShouldEqual, b.Digest())
			convey.So(len(a.Digest()), convey.ShouldEqual, 64)
		})

		convey.Convey("When one threshold changes", func() {
			b.ScoreThreshold = 16

			convey.Convey("Then the digests should differ", func() {
				convey.So(a.Digest(), convey.ShouldNotEqual, b.Digest())
			})
		})
	})
}

func TestEngine_Clone(t *testing.T) {
	convey.Convey("Given a clone of the defaults", t, func() {
		a := config.DefaultEngine()
		b := a.Clone()

		convey.Convey("When the clone's pattern list is modified", func() {
			b.SystemAccountPatterns[0] = "changed"
			b.Keywords.Training[0] = "changed"

			convey.Convey("Then the original should be untouched", func() {
				convey.So(a.SystemAccountPatterns[0], convey.ShouldEqual, "events")
				convey.So(a.Keywords.Training[0], convey.ShouldEqual, "training")
			})
		})
	})
}
