package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.LoadFile(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Engine.ScoreThreshold, convey.ShouldEqual, 15)
				convey.So(cfg.Engine.Keywords.Broadcast, convey.ShouldContain, "webinar")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := filepath.Join(t.TempDir(), "collab.yaml")
			yaml := []byte(`
addr: ":7070"
log_level: debug
engine:
  score_threshold: 25
  people_rank_cutoff: 10
  base_weights:
    counterpart_organized: 18
  keywords:
    training:
      - bootcamp
`)
			convey.So(os.WriteFile(path, yaml, 0o600), convey.ShouldBeNil)

			cfg, err := config.LoadFile(ctx, path)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Engine.ScoreThreshold, convey.ShouldEqual, 25)
				convey.So(cfg.Engine.PeopleRankCutoff, convey.ShouldEqual, 10)
				convey.So(cfg.Engine.BaseWeights.CounterpartOrganized, convey.ShouldEqual, 18)
			})

			convey.Convey("And untouched options should keep their defaults", func() {
				convey.So(cfg.Engine.BaseWeights.SelfOrganized, convey.ShouldEqual, 18)
				convey.So(cfg.Engine.ConfidenceThreshold, convey.ShouldEqual, 0.6)
			})

			convey.Convey("And a list in the file should replace the default list", func() {
				convey.So(cfg.Engine.Keywords.Training, convey.ShouldResemble, []string{"bootcamp"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("COLLAB_ADDR", ":8080")
			t.Setenv("COLLAB_ENGINE__SCORE_THRESHOLD", "20")
			t.Setenv("COLLAB_ENGINE__CONFIDENCE_THRESHOLD", "0.5")
			t.Setenv("COLLAB_ENGINE__SYSTEM_ACCOUNT_PATTERNS", "noreply, robot")

			cfg, err := config.LoadFile(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Engine.ScoreThreshold, convey.ShouldEqual, 20)
				convey.So(cfg.Engine.ConfidenceThreshold, convey.ShouldEqual, 0.5)
				convey.So(cfg.Engine.SystemAccountPatterns, convey.ShouldResemble, []string{"noreply", "robot"})
			})
		})

		convey.Convey("When the environment sets an invalid threshold", func() {
			t.Setenv("COLLAB_ENGINE__SCORE_THRESHOLD", "-3")

			_, err := config.LoadFile(ctx, "")

			convey.Convey("Then loading should fail with a configuration error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_, err := config.LoadFile(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then loading should fail with a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}
