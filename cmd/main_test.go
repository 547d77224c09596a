package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/cylin-ms/scenara-sub003/internal/domain/types"
	"github.com/cylin-ms/scenara-sub003/pkg/logger"
)

func execute(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	Convey("Given the collabrank command", t, func() {
		Convey("When printing the version", func() {
			out, err := execute("version")

			Convey("Then the algorithm version should be shown", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, types.AlgorithmVersion)
			})
		})

		Convey("When generating a payload and analyzing it", func() {
			path := filepath.Join(t.TempDir(), "payload.json")
			_, err := execute("synth", "--seed", "7", "--counterparts", "40", "--output", path)
			So(err, ShouldBeNil)

			out, err := execute("analyze", "--input", path, "--self", "me@contoso.com",
				"--now", "2025-06-30T12:00:00Z", "--compact")

			Convey("Then a ranked report should be written", func() {
				So(err, ShouldBeNil)
				var rep types.Report
				So(json.Unmarshal([]byte(out), &rep), ShouldBeNil)
				So(string(rep.Subject), ShouldEqual, "me@contoso.com")
				So(rep.Collaborators, ShouldNotBeEmpty)
				So(rep.Collaborators[0].Rank, ShouldEqual, 1)
			})

			Convey("Then a second run should match byte for byte", func() {
				again, err := execute("analyze", "--input", path, "--self", "me@contoso.com",
					"--now", "2025-06-30T12:00:00Z", "--compact")
				So(err, ShouldBeNil)
				So(again, ShouldEqual, out)
			})
		})

		Convey("When analyzing without a subject", func() {
			_, err := execute("analyze", "--input", "-")

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the instant does not parse", func() {
			_, err := execute("analyze", "--self", "me@contoso.com", "--now", "yesterday")

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "--now")
			})
		})
	})
}

func TestHTTPServer(t *testing.T) {
	Convey("Given a server built from configuration", t, func() {
		t.Setenv("COLLAB_ADDR", ":18080")
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		srv, err := newHTTPServer(cfg, logger.Discard())
		So(err, ShouldBeNil)

		Convey("Then it should listen on the configured address", func() {
			So(srv.Addr, ShouldEqual, ":18080")
		})

		Convey("Then health, metrics and docs routes should respond", func() {
			for _, path := range []string{"/healthz", "/metrics", "/openapi.yaml"} {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				So(w.Code, ShouldEqual, http.StatusOK)
			}
		})

		Convey("When the context ends", func() {
			srv.Addr = "127.0.0.1:0"
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Convey("Then serve should shut down cleanly", func() {
				So(serve(ctx, srv, logger.Discard()), ShouldBeNil)
			})
		})
	})
}
