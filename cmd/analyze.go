package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/cylin-ms/scenara-sub003/internal/adapters/ingest"
	"github.com/cylin-ms/scenara-sub003/internal/app"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/pkg/logger"
)

type analyzeFlags struct {
	input      string
	output     string
	self       string
	now        string
	lookback   int
	strict     bool
	requireAll bool
	compact    bool
}

func newAnalyzeCmd(st *cliState) *cobra.Command {
	f := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank collaborators from a JSON source payload",
		Long: `analyze reads a source payload ({"calendar": [...], "chat": [...], ...}),
runs one analysis and writes the JSON report. A missing source key is an
absent source.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, st, f)
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "-", "payload file, - for stdin")
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "report file, - for stdout")
	cmd.Flags().StringVar(&f.self, "self", "", "subject identity (required)")
	cmd.Flags().StringVar(&f.now, "now", "", "analysis instant, RFC 3339 (default: current time)")
	cmd.Flags().IntVar(&f.lookback, "lookback", 0, "lookback in days (default: engine.lookback_days)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "abort on the first malformed record")
	cmd.Flags().BoolVar(&f.requireAll, "require-all", false, "fail when any present source is unavailable")
	cmd.Flags().BoolVar(&f.compact, "compact", false, "write the report on one line")
	_ = cmd.MarkFlagRequired("self")
	return cmd
}

func runAnalyze(cmd *cobra.Command, st *cliState, f *analyzeFlags) error {
	ctx := cmd.Context()

	now := time.Now().UTC()
	if f.now != "" {
		t, err := time.Parse(time.RFC3339, f.now)
		if err != nil {
			return errors.Wrapf(err, "parse --now %q", f.now)
		}
		now = t
	}

	var payload ingest.Payload
	if err := readJSON(cmd.InOrStdin(), f.input, &payload); err != nil {
		return err
	}

	engine, err := app.New(app.WithConfig(st.cfg.Engine), app.WithLogger(st.log.Named("engine")))
	if err != nil {
		return err
	}
	rep, err := engine.Analyze(ctx, app.Request{
		Self:              model.Identity(f.self),
		Now:               now,
		LookbackDays:      f.lookback,
		Sources:           payload.Sources(),
		Strict:            f.strict,
		RequireAllSources: f.requireAll,
	})
	if err != nil {
		return err
	}
	st.log.Info(ctx, "analysis complete",
		logger.String("report_id", rep.ReportID),
		logger.Int("evaluated", rep.Diagnostics.Evaluated),
		logger.Int("collaborators", len(rep.Collaborators)))
	return writeJSONFile(cmd.OutOrStdout(), f.output, rep, !f.compact)
}

func readJSON(stdin io.Reader, path string, v any) error {
	r := stdin
	if path != "-" {
		file, err := os.Open(path) //nolint:gosec // operator-supplied path
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer file.Close()
		r = file
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

func writeJSONFile(stdout io.Writer, path string, v any, indent bool) error {
	w := stdout
	if path != "-" {
		file, err := os.Create(path) //nolint:gosec // operator-supplied path
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer file.Close()
		w = file
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(v), "write output")
}
