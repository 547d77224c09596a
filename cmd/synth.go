package main

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/internal/synthetic"
)

type synthFlags struct {
	output       string
	seed         int64
	counterparts int
	self         string
	now          string
	lookback     int
	noise        bool
}

func newSynthCmd(st *cliState) *cobra.Command {
	f := &synthFlags{}
	defaults := synthetic.NewConfig()
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a reproducible synthetic source payload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []synthetic.Option{
				synthetic.WithSeed(f.seed),
				synthetic.WithCounterparts(f.counterparts),
				synthetic.WithSelf(model.Identity(f.self)),
				synthetic.WithLookbackDays(f.lookback),
				synthetic.WithNoise(f.noise),
			}
			if f.now != "" {
				t, err := time.Parse(time.RFC3339, f.now)
				if err != nil {
					return errors.Wrapf(err, "parse --now %q", f.now)
				}
				opts = append(opts, synthetic.WithNow(t))
			}
			p := synthetic.Generate(synthetic.NewConfig(opts...))
			st.log.Debug(cmd.Context(), "payload generated")
			return writeJSONFile(cmd.OutOrStdout(), f.output, p, true)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "payload file, - for stdout")
	cmd.Flags().Int64Var(&f.seed, "seed", defaults.Seed, "random seed")
	cmd.Flags().IntVar(&f.counterparts, "counterparts", defaults.Counterparts, "number of generated counterparts")
	cmd.Flags().StringVar(&f.self, "self", string(defaults.Self), "subject identity")
	cmd.Flags().StringVar(&f.now, "now", defaults.Now.Format(time.RFC3339), "window end, RFC 3339")
	cmd.Flags().IntVar(&f.lookback, "lookback", defaults.LookbackDays, "window length in days")
	cmd.Flags().BoolVar(&f.noise, "noise", false, "add malformed, stale and duplicated records")
	return cmd
}
