package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/cylin-ms/scenara-sub003/pkg/logger"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // build stamp

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1) //nolint:gocritic // stop already ran
	}
}

// cliState is shared by every subcommand after the root pre-run.
type cliState struct {
	configPath string
	cfg        *config.Config
	log        logger.Logger
}

func newRootCmd() *cobra.Command {
	st := &cliState{}
	root := &cobra.Command{
		Use:   "collabrank",
		Short: "Rank a person's genuine collaborators from calendar, chat, mail and document activity",
		Long: `collabrank scores every counterpart seen in a subject's interaction sources,
drops passive and system-generated contacts, and reports a ranked list.

Examples:
  collabrank synth --seed 7 --output payload.json
  collabrank analyze --input payload.json --self me@contoso.com
  collabrank serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.setup(cmd.Context(), cmd)
		},
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", os.Getenv(config.EnvConfigFile),
		"YAML configuration file (defaults to $"+config.EnvConfigFile+")")

	root.AddCommand(
		newAnalyzeCmd(st),
		newServeCmd(st),
		newSynthCmd(st),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration (defaults -> optional file -> env) and sets up
// logging on stderr, keeping stdout for command output.
func (st *cliState) setup(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.LoadFile(ctx, st.configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	st.cfg = cfg
	st.log = logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		st.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}
