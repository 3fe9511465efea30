package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/emotebot/internal/config"
)

// app carries state shared by subcommands after PersistentPreRunE.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "emotebot",
		Short:         "Slack bot for sending emotes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			setupLogger(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newManifestCmd(a),
	)

	return root
}

// setupLogger configures the global zerolog logger. Config validation has
// already rejected unknown levels.
func setupLogger(cfg config.LogConfig, out io.Writer) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}
}

// maxConns converts the configured pool size for pgxpool.
func maxConns(cfg *config.Config) (int32, error) {
	n := cfg.Database.MaxConns
	if n < 1 || n > 1<<31-1 {
		return 0, fmt.Errorf("database max_conns %d out of int32 range", n)
	}
	return int32(n), nil //nolint:gosec // bounds checked above
}

