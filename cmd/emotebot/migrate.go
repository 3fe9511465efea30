package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/emotebot/internal/store/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			conns, err := maxConns(a.cfg)
			if err != nil {
				return err
			}

			store, err := postgres.New(ctx, a.cfg.Database.DSN(), conns)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			log.Info().Str("database", a.cfg.Database.DBName).Msg("schema up to date")
			return nil
		},
	}
}
