package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/gosuda/emotebot/internal/catalog"
	"github.com/gosuda/emotebot/internal/command"
	"github.com/gosuda/emotebot/internal/compose"
	"github.com/gosuda/emotebot/internal/config"
	"github.com/gosuda/emotebot/internal/messenger"
	emoteslack "github.com/gosuda/emotebot/internal/messenger/slack"
	"github.com/gosuda/emotebot/internal/selection"
	"github.com/gosuda/emotebot/internal/server"
	"github.com/gosuda/emotebot/internal/store/postgres"
	redisstore "github.com/gosuda/emotebot/internal/store/redis"
)

func newServeCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve Slack webhooks and the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a.cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the database schema before serving")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, migrate bool) error {
	if err := cfg.Slack.Validate(); err != nil {
		return err
	}

	logger := log.Logger

	conns, err := maxConns(cfg)
	if err != nil {
		return err
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), conns)
	if err != nil {
		return err
	}
	defer store.Close()

	if migrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}

	checks := map[string]server.HealthCheck{"postgres": store.Ping}

	// Sessions live on the replica that started them; Redis routes
	// interactions there when more than one replica runs.
	var inbox messenger.Inbox = messenger.NewLocalInbox()
	if cfg.Redis.Enabled() {
		pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer pubsub.Close()

		inbox = redisstore.NewInbox(pubsub, logger)
		checks["redis"] = pubsub.Ping
	}

	engine := compose.NewTemplateEngine()
	cat, err := loadCatalog(cfg, logger, catalog.WithValidator(engine.Validate))
	if err != nil {
		return err
	}

	slackMessenger := emoteslack.NewSlackMessenger(slacklib.New(cfg.Slack.BotToken))

	registry, err := command.Build(command.Deps{
		Catalog:  cat,
		Composer: compose.NewComposer(engine),
		Settings: store.Settings(),
		EmoteLog: store.EmoteLog(),
		Platform: slackMessenger,
		Logger:   logger,
		SessionOptions: []selection.Option{
			selection.WithTimeout(cfg.Session.Timeout),
			selection.WithMaxEvents(cfg.Session.MaxEvents),
			selection.WithLogger(logger),
		},
	})
	if err != nil {
		return err
	}

	// Commands outlive the shutdown signal so running sessions can finish
	// within the shutdown timeout.
	commandsCtx, cancelCommands := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelCommands()

	slackHandler := emoteslack.NewHandler(cfg.Slack.SigningSecret, registry, inbox, slackMessenger,
		emoteslack.WithBaseContext(commandsCtx),
		emoteslack.WithLogger(logger),
	)

	srv := server.New(ctx, cfg, server.Deps{
		Store:   store,
		Catalog: cat,
		Slack:   slackHandler,
		Checks:  checks,
		Logger:  logger,
	})

	// Start server in background goroutine.
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Int("emotes", cat.Len()).Bool("redis", cfg.Redis.Enabled()).Msg("starting server")
		errCh <- srv.Start(ctx)
	}()

	// Block until shutdown signal or server failure.
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info().Msg("stopped")
	return nil
}

// loadCatalog reads the configured catalog file, or the built-in one.
func loadCatalog(cfg *config.Config, logger zerolog.Logger, opts ...catalog.LoadOption) (*catalog.Catalog, error) {
	opts = append(opts, catalog.WithLogger(logger))
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath, opts...)
	}
	return catalog.Default(opts...)
}
