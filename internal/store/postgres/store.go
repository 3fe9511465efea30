package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/emotebot/internal/domain"
)

//go:embed schema.sql
var schema string

type Store struct {
	pool     *pgxpool.Pool
	settings *SettingsRepo
	emoteLog *EmoteLogRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:     pool,
		settings: NewSettingsRepo(pool),
		emoteLog: NewEmoteLogRepo(pool),
	}, nil
}

// Migrate creates missing tables and indexes. It is safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres.Store.Migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Settings() domain.SettingsRepository { return s.settings }
func (s *Store) EmoteLog() domain.EmoteLogRepository { return s.emoteLog }
