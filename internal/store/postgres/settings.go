package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/emotebot/internal/domain"
)

type SettingsRepo struct {
	pool *pgxpool.Pool
}

var _ domain.SettingsRepository = (*SettingsRepo)(nil)

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// --- Users ---

func (r *SettingsRepo) GetUser(ctx context.Context, externalID string) (*domain.UserSettings, error) {
	var s domain.UserSettings

	err := r.pool.QueryRow(ctx,
		`SELECT external_id, language, gender, created_at, updated_at
		 FROM user_settings WHERE external_id = $1`,
		externalID,
	).Scan(&s.ExternalID, &s.Language, &s.Gender, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("settingsRepo.GetUser: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("settingsRepo.GetUser: %w", err)
	}

	return &s, nil
}

func (r *SettingsRepo) UpsertUser(ctx context.Context, s *domain.UserSettings) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_settings (external_id, language, gender, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (external_id) DO UPDATE
		 SET language = EXCLUDED.language, gender = EXCLUDED.gender, updated_at = EXCLUDED.updated_at`,
		s.ExternalID, s.Language, s.Gender, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("settingsRepo.UpsertUser: %w", err)
	}

	return nil
}

// --- Workspaces ---

func (r *SettingsRepo) GetWorkspace(ctx context.Context, externalID string) (*domain.WorkspaceSettings, error) {
	var s domain.WorkspaceSettings

	err := r.pool.QueryRow(ctx,
		`SELECT external_id, language, gender, emote_commands_disabled, created_at, updated_at
		 FROM workspace_settings WHERE external_id = $1`,
		externalID,
	).Scan(&s.ExternalID, &s.Language, &s.Gender, &s.EmoteCommandsDisabled, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("settingsRepo.GetWorkspace: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("settingsRepo.GetWorkspace: %w", err)
	}

	return &s, nil
}

func (r *SettingsRepo) UpsertWorkspace(ctx context.Context, s *domain.WorkspaceSettings) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO workspace_settings (external_id, language, gender, emote_commands_disabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (external_id) DO UPDATE
		 SET language = EXCLUDED.language, gender = EXCLUDED.gender,
		     emote_commands_disabled = EXCLUDED.emote_commands_disabled, updated_at = EXCLUDED.updated_at`,
		s.ExternalID, s.Language, s.Gender, s.EmoteCommandsDisabled, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("settingsRepo.UpsertWorkspace: %w", err)
	}

	return nil
}
