package v1_test

import (
	"context"

	"github.com/gosuda/emotebot/internal/catalog"
	"github.com/gosuda/emotebot/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	settings domain.SettingsRepository
	emoteLog domain.EmoteLogRepository
}

func (m *mockDataStore) Settings() domain.SettingsRepository { return m.settings }
func (m *mockDataStore) EmoteLog() domain.EmoteLogRepository { return m.emoteLog }

// ---------------------------------------------------------------------------
// Mock SettingsRepository
// ---------------------------------------------------------------------------

type mockSettingsRepo struct {
	getUserFunc      func(ctx context.Context, externalID string) (*domain.UserSettings, error)
	getWorkspaceFunc func(ctx context.Context, externalID string) (*domain.WorkspaceSettings, error)
}

func (m *mockSettingsRepo) GetUser(ctx context.Context, externalID string) (*domain.UserSettings, error) {
	return m.getUserFunc(ctx, externalID)
}

func (m *mockSettingsRepo) UpsertUser(context.Context, *domain.UserSettings) error {
	panic("not implemented")
}

func (m *mockSettingsRepo) GetWorkspace(ctx context.Context, externalID string) (*domain.WorkspaceSettings, error) {
	return m.getWorkspaceFunc(ctx, externalID)
}

func (m *mockSettingsRepo) UpsertWorkspace(context.Context, *domain.WorkspaceSettings) error {
	panic("not implemented")
}

// ---------------------------------------------------------------------------
// Mock EmoteLogRepository
// ---------------------------------------------------------------------------

type mockEmoteLogRepo struct {
	countFunc func(ctx context.Context, q domain.StatsQuery) (int64, error)
	topFunc   func(ctx context.Context, q domain.StatsQuery, limit int) ([]domain.EmoteCount, error)
}

func (m *mockEmoteLogRepo) Append(context.Context, *domain.EmoteLogEntry) error {
	panic("not implemented")
}

func (m *mockEmoteLogRepo) Count(ctx context.Context, q domain.StatsQuery) (int64, error) {
	return m.countFunc(ctx, q)
}

func (m *mockEmoteLogRepo) Top(ctx context.Context, q domain.StatsQuery, limit int) ([]domain.EmoteCount, error) {
	return m.topFunc(ctx, q, limit)
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

func defaultCatalog() *catalog.Catalog {
	cat, err := catalog.Default()
	if err != nil {
		panic(err)
	}
	return cat
}
