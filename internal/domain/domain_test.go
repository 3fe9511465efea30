package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/emotebot/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. ParseLanguage: tags, names, and unsupported input.
// ---------------------------------------------------------------------------

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    domain.Language
		wantErr bool
	}{
		{"en", domain.LanguageEn, false},
		{"EN", domain.LanguageEn, false},
		{"en-GB", domain.LanguageEn, false},
		{"ja", domain.LanguageJa, false},
		{"ja-JP", domain.LanguageJa, false},
		{" japanese ", domain.LanguageJa, false},
		{"English", domain.LanguageEn, false},
		{"日本語", domain.LanguageJa, false},
		{"英語", domain.LanguageEn, false},
		{"fr", "", true},
		{"", "", true},
		{"not a language", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParseLanguage(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidSetting)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ---------------------------------------------------------------------------
// 2. ParseGender.
// ---------------------------------------------------------------------------

func TestParseGender(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]domain.Gender{
		"m": domain.GenderMale, "Male": domain.GenderMale, "男性": domain.GenderMale,
		"F": domain.GenderFemale, "female": domain.GenderFemale, "女性": domain.GenderFemale,
	} {
		got, err := domain.ParseGender(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseGender("x")
	require.ErrorIs(t, err, domain.ErrInvalidSetting)
}

func TestNames_Localized(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Japanese", domain.LanguageJa.Name(domain.LanguageEn))
	assert.Equal(t, "日本語", domain.LanguageJa.Name(domain.LanguageJa))
	assert.Equal(t, "英語", domain.LanguageEn.Name(domain.LanguageJa))
	assert.Equal(t, "Female", domain.GenderFemale.Name(domain.LanguageEn))
	assert.Equal(t, "男性", domain.GenderMale.Name(domain.LanguageJa))

	// Missing translation falls back to English.
	assert.Equal(t, "hi", domain.Localized{En: "hi"}.In(domain.LanguageJa))
}

// ---------------------------------------------------------------------------
// 3. ResolveSettings: user, then workspace, then defaults.
// ---------------------------------------------------------------------------

type memSettings struct {
	users      map[string]*domain.UserSettings
	workspaces map[string]*domain.WorkspaceSettings
	err        error
}

func (m *memSettings) GetUser(_ context.Context, id string) (*domain.UserSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.users[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memSettings) UpsertUser(_ context.Context, s *domain.UserSettings) error {
	m.users[s.ExternalID] = s
	return nil
}

func (m *memSettings) GetWorkspace(_ context.Context, id string) (*domain.WorkspaceSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.workspaces[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memSettings) UpsertWorkspace(_ context.Context, s *domain.WorkspaceSettings) error {
	m.workspaces[s.ExternalID] = s
	return nil
}

func TestResolveSettings(t *testing.T) {
	t.Parallel()

	ja := domain.Settings{Language: domain.LanguageJa, Gender: domain.GenderFemale}
	enF := domain.Settings{Language: domain.LanguageEn, Gender: domain.GenderFemale}

	repo := &memSettings{
		users:      map[string]*domain.UserSettings{"U1": {ExternalID: "U1", Settings: ja}},
		workspaces: map[string]*domain.WorkspaceSettings{"T1": {ExternalID: "T1", Settings: enF}},
	}
	ctx := context.Background()

	tests := []struct {
		name, user, workspace string
		want                  domain.Settings
	}{
		{"user wins", "U1", "T1", ja},
		{"workspace fallback", "U2", "T1", enF},
		{"defaults", "U2", "T2", domain.DefaultSettings()},
		{"direct message", "U2", "", domain.DefaultSettings()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ResolveSettings(ctx, repo, tt.user, tt.workspace)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSettings_RepositoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	_, err := domain.ResolveSettings(context.Background(), &memSettings{err: boom}, "U1", "T1")
	require.ErrorIs(t, err, boom)
}

func TestEmoteCommandsEnabled(t *testing.T) {
	t.Parallel()

	repo := &memSettings{
		workspaces: map[string]*domain.WorkspaceSettings{
			"T1": {ExternalID: "T1", Settings: domain.DefaultSettings()},
			"T2": {ExternalID: "T2", Settings: domain.DefaultSettings(), EmoteCommandsDisabled: true},
		},
	}

	tests := []struct {
		name, workspace string
		want            bool
	}{
		{"saved and enabled", "T1", true},
		{"disabled by admin", "T2", false},
		{"nothing saved", "T3", true},
		{"direct message", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := domain.EmoteCommandsEnabled(context.Background(), repo, tt.workspace)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	boom := errors.New("connection reset")
	_, err := domain.EmoteCommandsEnabled(context.Background(), &memSettings{err: boom}, "T1")
	require.ErrorIs(t, err, boom)
}

// ---------------------------------------------------------------------------
// 4. StatsQuery.Message.
// ---------------------------------------------------------------------------

func TestStatsQuery_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    domain.StatsQuery
		lang domain.Language
		want string
	}{
		{
			name: "workspace sent",
			q:    domain.StatsQuery{WorkspaceID: "T1"},
			lang: domain.LanguageEn,
			want: "There have been 7 emotes sent thus far in this workspace!",
		},
		{
			name: "workspace user received",
			q:    domain.StatsQuery{WorkspaceID: "T1", UserID: "U1", Received: true},
			lang: domain.LanguageEn,
			want: "There have been 7 emotes received by <@U1> thus far in this workspace!",
		},
		{
			name: "user sent japanese",
			q:    domain.StatsQuery{UserID: "U1"},
			lang: domain.LanguageJa,
			want: "今まで<@U1>が7件のエモートを送信しています！",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.q.Message(7, tt.lang))
		})
	}
}
