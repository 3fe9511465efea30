package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/emotebot/internal/api/v1"
	"github.com/gosuda/emotebot/internal/domain"
)

// ---------------------------------------------------------------------------
// GET /settings
// ---------------------------------------------------------------------------

func TestGetSettings(t *testing.T) {
	t.Parallel()

	notFoundUser := func(context.Context, string) (*domain.UserSettings, error) { return nil, domain.ErrNotFound }

	t.Run("workspace defaults apply", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{settings: &mockSettingsRepo{
			getUserFunc: notFoundUser,
			getWorkspaceFunc: func(_ context.Context, id string) (*domain.WorkspaceSettings, error) {
				assert.Equal(t, "T1", id)
				return &domain.WorkspaceSettings{ExternalID: id, Settings: domain.Settings{Language: domain.LanguageJa, Gender: domain.GenderFemale}}, nil
			},
		}}
		v1.RegisterSettingsRoutes(api, store)

		resp := api.Get("/settings?user=U1&workspace=T1")
		require.Equal(t, http.StatusOK, resp.Code)

		var body v1.SettingsResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, v1.SettingsResponse{Language: "ja", Gender: "f"}, body)
	})

	t.Run("defaults without any saved settings", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterSettingsRoutes(api, &mockDataStore{settings: &mockSettingsRepo{getUserFunc: notFoundUser}})

		resp := api.Get("/settings?user=U1")
		require.Equal(t, http.StatusOK, resp.Code)

		var body v1.SettingsResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, v1.SettingsResponse{Language: "en", Gender: "m"}, body)
	})

	t.Run("user is required", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterSettingsRoutes(api, &mockDataStore{settings: &mockSettingsRepo{}})

		resp := api.Get("/settings")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}
