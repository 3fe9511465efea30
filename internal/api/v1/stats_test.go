package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/emotebot/internal/api/v1"
	"github.com/gosuda/emotebot/internal/domain"
)

// ---------------------------------------------------------------------------
// GET /stats
// ---------------------------------------------------------------------------

func TestGetStats(t *testing.T) {
	t.Parallel()

	t.Run("workspace count", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{emoteLog: &mockEmoteLogRepo{
			countFunc: func(_ context.Context, q domain.StatsQuery) (int64, error) {
				assert.Equal(t, domain.StatsQuery{WorkspaceID: "T1"}, q)
				return 42, nil
			},
		}}
		v1.RegisterStatsRoutes(api, store, defaultCatalog())

		resp := api.Get("/stats?workspace=T1")
		require.Equal(t, http.StatusOK, resp.Code)

		var body v1.StatsResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, int64(42), body.Count)
		assert.Equal(t, "There have been 42 emotes sent thus far in this workspace!", body.Message)
	})

	t.Run("received by user in japanese", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{emoteLog: &mockEmoteLogRepo{
			countFunc: func(_ context.Context, q domain.StatsQuery) (int64, error) {
				assert.True(t, q.Received)
				assert.Equal(t, "U1", q.UserID)
				return 3, nil
			},
		}}
		v1.RegisterStatsRoutes(api, store, defaultCatalog())

		resp := api.Get("/stats?user=U1&received=true&lang=ja")
		require.Equal(t, http.StatusOK, resp.Code)

		var body v1.StatsResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "今まで<@U1>が3件のエモートを受信しています！", body.Message)
	})

	t.Run("received without scope is rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterStatsRoutes(api, &mockDataStore{emoteLog: &mockEmoteLogRepo{}}, defaultCatalog())

		resp := api.Get("/stats?received=true")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("repository error", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{emoteLog: &mockEmoteLogRepo{
			countFunc: func(context.Context, domain.StatsQuery) (int64, error) {
				return 0, errors.New("connection refused")
			},
		}}
		v1.RegisterStatsRoutes(api, store, defaultCatalog())

		resp := api.Get("/stats?workspace=T1")
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /stats/top
// ---------------------------------------------------------------------------

func TestGetTopEmotes(t *testing.T) {
	t.Parallel()

	t.Run("counts are named from the catalog", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{emoteLog: &mockEmoteLogRepo{
			topFunc: func(_ context.Context, q domain.StatsQuery, limit int) ([]domain.EmoteCount, error) {
				assert.Equal(t, "T1", q.WorkspaceID)
				assert.Equal(t, 5, limit)
				return []domain.EmoteCount{{EmoteID: 2, Count: 9}, {EmoteID: 1, Count: 4}, {EmoteID: 999, Count: 1}}, nil
			},
		}}
		v1.RegisterStatsRoutes(api, store, defaultCatalog())

		resp := api.Get("/stats/top?workspace=T1&limit=5")
		require.Equal(t, http.StatusOK, resp.Code)

		var top []v1.TopEmote
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &top))
		require.Len(t, top, 3)
		assert.Equal(t, v1.TopEmote{EmoteID: 2, Name: "bow", Count: 9}, top[0])
		assert.Equal(t, "wave", top[1].Name)
		assert.Empty(t, top[2].Name, "retired emotes keep their count")
	})

	t.Run("default limit", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{emoteLog: &mockEmoteLogRepo{
			topFunc: func(_ context.Context, _ domain.StatsQuery, limit int) ([]domain.EmoteCount, error) {
				assert.Equal(t, 10, limit)
				return nil, nil
			},
		}}
		v1.RegisterStatsRoutes(api, store, defaultCatalog())

		resp := api.Get("/stats/top")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `[]`, resp.Body.String())
	})

	t.Run("limit above maximum is rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterStatsRoutes(api, &mockDataStore{emoteLog: &mockEmoteLogRepo{}}, defaultCatalog())

		resp := api.Get("/stats/top?limit=500")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}
