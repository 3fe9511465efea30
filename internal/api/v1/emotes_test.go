package v1_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/emotebot/internal/api/v1"
)

// ---------------------------------------------------------------------------
// GET /emotes
// ---------------------------------------------------------------------------

func TestListEmotes(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog()

	t.Run("english templates by default", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterEmoteRoutes(api, cat)

		resp := api.Get("/emotes")
		require.Equal(t, http.StatusOK, resp.Code)

		var emotes []v1.EmoteResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &emotes))
		require.Len(t, emotes, cat.Len())
		assert.Equal(t, 1, emotes[0].ID)
		assert.Equal(t, "/wave", emotes[0].Commands[0])
		assert.Contains(t, emotes[0].Targeted, "{{.Target.Name}}")
	})

	t.Run("japanese templates", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterEmoteRoutes(api, cat)

		resp := api.Get("/emotes?lang=ja")
		require.Equal(t, http.StatusOK, resp.Code)

		var emotes []v1.EmoteResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &emotes))
		en := cat.Emotes()[0].Messages["en"].Untargeted
		assert.NotEqual(t, en, emotes[0].Untargeted)
	})

	t.Run("unsupported language is rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterEmoteRoutes(api, cat)

		resp := api.Get("/emotes?lang=fr")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /emotes/{id}
// ---------------------------------------------------------------------------

func TestGetEmote(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterEmoteRoutes(api, cat)

		resp := api.Get("/emotes/2")
		require.Equal(t, http.StatusOK, resp.Code)

		var emote v1.EmoteResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &emote))
		assert.Equal(t, 2, emote.ID)
		assert.Equal(t, "/bow", emote.Commands[0])
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterEmoteRoutes(api, cat)

		resp := api.Get("/emotes/999")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
