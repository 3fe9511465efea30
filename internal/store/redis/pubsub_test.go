package redis_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	redisstore "github.com/gosuda/emotebot/internal/store/redis"
)

func TestSessionChannel(t *testing.T) {
	t.Parallel()

	sessionID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		got := redisstore.SessionChannel(sessionID)
		assert.Equal(t, "emotebot:session:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", got)
	})

	t.Run("nil UUID", func(t *testing.T) {
		t.Parallel()

		got := redisstore.SessionChannel(uuid.Nil)
		assert.Equal(t, "emotebot:session:00000000-0000-0000-0000-000000000000", got)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		got := redisstore.SessionChannel(sessionID)
		assert.True(t, strings.HasPrefix(got, "emotebot:session:"), "expected prefix 'emotebot:session:', got %q", got)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		a := redisstore.SessionChannel(sessionID)
		b := redisstore.SessionChannel(sessionID)
		assert.Equal(t, a, b)
	})

	t.Run("different inputs produce different outputs", func(t *testing.T) {
		t.Parallel()

		other := uuid.MustParse("11111111-2222-3333-4444-555555555555")
		assert.NotEqual(t, redisstore.SessionChannel(sessionID), redisstore.SessionChannel(other))
	})
}
