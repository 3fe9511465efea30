package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_WorkspaceEmoteCommandsFlag(t *testing.T) {
	t.Parallel()

	// New databases get the column from CREATE TABLE, existing ones from ALTER.
	assert.Contains(t, schema, "emote_commands_disabled BOOLEAN NOT NULL DEFAULT FALSE,")
	assert.Contains(t, schema, "ADD COLUMN IF NOT EXISTS emote_commands_disabled")
}
