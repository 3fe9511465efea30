package slack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	emoteslack "github.com/gosuda/emotebot/internal/messenger/slack"
)

func TestParseMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantWord string
		wantRest []string
		wantOK   bool
	}{
		{
			name:     "prefixed command",
			input:    "!wave <@U2>",
			wantWord: "wave",
			wantRest: []string{"<@U2>"},
			wantOK:   true,
		},
		{
			name:     "command word is lowercased",
			input:    "  !Emote-Stats received ",
			wantWord: "emote-stats",
			wantRest: []string{"received"},
			wantOK:   true,
		},
		{
			name:     "bot mention without prefix",
			input:    "<@UBOT> list-emotes",
			wantWord: "list-emotes",
			wantRest: []string{},
			wantOK:   true,
		},
		{
			name:     "bot mention with prefix",
			input:    "<@UBOT> !cheer",
			wantWord: "cheer",
			wantRest: []string{},
			wantOK:   true,
		},
		{
			name:   "mention of someone else",
			input:  "<@U2> wave",
			wantOK: false,
		},
		{
			name:   "plain chatter",
			input:  "good morning",
			wantOK: false,
		},
		{
			name:   "bare prefix",
			input:  "!",
			wantOK: false,
		},
		{
			name:   "bare mention",
			input:  "<@UBOT>",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, rest, ok := emoteslack.ParseMessage(tt.input, "UBOT")
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantWord, word)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestParseMessage_UnknownBot(t *testing.T) {
	t.Parallel()

	_, _, ok := emoteslack.ParseMessage("<@UBOT> wave", "")
	assert.False(t, ok)

	word, _, ok := emoteslack.ParseMessage("!wave", "")
	assert.True(t, ok)
	assert.Equal(t, "wave", word)
}
