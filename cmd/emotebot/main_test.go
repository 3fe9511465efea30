package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gosuda/emotebot/internal/config"
	emoteslack "github.com/gosuda/emotebot/internal/messenger/slack"
)

func TestManifestCmd(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"manifest", "--url", "https://bot.example.com", "--no-emote-commands"})

	require.NoError(t, root.ExecuteContext(t.Context()))

	var m emoteslack.Manifest
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &m))

	var names []string
	for _, c := range m.Features.SlashCommands {
		names = append(names, c.Command)
		assert.Equal(t, "https://bot.example.com/slack/commands", c.URL)
	}
	assert.Equal(t, []string{"/emote-select", "/emote", "/list-emotes", "/emote-settings", "/emote-commands", "/emote-stats", "/emote-help"}, names)
}

func TestManifestCmd_InvalidConfig(t *testing.T) {
	t.Setenv("EMOTEBOT_SESSION_TIMEOUT", "soon")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"manifest"})

	require.Error(t, root.ExecuteContext(t.Context()))
}

func TestSetupLogger(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	setupLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestMaxConns(t *testing.T) {
	t.Parallel()

	n, err := maxConns(&config.Config{Database: config.DatabaseConfig{MaxConns: 10}})
	require.NoError(t, err)
	assert.Equal(t, int32(10), n)

	_, err = maxConns(&config.Config{Database: config.DatabaseConfig{MaxConns: 0}})
	require.Error(t, err)
}
