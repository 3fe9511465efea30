package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/emotebot/internal/catalog"
	"github.com/gosuda/emotebot/internal/compose"
	"github.com/gosuda/emotebot/internal/domain"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	eng := compose.NewTemplateEngine()
	c, err := catalog.Default(catalog.WithValidator(eng.Validate))
	require.NoError(t, err)

	ids := c.IDs()
	require.Len(t, ids, c.Len())
	assert.Greater(t, c.Len(), 25, "default catalog spans more than one page")
	assert.Equal(t, "/wave", ids[0])

	emotes := c.Emotes()
	for i := 1; i < len(emotes); i++ {
		assert.Less(t, emotes[i-1].ID, emotes[i].ID, "ordered by id")
	}

	wave, ok := c.Lookup("WAVE")
	require.True(t, ok)
	assert.Equal(t, "wave", wave.Name)

	clap, ok := c.Lookup("/applaud")
	require.True(t, ok)
	assert.Equal(t, "/clap", clap.Command())
}

func TestDefault_Composes(t *testing.T) {
	t.Parallel()

	c, err := catalog.Default()
	require.NoError(t, err)

	composer := compose.NewComposer(compose.NewTemplateEngine())
	origin := compose.Identity{Name: "<@U1>", Gender: domain.GenderFemale}

	for _, e := range c.Emotes() {
		for _, lang := range []domain.Language{domain.LanguageEn, domain.LanguageJa} {
			msg, err := composer.Compose(e.Messages, lang, origin, nil)
			require.NoError(t, err, e.Name)
			assert.Contains(t, msg, "<@U1>", e.Name)
			assert.NotContains(t, msg, compose.Untargeted.Name, e.Name)
		}
	}
}

const sample = `
emotes:
  - id: 2
    name: bow
    commands: [bow]
    messages:
      en: {targeted: "a", untargeted: "b"}
      ja: {targeted: "c", untargeted: "d"}
  - id: 1
    name: wave
    commands: ["/wave", " Hi "]
    messages:
      en: {targeted: "a", untargeted: "b"}
      ja: {targeted: "c", untargeted: "d"}
  - id: 3
    name: incomplete
    commands: [nope]
    messages:
      en: {targeted: "a", untargeted: "b"}
  - id: 4
    name: nocommand
    commands: []
    messages:
      en: {targeted: "a", untargeted: "b"}
      ja: {targeted: "c", untargeted: "d"}
`

func TestLoad(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"/wave", "/bow"}, c.IDs())
	assert.Equal(t, []string{"/wave", "/hi", "/bow"}, c.Commands())

	_, ok := c.Lookup("nope")
	assert.False(t, ok, "emotes missing templates are skipped")
	_, ok = c.Lookup("")
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "emotes: []", catalog.ErrEmpty},
		{"no document", "", catalog.ErrEmpty},
		{
			name: "duplicate id",
			yaml: "emotes:\n  - {id: 1, name: a, commands: [a]}\n  - {id: 1, name: b, commands: [b]}\n",
			want: catalog.ErrDuplicateID,
		},
		{
			name: "command conflict",
			yaml: `emotes:
  - {id: 1, name: a, commands: [x], messages: {en: {targeted: a, untargeted: b}, ja: {targeted: a, untargeted: b}}}
  - {id: 2, name: b, commands: [X], messages: {en: {targeted: a, untargeted: b}, ja: {targeted: a, untargeted: b}}}
`,
			want: catalog.ErrCommandConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := catalog.Load(strings.NewReader(tt.yaml))
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := catalog.Load(strings.NewReader("emotes:\n  - {id: 1, colour: red}\n"))
	require.Error(t, err, "unknown fields are rejected")
}

func TestLoad_Validator(t *testing.T) {
	t.Parallel()

	bad := strings.Replace(sample, `targeted: "c"`, `targeted: "{{.Origin"`, 1)
	eng := compose.NewTemplateEngine()

	c, err := catalog.Load(strings.NewReader(bad), catalog.WithValidator(eng.Validate))
	require.NoError(t, err)
	assert.Equal(t, []string{"/wave"}, c.IDs(), "emote with a broken template is skipped")
}
