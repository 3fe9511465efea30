package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/emotebot/internal/compose"
)

func TestTemplateEngine_Execute(t *testing.T) {
	t.Parallel()

	e := compose.NewTemplateEngine()
	data := compose.Data{
		Origin: compose.Token{Name: "alice", Female: true},
		Target: compose.Token{Name: "bob", Male: true},
	}

	got, err := e.Execute("{{.Origin.Name}} hugs {{.Target.Name}}{{if .Target.Male}}, him{{end}}.", data)
	require.NoError(t, err)
	assert.Equal(t, "alice hugs bob, him.", got)

	// Cached parse yields the same output.
	again, err := e.Execute("{{.Origin.Name}} hugs {{.Target.Name}}{{if .Target.Male}}, him{{end}}.", data)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestTemplateEngine_Errors(t *testing.T) {
	t.Parallel()

	e := compose.NewTemplateEngine()

	_, err := e.Execute("{{.Origin.Name", compose.Data{})
	require.Error(t, err)
	require.Error(t, e.Validate("{{if}}"))

	_, err = e.Execute("{{.Origin.Nickname}}", compose.Data{})
	require.Error(t, err, "unknown fields fail")

	require.NoError(t, e.Validate("{{.Origin.Name}} waves."))
}
