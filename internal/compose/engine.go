package compose

import (
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// TemplateEngine executes text/template templates. Parsed templates are
// cached by source text.
type TemplateEngine struct {
	cache sync.Map // string -> *template.Template
}

var _ Engine = (*TemplateEngine)(nil)

func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{}
}

func (e *TemplateEngine) Execute(src string, data Data) (string, error) {
	tmpl, err := e.parse(src)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("compose.TemplateEngine.Execute: %w", err)
	}
	return b.String(), nil
}

// Validate parses src without executing it.
func (e *TemplateEngine) Validate(src string) error {
	_, err := e.parse(src)
	return err
}

func (e *TemplateEngine) parse(src string) (*template.Template, error) {
	if cached, ok := e.cache.Load(src); ok {
		return cached.(*template.Template), nil //nolint:errcheck,forcetypeassert // only templates are stored
	}

	tmpl, err := template.New("emote").Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("compose.TemplateEngine.parse: %w", err)
	}
	actual, _ := e.cache.LoadOrStore(src, tmpl)
	return actual.(*template.Template), nil //nolint:errcheck,forcetypeassert // only templates are stored
}
