package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/emotebot/internal/domain"
	"github.com/gosuda/emotebot/internal/selection"
)

//nolint:gochecknoglobals // sentinel errors
var (
	ErrMissingTargetForTemplate = errors.New("compose: targeted template without a target")
	ErrMissingTemplate          = errors.New("compose: no template for language")
)

// Untargeted stands in for the target identity when composing untargeted
// text. Untargeted templates should never reference it.
//
//nolint:gochecknoglobals // sentinel identity
var Untargeted = Identity{Name: "Godbert Manderville", Gender: domain.GenderMale}

// Identity is a named participant of an emote message.
type Identity struct {
	Name   string
	Gender domain.Gender
}

// Templates is one language's pair of emote templates.
type Templates struct {
	Targeted   string `yaml:"targeted"   json:"targeted"`
	Untargeted string `yaml:"untargeted" json:"untargeted"`
}

// Bundle holds an emote's templates per language.
type Bundle map[domain.Language]Templates

// Token is what a template sees for an identity.
type Token struct {
	Name   string
	Female bool
	Male   bool
}

// Data is the value templates are executed against.
type Data struct {
	Origin Token
	Target Token
}

// Engine substitutes identity tokens into a template.
type Engine interface {
	Execute(template string, data Data) (string, error)
}

// Composer turns a resolved emote selection into message text.
type Composer struct {
	engine Engine
}

func NewComposer(engine Engine) *Composer {
	return &Composer{engine: engine}
}

// Compose picks the targeted or untargeted template for lang and hands it
// to the engine. A nil target composes against Untargeted.
func (c *Composer) Compose(bundle Bundle, lang domain.Language, origin Identity, target selection.Target) (string, error) {
	tmpls, ok := bundle[lang]
	if !ok {
		tmpls, ok = bundle[domain.LanguageEn]
	}
	if !ok {
		return "", fmt.Errorf("compose.Composer.Compose: %s: %w", lang, ErrMissingTemplate)
	}

	tmpl, targetID := tmpls.Untargeted, Untargeted
	if target != nil {
		tmpl = tmpls.Targeted
		targetID = identityOf(target)
		if targetID.Name == "" {
			return "", fmt.Errorf("compose.Composer.Compose: %w", ErrMissingTargetForTemplate)
		}
	}
	if tmpl == "" {
		return "", fmt.Errorf("compose.Composer.Compose: %s: %w", lang, ErrMissingTemplate)
	}

	out, err := c.engine.Execute(tmpl, Data{Origin: tokenOf(origin), Target: tokenOf(targetID)})
	if err != nil {
		return "", err
	}
	return out, nil
}

// identityOf builds the identity of a resolved target. Target genders are
// not known, so they compose as male.
func identityOf(t selection.Target) Identity {
	switch v := t.(type) {
	case selection.Member:
		if v.ID == "" {
			return Identity{}
		}
		return Identity{Name: v.Text(), Gender: domain.GenderMale}
	case selection.FreeText:
		return Identity{Name: strings.TrimSpace(string(v)), Gender: domain.GenderMale}
	default:
		return Identity{}
	}
}

func tokenOf(id Identity) Token {
	return Token{
		Name:   id.Name,
		Female: id.Gender == domain.GenderFemale,
		Male:   id.Gender != domain.GenderFemale,
	}
}
