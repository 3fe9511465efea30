package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/gosuda/emotebot/internal/compose"
	"github.com/gosuda/emotebot/internal/domain"
)

//go:embed emotes.yaml
var defaultEmotes []byte

//nolint:gochecknoglobals // sentinel errors
var (
	ErrEmpty           = errors.New("catalog: no usable emotes")
	ErrDuplicateID     = errors.New("catalog: duplicate emote id")
	ErrCommandConflict = errors.New("catalog: command used by two emotes")
)

// requiredLanguages must carry both templates for an emote to be usable.
var requiredLanguages = []domain.Language{domain.LanguageEn, domain.LanguageJa} //nolint:gochecknoglobals // language table

// Emote is one selectable emote.
type Emote struct {
	ID       int            `yaml:"id"       json:"id"`
	Name     string         `yaml:"name"     json:"name"`
	Commands []string       `yaml:"commands" json:"commands"`
	Messages compose.Bundle `yaml:"messages" json:"messages"`
}

// Command is the emote's primary text command, which is also its item id in
// a selection session.
func (e *Emote) Command() string {
	return e.Commands[0]
}

type file struct {
	Emotes []*Emote `yaml:"emotes"`
}

// Catalog is an immutable set of emotes ordered by numeric id.
type Catalog struct {
	emotes    []*Emote
	byCommand map[string]*Emote
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger   zerolog.Logger
	validate func(string) error
}

// WithLogger logs skipped emotes.
func WithLogger(l zerolog.Logger) LoadOption {
	return func(c *loadConfig) {
		c.logger = l
	}
}

// WithValidator rejects emotes whose templates fail validate.
func WithValidator(validate func(string) error) LoadOption {
	return func(c *loadConfig) {
		c.validate = validate
	}
}

// Default loads the emotes compiled into the binary.
func Default(opts ...LoadOption) (*Catalog, error) {
	return Load(bytes.NewReader(defaultEmotes), opts...)
}

// LoadFile loads emotes from a YAML file at path.
func LoadFile(path string, opts ...LoadOption) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadFile: %w", err)
	}
	defer f.Close()

	return Load(f, opts...)
}

// Load decodes a YAML emote list. Emotes missing a command or any template
// are skipped. Duplicate ids or commands fail the load.
func Load(r io.Reader, opts ...LoadOption) (*Catalog, error) {
	cfg := loadConfig{logger: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog.Load: decode: %w", err)
	}

	c := &Catalog{byCommand: make(map[string]*Emote)}
	ids := make(map[int]struct{}, len(f.Emotes))

	for _, e := range f.Emotes {
		if e == nil {
			continue
		}
		if _, dup := ids[e.ID]; dup {
			return nil, fmt.Errorf("catalog.Load: %d: %w", e.ID, ErrDuplicateID)
		}
		ids[e.ID] = struct{}{}

		e.Commands = normalizeCommands(e.Commands)
		if reason := incomplete(e, cfg.validate); reason != "" {
			cfg.logger.Warn().Int("emote_id", e.ID).Str("emote", e.Name).Str("reason", reason).Msg("skipping emote")
			continue
		}

		for _, cmd := range e.Commands {
			if other, ok := c.byCommand[cmd]; ok {
				return nil, fmt.Errorf("catalog.Load: %s (%s, %s): %w", cmd, other.Name, e.Name, ErrCommandConflict)
			}
			c.byCommand[cmd] = e
		}
		c.emotes = append(c.emotes, e)
	}

	if len(c.emotes) == 0 {
		return nil, fmt.Errorf("catalog.Load: %w", ErrEmpty)
	}

	slices.SortFunc(c.emotes, func(a, b *Emote) int { return a.ID - b.ID })
	return c, nil
}

func incomplete(e *Emote, validate func(string) error) string {
	if len(e.Commands) == 0 {
		return "no commands"
	}
	for _, lang := range requiredLanguages {
		t, ok := e.Messages[lang]
		if !ok || t.Targeted == "" || t.Untargeted == "" {
			return "missing " + string(lang) + " templates"
		}
		if validate == nil {
			continue
		}
		for _, src := range []string{t.Targeted, t.Untargeted} {
			if err := validate(src); err != nil {
				return err.Error()
			}
		}
	}
	return ""
}

// normalizeCommands lowercases commands, adds the leading slash, and drops
// blanks.
func normalizeCommands(cmds []string) []string {
	out := cmds[:0]
	for _, cmd := range cmds {
		cmd = strings.ToLower(strings.TrimSpace(cmd))
		if strings.TrimPrefix(cmd, "/") == "" {
			continue
		}
		if !strings.HasPrefix(cmd, "/") {
			cmd = "/" + cmd
		}
		out = append(out, cmd)
	}
	return out
}

// IDs returns the primary command of every emote in id order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.emotes))
	for i, e := range c.emotes {
		ids[i] = e.Command()
	}
	return ids
}

// Emotes returns every emote in id order.
func (c *Catalog) Emotes() []*Emote {
	return slices.Clone(c.emotes)
}

func (c *Catalog) Len() int {
	return len(c.emotes)
}

// Lookup finds an emote by any of its commands. The leading slash is
// optional and matching ignores case.
func (c *Catalog) Lookup(command string) (*Emote, bool) {
	normalized := normalizeCommands([]string{command})
	if len(normalized) == 0 {
		return nil, false
	}
	e, ok := c.byCommand[normalized[0]]
	return e, ok
}

// Commands returns every command of every emote in id order.
func (c *Catalog) Commands() []string {
	var out []string
	for _, e := range c.emotes {
		out = append(out, e.Commands...)
	}
	return out
}
