package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gosuda/emotebot/internal/catalog"
	"github.com/gosuda/emotebot/internal/compose"
	"github.com/gosuda/emotebot/internal/domain"
	"github.com/gosuda/emotebot/internal/messenger"
	"github.com/gosuda/emotebot/internal/selection"
)

// Descriptor describes a command to users and to the platform manifest.
type Descriptor struct {
	Name        string
	Usage       string
	Description string
	// Aliases are words that invoke the command from a prefixed channel
	// message, e.g. "emotes" for "!emotes".
	Aliases []string
}

// Command handles one kind of invocation.
type Command interface {
	Descriptor() Descriptor
	Handle(ctx context.Context, inv Invocation) error
}

// PrefixMatcher is implemented by commands that accept prefix words beyond
// their aliases. A matched word becomes the first argument.
type PrefixMatcher interface {
	MatchPrefix(word string) bool
}

// Invocation is a parsed request to run a command.
type Invocation struct {
	Name        string
	Args        []string
	UserID      string
	WorkspaceID string // empty in direct messages
	ChannelID   string
	Responder   Responder

	// Shortcut is set when the command was invoked by an emote's own
	// command word, as in "/wave" or "!wave".
	Shortcut bool
}

// Resolution is a prefix word mapped to a command.
type Resolution struct {
	Name     string
	Args     []string
	Shortcut bool
}

// Responder answers the user who invoked a command.
type Responder interface {
	// Reply sends text that only the invoking user needs to see.
	Reply(ctx context.Context, text string) error

	// Prompt returns the transport for an interactive session and a
	// function that releases it. Responders that cannot host interactive
	// prompts return ErrNotInteractive.
	Prompt(ctx context.Context, sessionID uuid.UUID) (selection.Transport, func(), error)
}

// Platform is the chat platform as seen by commands.
type Platform interface {
	messenger.Messenger

	// Candidates lists the users an emote in channelID may target. Outside
	// of group channels it falls back to the invoking user and the bot.
	Candidates(ctx context.Context, channelID, userID string) (selection.CandidateList, error)

	// IsAdmin reports whether userID administers the workspace.
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Deps are the collaborators shared by the built-in commands.
type Deps struct {
	Catalog  *catalog.Catalog
	Composer *compose.Composer
	Settings domain.SettingsRepository
	EmoteLog domain.EmoteLogRepository
	Platform Platform
	Logger   zerolog.Logger

	// SessionOptions are applied to every selection session.
	SessionOptions []selection.Option
	Now            func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// settings resolves the invoking user's settings.
func (d *Deps) settings(ctx context.Context, inv Invocation) (domain.Settings, error) {
	return domain.ResolveSettings(ctx, d.Settings, inv.UserID, inv.WorkspaceID)
}

// send composes an emote, posts it to the invocation's channel, and records
// it in the emote log. Log failures do not fail the send.
func (d *Deps) send(ctx context.Context, inv Invocation, emote *catalog.Emote, s domain.Settings, target selection.Target) error {
	origin := compose.Identity{Name: selection.Member{ID: inv.UserID}.Text(), Gender: s.Gender}

	text, err := d.Composer.Compose(emote.Messages, s.Language, origin, target)
	if err != nil {
		return fmt.Errorf("compose %s: %w", emote.Name, err)
	}

	if _, err := d.Platform.SendMessage(ctx, inv.ChannelID, text); err != nil {
		return fmt.Errorf("post %s: %w", emote.Name, err)
	}

	entry := &domain.EmoteLogEntry{
		ID:          uuid.New(),
		UserID:      inv.UserID,
		WorkspaceID: inv.WorkspaceID,
		EmoteID:     emote.ID,
		CreatedAt:   d.now(),
	}
	if m, ok := target.(selection.Member); ok {
		entry.TargetIDs = []string{m.ID}
	}
	if err := d.EmoteLog.Append(ctx, entry); err != nil {
		d.Logger.Warn().Err(err).Str("emote", emote.Name).Str("user_id", inv.UserID).Msg("failed to log emote")
	}

	d.Logger.Info().
		Str("emote", emote.Name).
		Str("user_id", inv.UserID).
		Str("workspace_id", inv.WorkspaceID).
		Bool("targeted", target != nil).
		Msg("emote sent")

	return nil
}

// Registry maps command names to commands.
type Registry struct {
	logger  zerolog.Logger
	names   []string
	byName  map[string]Command
	byAlias map[string]string
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		logger:  logger.With().Str("component", "commands").Logger(),
		byName:  make(map[string]Command),
		byAlias: make(map[string]string),
	}
}

// Build returns a registry holding every built-in command.
func Build(deps Deps) (*Registry, error) {
	r := NewRegistry(deps.Logger)

	cmds := []Command{
		NewEmoteSelect(deps),
		NewEmote(deps),
		NewListEmotes(deps),
		NewSettings(deps),
		NewEmoteCommands(deps),
		NewStats(deps),
		NewHelp(r),
	}
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds c. Names and aliases must be unique.
func (r *Registry) Register(c Command) error {
	d := c.Descriptor()
	if _, dup := r.byName[d.Name]; dup || d.Name == "" {
		return fmt.Errorf("command.Registry.Register: %q: %w", d.Name, ErrDuplicateCommand)
	}
	for _, a := range d.Aliases {
		if _, dup := r.byAlias[a]; dup {
			return fmt.Errorf("command.Registry.Register: alias %q: %w", a, ErrDuplicateCommand)
		}
	}

	r.byName[d.Name] = c
	r.names = append(r.names, d.Name)
	for _, a := range d.Aliases {
		r.byAlias[a] = d.Name
	}
	return nil
}

// Descriptors returns the registered commands' descriptors in registration
// order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n].Descriptor())
	}
	return out
}

// Lookup finds a command by name. A leading slash is ignored.
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.byName[strings.TrimPrefix(name, "/")]
	return c, ok
}

// ResolvePrefix maps the first word of a prefixed message to a command and
// its arguments. It reports false for words no command accepts.
func (r *Registry) ResolvePrefix(word string, rest []string) (Resolution, bool) {
	word = strings.ToLower(word)
	if name, ok := r.byAlias[word]; ok {
		return Resolution{Name: name, Args: rest}, true
	}
	for _, n := range r.names {
		if m, ok := r.byName[n].(PrefixMatcher); ok && m.MatchPrefix(word) {
			return Resolution{Name: n, Args: append([]string{word}, rest...), Shortcut: true}, true
		}
	}
	return Resolution{}, false
}

// Dispatch runs the invocation's command. Failures are logged and explained
// to the user through the invocation's Responder before being returned.
func (r *Registry) Dispatch(ctx context.Context, inv Invocation) error {
	inv.Name = strings.TrimPrefix(inv.Name, "/")

	c, ok := r.byName[inv.Name]
	if !ok {
		return fmt.Errorf("command.Registry.Dispatch: %q: %w", inv.Name, ErrUnknownCommand)
	}

	err := c.Handle(ctx, inv)
	if err == nil {
		return nil
	}

	evt := r.logger.Error()
	if selection.IsExpired(err) || IsUserError(err) || errors.Is(err, context.Canceled) {
		evt = r.logger.Debug()
	}
	evt.Err(err).Str("command", inv.Name).Str("user_id", inv.UserID).Msg("command failed")

	if replyErr := inv.Responder.Reply(ctx, UserMessage(err)); replyErr != nil {
		r.logger.Warn().Err(replyErr).Str("command", inv.Name).Msg("failed to report command error")
	}
	return err
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(slices.Values(r.names))
}
