package command

import (
	"context"
	"fmt"

	"github.com/gosuda/emotebot/internal/domain"
)

// Emote sends a named emote directly: "/emote wave @bob".
type Emote struct {
	deps Deps
}

var (
	_ Command       = (*Emote)(nil)
	_ PrefixMatcher = (*Emote)(nil)
)

func NewEmote(deps Deps) *Emote {
	return &Emote{deps: deps}
}

func (c *Emote) Descriptor() Descriptor {
	return Descriptor{
		Name:        "emote",
		Usage:       "/emote <emote> [@user or text]",
		Description: "Send an emote, optionally at a target",
	}
}

// MatchPrefix accepts any emote command, so "!wave @bob" works in channels.
func (c *Emote) MatchPrefix(word string) bool {
	_, ok := c.deps.Catalog.Lookup(word)
	return ok
}

func (c *Emote) Handle(ctx context.Context, inv Invocation) error {
	if len(inv.Args) == 0 {
		return &UsageError{Usage: c.Descriptor().Usage}
	}

	emote, ok := c.deps.Catalog.Lookup(inv.Args[0])
	if !ok {
		return fmt.Errorf("command.Emote.Handle: %s: %w", inv.Args[0], ErrUnknownEmote)
	}

	if inv.Shortcut {
		enabled, err := domain.EmoteCommandsEnabled(ctx, c.deps.Settings, inv.WorkspaceID)
		if err != nil {
			return fmt.Errorf("command.Emote.Handle: %w", err)
		}
		if !enabled {
			return fmt.Errorf("command.Emote.Handle: %s: %w", emote.Name, ErrEmoteCommandsDisabled)
		}
	}

	settings, err := c.deps.settings(ctx, inv)
	if err != nil {
		return fmt.Errorf("command.Emote.Handle: %w", err)
	}

	if err := c.deps.send(ctx, inv, emote, settings, ParseTarget(inv.Args[1:])); err != nil {
		return fmt.Errorf("command.Emote.Handle: %w", err)
	}
	return nil
}
