package command

import (
	"context"
	"fmt"

	"github.com/gosuda/emotebot/internal/domain"
)

var listPrefix = domain.Localized{En: "List of emotes", Ja: "エモート一覧"} //nolint:gochecknoglobals // localized text

// ListEmotes replies with every emote command.
type ListEmotes struct {
	deps Deps
}

var _ Command = (*ListEmotes)(nil)

func NewListEmotes(deps Deps) *ListEmotes {
	return &ListEmotes{deps: deps}
}

func (c *ListEmotes) Descriptor() Descriptor {
	return Descriptor{
		Name:        "list-emotes",
		Usage:       "/list-emotes",
		Description: "List all available emotes",
		Aliases:     []string{"emotes"},
	}
}

func (c *ListEmotes) Handle(ctx context.Context, inv Invocation) error {
	settings, err := c.deps.settings(ctx, inv)
	if err != nil {
		return fmt.Errorf("command.ListEmotes.Handle: %w", err)
	}

	for _, msg := range SplitByMaxLen(listPrefix.In(settings.Language), c.deps.Catalog.Commands(), MaxMessageLen) {
		if err := inv.Responder.Reply(ctx, msg); err != nil {
			return fmt.Errorf("command.ListEmotes.Handle: %w", err)
		}
	}
	return nil
}
