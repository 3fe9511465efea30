package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gosuda/emotebot/internal/domain"
	"github.com/gosuda/emotebot/internal/selection"
)

var selectPrompt = domain.Localized{ //nolint:gochecknoglobals // localized text
	En: selection.DefaultPrompt,
	Ja: "エモートと、任意でターゲットを選択してください",
}

// EmoteSelect runs an interactive selection session and sends the chosen
// emote.
type EmoteSelect struct {
	deps Deps
}

var _ Command = (*EmoteSelect)(nil)

func NewEmoteSelect(deps Deps) *EmoteSelect {
	return &EmoteSelect{deps: deps}
}

func (c *EmoteSelect) Descriptor() Descriptor {
	return Descriptor{
		Name:        "emote-select",
		Usage:       "/emote-select",
		Description: "Pick an emote and a target from a menu",
	}
}

func (c *EmoteSelect) Handle(ctx context.Context, inv Invocation) error {
	var (
		candidates selection.CandidateList
		settings   domain.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = c.deps.Platform.Candidates(gctx, inv.ChannelID, inv.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = c.deps.settings(gctx, inv)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("command.EmoteSelect.Handle: %w", err)
	}

	sessionID := uuid.New()
	transport, release, err := inv.Responder.Prompt(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("command.EmoteSelect.Handle: %w", err)
	}
	defer release()

	opts := append(slices.Clone(c.deps.SessionOptions),
		selection.WithSessionID(sessionID),
		selection.WithLogger(c.deps.Logger),
		selection.WithPrompt(selectPrompt.In(settings.Language)),
	)
	ctrl := selection.NewController(transport, c.deps.Catalog.IDs(), candidates, opts...)

	res, err := ctrl.Run(ctx)
	if err != nil {
		return fmt.Errorf("command.EmoteSelect.Handle: %w", err)
	}

	emote, ok := c.deps.Catalog.Lookup(res.Item)
	if !ok {
		return fmt.Errorf("command.EmoteSelect.Handle: %s: %w", res.Item, ErrUnknownEmote)
	}
	if err := c.deps.send(ctx, inv, emote, settings, res.Target); err != nil {
		return fmt.Errorf("command.EmoteSelect.Handle: %w", err)
	}
	return nil
}
