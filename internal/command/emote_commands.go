package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/emotebot/internal/domain"
)

//nolint:gochecknoglobals // localized text
var (
	emoteCommandsOn = domain.Localized{
		En: "Emote commands such as /wave are on in this workspace.",
		Ja: "このワークスペースでは /wave などのエモートコマンドが有効です。",
	}
	emoteCommandsOff = domain.Localized{
		En: "Emote commands such as /wave are off in this workspace. /emote still works.",
		Ja: "このワークスペースでは /wave などのエモートコマンドが無効です。/emote は引き続き使えます。",
	}
)

const emoteCommandsUsage = "/emote-commands [enable|disable]"

// EmoteCommands shows or switches whether emote command words ("/wave",
// "!wave") work in the workspace. Switching is restricted to admins.
type EmoteCommands struct {
	deps Deps
}

var _ Command = (*EmoteCommands)(nil)

func NewEmoteCommands(deps Deps) *EmoteCommands {
	return &EmoteCommands{deps: deps}
}

func (c *EmoteCommands) Descriptor() Descriptor {
	return Descriptor{
		Name:        "emote-commands",
		Usage:       emoteCommandsUsage,
		Description: "Turn emote commands such as /wave on or off for the workspace",
	}
}

// parseEmoteCommandsArgs returns the requested state, or nil to only show it.
func parseEmoteCommandsArgs(args []string) (*bool, error) {
	if len(args) == 0 {
		return nil, nil
	}
	if len(args) > 1 {
		return nil, &UsageError{Usage: emoteCommandsUsage}
	}

	var disabled bool
	switch strings.ToLower(args[0]) {
	case "enable", "on":
		disabled = false
	case "disable", "off":
		disabled = true
	default:
		return nil, &UsageError{Usage: emoteCommandsUsage}
	}
	return &disabled, nil
}

func (c *EmoteCommands) Handle(ctx context.Context, inv Invocation) error {
	disabled, err := parseEmoteCommandsArgs(inv.Args)
	if err != nil {
		return fmt.Errorf("command.EmoteCommands.Handle: %w", err)
	}
	if inv.WorkspaceID == "" {
		return fmt.Errorf("command.EmoteCommands.Handle: %w", ErrNoWorkspace)
	}

	settings, err := c.deps.settings(ctx, inv)
	if err != nil {
		return fmt.Errorf("command.EmoteCommands.Handle: %w", err)
	}

	ws, err := c.deps.Settings.GetWorkspace(ctx, inv.WorkspaceID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		ws = &domain.WorkspaceSettings{
			ExternalID: inv.WorkspaceID,
			Settings:   domain.DefaultSettings(),
			CreatedAt:  c.deps.now(),
		}
	case err != nil:
		return fmt.Errorf("command.EmoteCommands.Handle: %w", err)
	}

	if disabled != nil {
		admin, err := c.deps.Platform.IsAdmin(ctx, inv.UserID)
		if err != nil {
			return fmt.Errorf("command.EmoteCommands.Handle: %w", err)
		}
		if !admin {
			return fmt.Errorf("command.EmoteCommands.Handle: %w", domain.ErrForbidden)
		}

		ws.EmoteCommandsDisabled = *disabled
		ws.UpdatedAt = c.deps.now()
		if err := c.deps.Settings.UpsertWorkspace(ctx, ws); err != nil {
			return fmt.Errorf("command.EmoteCommands.Handle: %w", err)
		}

		c.deps.Logger.Info().
			Str("workspace_id", inv.WorkspaceID).
			Str("user_id", inv.UserID).
			Bool("disabled", *disabled).
			Msg("emote commands switched")
	}

	msg := emoteCommandsOn
	if ws.EmoteCommandsDisabled {
		msg = emoteCommandsOff
	}
	if err := inv.Responder.Reply(ctx, msg.In(settings.Language)); err != nil {
		return fmt.Errorf("command.EmoteCommands.Handle: %w", err)
	}
	return nil
}
