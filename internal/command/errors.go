package command

import (
	"errors"

	"github.com/gosuda/emotebot/internal/domain"
	"github.com/gosuda/emotebot/internal/selection"
)

//nolint:gochecknoglobals // sentinel errors
var (
	ErrUnknownCommand   = errors.New("command: unknown command")
	ErrDuplicateCommand = errors.New("command: duplicate command")
	ErrUnknownEmote     = errors.New("command: unknown emote")
	ErrNotInteractive   = errors.New("command: interactive prompts unavailable")
	ErrNoWorkspace      = errors.New("command: not in a workspace")

	ErrEmoteCommandsDisabled = errors.New("command: emote commands disabled in workspace")
)

// UsageError reports malformed command arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "command: usage: " + e.Usage
}

// IsUserError reports whether err was caused by the user's input rather than
// by the bot.
func IsUserError(err error) bool {
	var usage *UsageError
	return errors.As(err, &usage) ||
		errors.Is(err, ErrUnknownEmote) ||
		errors.Is(err, ErrNotInteractive) ||
		errors.Is(err, ErrNoWorkspace) ||
		errors.Is(err, ErrEmoteCommandsDisabled) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrInvalidSetting)
}

// UserMessage explains err to the user who ran the failed command.
func UserMessage(err error) string {
	var usage *UsageError

	switch {
	case selection.IsExpired(err):
		return "Timed out or had too many inputs."
	case errors.As(err, &usage):
		return "Usage: " + usage.Usage
	case errors.Is(err, ErrUnknownEmote):
		return "Unknown emote. Use /list-emotes to see every emote."
	case errors.Is(err, ErrNotInteractive):
		return "Emote selection is only available as a slash command."
	case errors.Is(err, ErrNoWorkspace):
		return "Server settings and stats are only available in a workspace channel."
	case errors.Is(err, ErrEmoteCommandsDisabled):
		return "Emote commands are turned off in this workspace. Use /emote <emote> instead."
	case errors.Is(err, domain.ErrForbidden):
		return "Only workspace admins can change server settings."
	case errors.Is(err, domain.ErrInvalidSetting):
		return "Unrecognized setting. Language is en or ja, gender is m or f."
	case errors.Is(err, selection.ErrEmptyCatalog):
		return "No emotes are available right now."
	default:
		return "Something went wrong, please try again later."
	}
}
