package slack

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/emotebot/internal/command"
	"github.com/gosuda/emotebot/internal/messenger"
	"github.com/gosuda/emotebot/internal/selection"
)

// slashResponder answers a slash command through its response_url and hosts
// interactive prompts.
type slashResponder struct {
	responseURL string
	messenger   *SlackMessenger
	inbox       messenger.Inbox
	post        WebhookPoster
	logger      zerolog.Logger
}

var _ command.Responder = (*slashResponder)(nil)

func (r *slashResponder) Reply(ctx context.Context, text string) error {
	msg := &slacklib.WebhookMessage{ResponseType: slacklib.ResponseTypeEphemeral, Text: text}
	if err := r.post(ctx, r.responseURL, msg); err != nil {
		return fmt.Errorf("slack.slashResponder.Reply: %w", err)
	}
	return nil
}

func (r *slashResponder) Prompt(ctx context.Context, sessionID uuid.UUID) (selection.Transport, func(), error) {
	envelopes, cancel, err := r.inbox.Subscribe(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("slack.slashResponder.Prompt: %w", err)
	}
	return NewPrompt(sessionID, r.messenger, r.post, r.responseURL, envelopes, r.logger), cancel, nil
}

// messageResponder answers a prefixed channel message with ephemeral
// messages. It cannot host prompts.
type messageResponder struct {
	channelID string
	userID    string
	messenger *SlackMessenger
}

var _ command.Responder = (*messageResponder)(nil)

func (r *messageResponder) Reply(ctx context.Context, text string) error {
	return r.messenger.SendEphemeral(ctx, r.channelID, r.userID, text)
}

func (r *messageResponder) Prompt(context.Context, uuid.UUID) (selection.Transport, func(), error) {
	return nil, nil, command.ErrNotInteractive
}
