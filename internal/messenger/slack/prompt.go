package slack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/emotebot/internal/messenger"
	"github.com/gosuda/emotebot/internal/selection"
)

//nolint:gochecknoglobals // sentinel errors
var (
	ErrInboxClosed = errors.New("slack: session inbox closed")
	ErrNoTrigger   = errors.New("slack: no interaction to open a dialog from")
)

// WebhookPoster sends a message to an interaction response_url.
type WebhookPoster func(ctx context.Context, url string, msg *slacklib.WebhookMessage) error

// Prompt is the selection.Transport of one session. The prompt is an
// ephemeral message, so it is updated through the response_url of the
// latest interaction rather than through chat.update.
type Prompt struct {
	sessionID uuid.UUID
	messenger *SlackMessenger
	post      WebhookPoster
	envelopes <-chan messenger.Envelope
	logger    zerolog.Logger

	responseURL string
	triggerID   string

	// Envelopes received while waiting for a different kind.
	pending []messenger.Envelope
}

var _ selection.Transport = (*Prompt)(nil)

// NewPrompt creates the transport for sessionID. responseURL is the slash
// command's response_url; envelopes is the session's inbox subscription.
func NewPrompt(
	sessionID uuid.UUID,
	m *SlackMessenger,
	post WebhookPoster,
	responseURL string,
	envelopes <-chan messenger.Envelope,
	logger zerolog.Logger,
) *Prompt {
	return &Prompt{
		sessionID:   sessionID,
		messenger:   m,
		post:        post,
		envelopes:   envelopes,
		responseURL: responseURL,
		logger:      logger.With().Str("session_id", sessionID.String()).Logger(),
	}
}

func (p *Prompt) RenderInitial(ctx context.Context, v selection.View) (selection.Handle, error) {
	msg := p.message(v)
	msg.ResponseType = slacklib.ResponseTypeEphemeral

	if err := p.post(ctx, p.responseURL, msg); err != nil {
		return "", fmt.Errorf("slack.Prompt.RenderInitial: %w", err)
	}
	return selection.Handle(p.sessionID.String()), nil
}

func (p *Prompt) Update(ctx context.Context, _ selection.Handle, v selection.View) error {
	msg := p.message(v)
	msg.ReplaceOriginal = true

	if err := p.post(ctx, p.responseURL, msg); err != nil {
		return fmt.Errorf("slack.Prompt.Update: %w", err)
	}
	return nil
}

func (p *Prompt) OpenDialog(ctx context.Context, _ selection.Handle, d selection.Dialog) error {
	if p.triggerID == "" {
		return fmt.Errorf("slack.Prompt.OpenDialog: %w", ErrNoTrigger)
	}

	// Trigger ids are single use.
	triggerID := p.triggerID
	p.triggerID = ""

	if err := p.messenger.OpenModal(ctx, triggerID, BuildTargetModal(p.sessionID, d)); err != nil {
		return fmt.Errorf("slack.Prompt.OpenDialog: %w", err)
	}
	return nil
}

// AwaitEvent returns the next interaction of any kind. A dialog submission
// arriving here becomes a TargetTextSubmitted event.
func (p *Prompt) AwaitEvent(ctx context.Context, _ selection.Handle, timeout time.Duration) (selection.Event, bool, error) {
	env, ok, err := p.next(ctx, timeout, func(messenger.Envelope) bool { return true })
	if err != nil || !ok {
		return selection.Event{}, ok, err
	}

	if env.Kind == messenger.EnvelopeDialog {
		return selection.Event{Kind: selection.EventTargetTextSubmitted, Value: env.Value, Raw: string(selection.ComponentTargetInputField)}, true, nil
	}
	return selection.ParseEvent(env.ComponentID, env.Value), true, nil
}

// AwaitDialogResponse waits for the dialog submission. Prompt interactions
// arriving in the meantime are kept for later AwaitEvent calls.
func (p *Prompt) AwaitDialogResponse(ctx context.Context, _ selection.Handle, timeout time.Duration) (string, bool, error) {
	env, ok, err := p.next(ctx, timeout, func(e messenger.Envelope) bool { return e.Kind == messenger.EnvelopeDialog })
	if err != nil || !ok {
		return "", ok, err
	}
	return env.Value, true, nil
}

func (p *Prompt) next(ctx context.Context, timeout time.Duration, want func(messenger.Envelope) bool) (messenger.Envelope, bool, error) {
	for i, env := range p.pending {
		if want(env) {
			p.pending = append(p.pending[:i], p.pending[i+1:]...)
			p.observe(env)
			return env, true, nil
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return messenger.Envelope{}, false, fmt.Errorf("slack.Prompt: %w", ctx.Err())
		case <-timer.C:
			return messenger.Envelope{}, false, nil
		case env, ok := <-p.envelopes:
			if !ok {
				return messenger.Envelope{}, false, ErrInboxClosed
			}
			if !want(env) {
				p.pending = append(p.pending, env)
				continue
			}
			p.observe(env)
			return env, true, nil
		}
	}
}

// observe keeps the interaction context needed to answer env.
func (p *Prompt) observe(env messenger.Envelope) {
	if env.ResponseURL != "" {
		p.responseURL = env.ResponseURL
	}
	if env.TriggerID != "" {
		p.triggerID = env.TriggerID
	}
	p.logger.Debug().Str("kind", string(env.Kind)).Str("component_id", env.ComponentID).Msg("interaction received")
}

func (p *Prompt) message(v selection.View) *slacklib.WebhookMessage {
	return &slacklib.WebhookMessage{
		Text:   v.Caption,
		Blocks: &slacklib.Blocks{BlockSet: BuildViewBlocks(p.sessionID, v)},
	}
}
