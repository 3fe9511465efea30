package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/emotebot/internal/command"
	"github.com/gosuda/emotebot/internal/messenger"
)

// Dispatcher runs parsed commands. *command.Registry implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, inv command.Invocation) error
	ResolvePrefix(word string, rest []string) (command.Resolution, bool)
}

// Handler processes Slack webhooks: slash commands, interactive components,
// and the Events API.
type Handler struct {
	signingSecret string
	dispatcher    Dispatcher
	inbox         messenger.Inbox
	messenger     *SlackMessenger
	post          WebhookPoster
	logger        zerolog.Logger

	// Commands outlive the webhook request that started them.
	baseCtx context.Context //nolint:containedctx // lifetime of running commands
	running sync.WaitGroup
}

// HandlerOption configures optional Handler parameters.
type HandlerOption func(*Handler)

// WithBaseContext bounds the lifetime of commands started by the handler.
func WithBaseContext(ctx context.Context) HandlerOption {
	return func(h *Handler) {
		h.baseCtx = ctx
	}
}

// WithLogger sets the handler's logger.
func WithLogger(l zerolog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = l
	}
}

// WithWebhookPoster replaces slack.PostWebhookContext, for tests.
func WithWebhookPoster(post WebhookPoster) HandlerOption {
	return func(h *Handler) {
		h.post = post
	}
}

// NewHandler creates a new Slack webhook handler.
func NewHandler(signingSecret string, dispatcher Dispatcher, inbox messenger.Inbox, m *SlackMessenger, opts ...HandlerOption) *Handler {
	h := &Handler{
		signingSecret: signingSecret,
		dispatcher:    dispatcher,
		inbox:         inbox,
		messenger:     m,
		post:          slacklib.PostWebhookContext,
		logger:        zerolog.Nop(),
		baseCtx:       context.Background(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With().Str("component", "slack_handler").Logger()

	return h
}

// Wait blocks until every running command has returned.
func (h *Handler) Wait() {
	h.running.Wait()
}

// run dispatches inv on its own goroutine, since Slack expects webhooks to
// be acknowledged within three seconds.
func (h *Handler) run(inv command.Invocation) {
	h.running.Go(func() {
		err := h.dispatcher.Dispatch(h.baseCtx, inv)
		if errors.Is(err, command.ErrUnknownCommand) {
			h.logger.Warn().Str("command", inv.Name).Msg("unknown command")
		}
	})
}

// HandleCommands is an http.HandlerFunc for POST /slack/commands.
func (h *Handler) HandleCommands(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readVerified(w, r)
	if !ok {
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sc, err := slacklib.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "failed to parse command", http.StatusBadRequest)
		return
	}

	// Per-emote slash commands such as /wave resolve like "!wave".
	res := command.Resolution{Name: strings.TrimPrefix(sc.Command, "/"), Args: strings.Fields(sc.Text)}
	if resolved, ok := h.dispatcher.ResolvePrefix(res.Name, res.Args); ok {
		res = resolved
	}

	h.run(command.Invocation{
		Name:        res.Name,
		Args:        res.Args,
		Shortcut:    res.Shortcut,
		UserID:      sc.UserID,
		WorkspaceID: sc.TeamID,
		ChannelID:   sc.ChannelID,
		Responder: &slashResponder{
			responseURL: sc.ResponseURL,
			messenger:   h.messenger,
			inbox:       h.inbox,
			post:        h.post,
			logger:      h.logger,
		},
	})

	w.WriteHeader(http.StatusOK)
}

// HandleInteractions is an http.HandlerFunc for POST /slack/interactions.
func (h *Handler) HandleInteractions(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readVerified(w, r)
	if !ok {
		return
	}

	// Interactions use form-encoded body; the payload is in the "payload" field.
	// We already consumed the body for signature verification, so re-create it
	// and let the stdlib parse the form.
	r.Body = io.NopCloser(bytes.NewReader(body))

	parseErr := r.ParseForm()
	if parseErr != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	payloadStr := r.FormValue("payload")
	if payloadStr == "" {
		// Fallback: manually URL-decode from raw body.
		payloadStr = extractFormPayload(string(body))
	}

	if payloadStr == "" {
		http.Error(w, "missing payload", http.StatusBadRequest)
		return
	}

	var callback slacklib.InteractionCallback
	if unmarshalErr := json.Unmarshal([]byte(payloadStr), &callback); unmarshalErr != nil {
		http.Error(w, "invalid payload JSON", http.StatusBadRequest)
		return
	}

	env, ok := envelopeFor(&callback)
	if ok {
		h.deliver(r.Context(), env)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) deliver(ctx context.Context, env messenger.Envelope) {
	err := h.inbox.Deliver(ctx, env)
	switch {
	case errors.Is(err, messenger.ErrNoSession):
		h.logger.Debug().Str("session_id", env.SessionID.String()).Msg("dropping interaction for ended session")
	case errors.Is(err, messenger.ErrInboxFull):
		h.logger.Debug().Str("session_id", env.SessionID.String()).Str("component_id", env.ComponentID).Msg("dropping interaction beyond session budget")
	case err != nil:
		h.logger.Error().Err(err).Str("session_id", env.SessionID.String()).Msg("deliver interaction")
	}
}

// envelopeFor converts a prompt interaction or target modal submission into
// an envelope for its session.
func envelopeFor(callback *slacklib.InteractionCallback) (messenger.Envelope, bool) {
	switch callback.Type {
	case slacklib.InteractionTypeBlockActions:
		if len(callback.ActionCallback.BlockActions) == 0 {
			return messenger.Envelope{}, false
		}
		action := callback.ActionCallback.BlockActions[0]

		sessionID, _, ok := ParseBlockID(action.BlockID)
		if !ok {
			return messenger.Envelope{}, false
		}

		return messenger.Envelope{
			SessionID:   sessionID,
			Kind:        messenger.EnvelopeAction,
			ComponentID: action.ActionID,
			Value:       extractActionValue(action),
			UserID:      callback.User.ID,
			ResponseURL: callback.ResponseURL,
			TriggerID:   callback.TriggerID,
		}, true

	case slacklib.InteractionTypeViewSubmission:
		if callback.View.CallbackID != TargetModalCallbackID {
			return messenger.Envelope{}, false
		}
		sessionID, err := uuid.Parse(callback.View.PrivateMetadata)
		if err != nil {
			return messenger.Envelope{}, false
		}

		return messenger.Envelope{
			SessionID: sessionID,
			Kind:      messenger.EnvelopeDialog,
			Value:     TargetInputValue(sessionID, callback.View.State),
			UserID:    callback.User.ID,
			TriggerID: callback.TriggerID,
		}, true

	default:
		return messenger.Envelope{}, false
	}
}

// slackEvent represents the outer envelope of Slack Events API payloads.
type slackEvent struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge,omitempty"`
	TeamID    string          `json:"team_id,omitempty"`
	Event     json.RawMessage `json:"event,omitempty"`
}

// innerEvent represents the inner event within an event_callback.
type innerEvent struct {
	Type        string `json:"type"`
	Subtype     string `json:"subtype,omitempty"`
	Channel     string `json:"channel"`
	ChannelType string `json:"channel_type,omitempty"`
	Text        string `json:"text"`
	User        string `json:"user"`
	BotID       string `json:"bot_id,omitempty"`
}

// HandleEvents is an http.HandlerFunc for POST /slack/events.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readVerified(w, r)
	if !ok {
		return
	}

	var envelope slackEvent
	if unmarshalErr := json.Unmarshal(body, &envelope); unmarshalErr != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	switch envelope.Type {
	case "url_verification":
		h.handleURLVerification(w, envelope.Challenge)
		return
	case "event_callback":
		// Retries repeat an event we already acknowledged.
		if r.Header.Get("X-Slack-Retry-Num") != "" {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.handleEventCallback(r.Context(), w, envelope.TeamID, envelope.Event)
		return
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// handleURLVerification responds to Slack's URL verification challenge.
func (h *Handler) handleURLVerification(w http.ResponseWriter, challenge string) {
	w.Header().Set("Content-Type", "application/json")

	resp := map[string]string{"challenge": challenge}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		h.logger.Error().Err(encodeErr).Msg("encode url verification response")
	}
}

// handleEventCallback dispatches prefixed channel messages as commands.
func (h *Handler) handleEventCallback(ctx context.Context, w http.ResponseWriter, teamID string, rawEvent json.RawMessage) {
	var evt innerEvent
	if unmarshalErr := json.Unmarshal(rawEvent, &evt); unmarshalErr != nil {
		http.Error(w, "invalid event JSON", http.StatusBadRequest)
		return
	}

	// Only handle plain human messages.
	if evt.Type != "message" || evt.Subtype != "" || evt.BotID != "" || evt.User == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	botID, err := h.messenger.BotUserID(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("bot user id unavailable")
	}

	word, rest, ok := ParseMessage(evt.Text, botID)
	if ok {
		if res, found := h.dispatcher.ResolvePrefix(word, rest); found {
			h.run(command.Invocation{
				Name:        res.Name,
				Args:        res.Args,
				Shortcut:    res.Shortcut,
				UserID:      evt.User,
				WorkspaceID: teamID,
				ChannelID:   evt.Channel,
				Responder:   &messageResponder{channelID: evt.Channel, userID: evt.User, messenger: h.messenger},
			})
		}
	}

	w.WriteHeader(http.StatusOK)
}

// readVerified reads the request body and checks its Slack signature. It
// writes the error response itself and reports false on failure.
func (h *Handler) readVerified(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return nil, false
	}

	if verifyErr := h.verifySignature(r.Header, body); verifyErr != nil {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return nil, false
	}

	return body, true
}

// verifySignature validates the Slack request signature using the signing secret.
func (h *Handler) verifySignature(header http.Header, body []byte) error {
	sv, err := slacklib.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return fmt.Errorf("slack.Handler.verifySignature: create verifier: %w", err)
	}

	if _, writeErr := sv.Write(body); writeErr != nil {
		return fmt.Errorf("slack.Handler.verifySignature: write body: %w", writeErr)
	}

	if ensureErr := sv.Ensure(); ensureErr != nil {
		return fmt.Errorf("slack.Handler.verifySignature: ensure: %w", ensureErr)
	}

	return nil
}

// extractActionValue pulls the submitted value from a block action.
func extractActionValue(action *slacklib.BlockAction) string {
	if action.SelectedOption.Value != "" {
		return action.SelectedOption.Value
	}
	if action.SelectedUser != "" {
		return action.SelectedUser
	}

	return action.Value
}

// extractFormPayload parses the "payload" value from a URL-encoded form body.
func extractFormPayload(body string) string {
	values, err := url.ParseQuery(body)
	if err != nil {
		return ""
	}

	return values.Get("payload")
}
