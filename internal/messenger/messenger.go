package messenger

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNoSession is returned when an envelope is delivered for a session that is
// not listening on this process.
var ErrNoSession = errors.New("messenger: no live session") //nolint:gochecknoglobals // sentinel error

// ErrInboxFull is returned when a session has more envelopes queued than it
// can consume before its event budget runs out. The envelope is dropped.
var ErrInboxFull = errors.New("messenger: session inbox full") //nolint:gochecknoglobals // sentinel error

// MessageID uniquely identifies a message within a messenger platform.
type MessageID string

// Messenger abstracts posting to a chat platform (Slack, etc.).
// Implementations handle platform-specific API calls; the interface is platform-agnostic.
type Messenger interface {
	// SendMessage posts a text message visible to the whole channel.
	SendMessage(ctx context.Context, channelID, text string) (MessageID, error)

	// SendEphemeral posts a text message only userID can see.
	SendEphemeral(ctx context.Context, channelID, userID, text string) error

	// Platform returns the messenger platform identifier (e.g. "slack").
	Platform() string
}

// EnvelopeKind distinguishes prompt interactions from dialog submissions.
type EnvelopeKind string

const (
	EnvelopeAction EnvelopeKind = "action"
	EnvelopeDialog EnvelopeKind = "dialog"
)

// Envelope carries one user interaction to the session that owns the prompt.
type Envelope struct {
	SessionID   uuid.UUID    `json:"session_id"`
	Kind        EnvelopeKind `json:"kind"`
	ComponentID string       `json:"component_id,omitempty"`
	Value       string       `json:"value,omitempty"`
	UserID      string       `json:"user_id,omitempty"`

	// Platform context of the interaction, needed to answer it.
	ResponseURL string `json:"response_url,omitempty"`
	TriggerID   string `json:"trigger_id,omitempty"`
}

// Inbox routes envelopes from the webhook handler to live sessions.
type Inbox interface {
	// Subscribe starts receiving envelopes for sessionID. The returned
	// function stops the subscription and must be called exactly once.
	Subscribe(ctx context.Context, sessionID uuid.UUID) (<-chan Envelope, func(), error)

	// Deliver hands env to its session. Envelopes for sessions that are no
	// longer live are dropped.
	Deliver(ctx context.Context, env Envelope) error
}
