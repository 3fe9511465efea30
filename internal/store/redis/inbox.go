package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gosuda/emotebot/internal/messenger"
)

// Inbox routes envelopes through Redis pub/sub so an interaction received by
// any replica reaches the replica running its session.
type Inbox struct {
	ps     *PubSub
	logger zerolog.Logger
}

var _ messenger.Inbox = (*Inbox)(nil)

func NewInbox(ps *PubSub, logger zerolog.Logger) *Inbox {
	return &Inbox{ps: ps, logger: logger.With().Str("component", "redis_inbox").Logger()}
}

func (in *Inbox) Subscribe(ctx context.Context, sessionID uuid.UUID) (<-chan messenger.Envelope, func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	raw, cleanup, err := in.ps.Subscribe(subCtx, SessionChannel(sessionID))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("redis.Inbox.Subscribe: %w", err)
	}

	out := make(chan messenger.Envelope, messenger.InboxBuffer)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(out)
		for payload := range raw {
			env, decodeErr := decodeEnvelope(payload)
			if decodeErr != nil {
				in.logger.Warn().Err(decodeErr).Str("session_id", sessionID.String()).Msg("dropping malformed envelope")
				continue
			}
			select {
			case out <- env:
			case <-subCtx.Done():
				return
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			cleanup()
			<-done
		})
	}

	return out, stop, nil
}

// Deliver publishes env on its session channel. It returns
// messenger.ErrNoSession when no replica is subscribed.
func (in *Inbox) Deliver(ctx context.Context, env messenger.Envelope) error {
	payload, err := encodeEnvelope(env)
	if err != nil {
		return fmt.Errorf("redis.Inbox.Deliver: %w", err)
	}

	n, err := in.ps.Publish(ctx, SessionChannel(env.SessionID), payload)
	if err != nil {
		return fmt.Errorf("redis.Inbox.Deliver: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("redis.Inbox.Deliver: %s: %w", env.SessionID, messenger.ErrNoSession)
	}
	return nil
}

func encodeEnvelope(env messenger.Envelope) ([]byte, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return b, nil
}

func decodeEnvelope(payload []byte) (messenger.Envelope, error) {
	var env messenger.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return messenger.Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.SessionID == uuid.Nil {
		return messenger.Envelope{}, fmt.Errorf("decode envelope: missing session id")
	}
	return env, nil
}
