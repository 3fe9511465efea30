package messenger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/emotebot/internal/selection"
)

// InboxBuffer bounds the envelopes queued for one session. A session never
// consumes more than its event budget, so anything beyond it can be dropped.
const InboxBuffer = selection.MaxEvents

// LocalInbox routes envelopes between goroutines of a single process.
type LocalInbox struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]chan Envelope
}

var _ Inbox = (*LocalInbox)(nil)

func NewLocalInbox() *LocalInbox {
	return &LocalInbox{sessions: make(map[uuid.UUID]chan Envelope)}
}

func (in *LocalInbox) Subscribe(_ context.Context, sessionID uuid.UUID) (<-chan Envelope, func(), error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if _, ok := in.sessions[sessionID]; ok {
		return nil, nil, fmt.Errorf("messenger.LocalInbox.Subscribe: session %s already subscribed", sessionID)
	}

	ch := make(chan Envelope, InboxBuffer)
	in.sessions[sessionID] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			in.mu.Lock()
			defer in.mu.Unlock()
			delete(in.sessions, sessionID)
			close(ch)
		})
	}

	return ch, cancel, nil
}

// Deliver never blocks. It returns ErrNoSession when nobody is subscribed and
// ErrInboxFull when the session's buffer is full.
func (in *LocalInbox) Deliver(_ context.Context, env Envelope) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	ch, ok := in.sessions[env.SessionID]
	if !ok {
		return fmt.Errorf("messenger.LocalInbox.Deliver: %s: %w", env.SessionID, ErrNoSession)
	}

	select {
	case ch <- env:
		return nil
	default:
		return fmt.Errorf("messenger.LocalInbox.Deliver: %s: %w", env.SessionID, ErrInboxFull)
	}
}

// Live reports the number of subscribed sessions.
func (in *LocalInbox) Live() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.sessions)
}
