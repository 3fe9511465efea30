package selection

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Default interaction budget of a session.
const (
	SessionTimeout = 60 * time.Second
	MaxEvents      = 20
)

// Sentinel errors returned by Controller.Run.
//
//nolint:gochecknoglobals // sentinel errors
var (
	ErrTimedOut             = errors.New("selection: session timed out")
	ErrEventBudgetExhausted = errors.New("selection: too many interactions")
	ErrTransport            = errors.New("selection: transport failure")
	ErrNoItemSelected       = errors.New("selection: submit without a selected item")
	ErrUnknownComponent     = errors.New("selection: unknown component")
	ErrEmptyCatalog         = errors.New("selection: catalog has no selectable items")
)

// IsExpired reports whether err ended a session by running out of time or
// interactions. Callers show these to the user but do not log them as errors.
func IsExpired(err error) bool {
	return errors.Is(err, ErrTimedOut) || errors.Is(err, ErrEventBudgetExhausted)
}

// State is the controller's position in the session state machine.
type State string

const (
	StateRendering              State = "rendering"
	StateAwaitingEvent          State = "awaiting_event"
	StateProcessingEvent        State = "processing_event"
	StateAwaitingDialogResponse State = "awaiting_dialog_response"
	StateSubmitted              State = "submitted"
	StateTimedOut               State = "timed_out"
	StateFailed                 State = "failed"
)

// Terminal reports whether no further events are processed in s.
func (s State) Terminal() bool {
	switch s {
	case StateSubmitted, StateTimedOut, StateFailed:
		return true
	default:
		return false
	}
}

// Session is the state of one selection run. It is owned by a single
// Controller and never shared.
type Session struct {
	ID             uuid.UUID
	State          State
	SelectedItem   string // empty when no item is selected
	PageOffset     int    // multiple of PageSize, 0 is the first page
	EventsConsumed int
	StartedAt      time.Time

	Resolver Resolver
}

// Target returns the resolved target, or nil.
func (s *Session) Target() Target {
	return s.Resolver.Target()
}

// Result is the snapshot handed to the composer when a session is submitted.
type Result struct {
	SessionID      uuid.UUID
	Item           string
	Target         Target
	EventsConsumed int
}
