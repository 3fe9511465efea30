package selection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handle identifies a posted prompt for later updates.
type Handle string

// Transport is the platform side of a session. A Transport instance serves
// exactly one session and is only called from the session's goroutine.
type Transport interface {
	// RenderInitial posts the first interactive prompt.
	RenderInitial(ctx context.Context, v View) (Handle, error)

	// Update replaces the prompt's content in place.
	Update(ctx context.Context, h Handle, v View) error

	// OpenDialog presents the secondary input surface tied to the prompt.
	OpenDialog(ctx context.Context, h Handle, d Dialog) error

	// AwaitEvent blocks for the next interaction. It reports false when
	// timeout elapses first.
	AwaitEvent(ctx context.Context, h Handle, timeout time.Duration) (Event, bool, error)

	// AwaitDialogResponse blocks for the dialog's single text response. It
	// reports false when timeout elapses first.
	AwaitDialogResponse(ctx context.Context, h Handle, timeout time.Duration) (string, bool, error)
}

// Controller drives one selection session.
type Controller struct {
	transport  Transport
	catalog    []string
	known      map[string]struct{}
	candidates CandidateList

	prompt    string
	timeout   time.Duration
	maxEvents int
	now       func() time.Time
	logger    zerolog.Logger

	session Session
}

// Option configures optional Controller parameters.
type Option func(*Controller)

// WithTimeout sets the wall-clock budget of the session.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithMaxEvents sets the number of interactions the session accepts.
func WithMaxEvents(n int) Option {
	return func(c *Controller) {
		c.maxEvents = n
	}
}

// WithPrompt overrides DefaultPrompt.
func WithPrompt(prompt string) Option {
	return func(c *Controller) {
		c.prompt = prompt
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the parent logger; the session id is added to it.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithSessionID fixes the session id instead of generating one.
func WithSessionID(id uuid.UUID) Option {
	return func(c *Controller) {
		c.session.ID = id
	}
}

// NewController creates a Controller over an ordered catalog and the
// candidates valid for the session's context.
func NewController(t Transport, catalog []string, candidates CandidateList, opts ...Option) *Controller {
	known := make(map[string]struct{}, len(catalog))
	for _, id := range catalog {
		known[id] = struct{}{}
	}

	c := &Controller{
		transport:  t,
		catalog:    catalog,
		known:      known,
		candidates: candidates,
		prompt:     DefaultPrompt,
		timeout:    SessionTimeout,
		maxEvents:  MaxEvents,
		now:        time.Now,
		logger:     zerolog.Nop(),
		session:    Session{ID: uuid.New()},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("session_id", c.session.ID.String()).Logger()

	return c
}

// SessionID returns the id of the controlled session.
func (c *Controller) SessionID() uuid.UUID {
	return c.session.ID
}

// State returns the current state of the session.
func (c *Controller) State() State {
	return c.session.State
}

// Run renders the prompt and processes events until the session is submitted,
// expires, or the transport fails. Expiry is reported as ErrTimedOut or
// ErrEventBudgetExhausted; transport failures wrap ErrTransport.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	if len(c.catalog) == 0 {
		c.session.State = StateFailed
		return Result{}, fmt.Errorf("selection.Controller.Run: %w", ErrEmptyCatalog)
	}

	s := &c.session
	s.State = StateRendering
	s.StartedAt = c.now()

	h, err := c.transport.RenderInitial(ctx, c.render())
	if err != nil {
		return Result{}, c.fail("render initial", err)
	}
	s.State = StateAwaitingEvent
	c.logger.Debug().Int("catalog", len(c.catalog)).Int("candidates", len(c.candidates)).Msg("prompt rendered")

	for {
		if s.EventsConsumed >= c.maxEvents {
			return Result{}, c.expire(ErrEventBudgetExhausted)
		}
		remaining := c.remaining()
		if remaining <= 0 {
			return Result{}, c.expire(ErrTimedOut)
		}

		ev, ok, err := c.transport.AwaitEvent(ctx, h, remaining)
		if err != nil {
			return Result{}, c.fail("await event", err)
		}
		if !ok {
			return Result{}, c.expire(ErrTimedOut)
		}

		s.EventsConsumed++
		s.State = StateProcessingEvent
		c.logger.Debug().Stringer("event", ev.Kind).Str("value", ev.Value).Int("events", s.EventsConsumed).Msg("event received")

		switch ev.Kind {
		case EventItemSelected:
			c.selectItem(ev.Value)
		case EventPagePrev:
			s.PageOffset = PagePrev(s.PageOffset)
		case EventPageNext:
			s.PageOffset = PageNext(s.PageOffset, len(c.catalog))
		case EventTargetMemberSelected:
			if !s.Resolver.SelectMember(c.candidates, ev.Value) {
				c.logger.Warn().Str("member_id", ev.Value).Msg("selected member is not a candidate")
			}
		case EventTargetTextSubmitted:
			s.Resolver.SetFreeText(ev.Value)
		case EventOpenTargetInputDialog:
			if err := c.resolveFreeText(ctx, h); err != nil {
				return Result{}, err
			}
			// The dialog branch renders its own response.
			s.State = StateAwaitingEvent
			continue
		case EventSubmit:
			if s.SelectedItem != "" {
				return c.submit(ctx, h)
			}
			c.logger.Debug().Err(ErrNoItemSelected).Msg("submit ignored")
		default:
			c.logger.Warn().Err(ErrUnknownComponent).Str("component_id", ev.Raw).Msg("unexpected component id")
		}

		if err := c.transport.Update(ctx, h, c.render()); err != nil {
			return Result{}, c.fail("update", err)
		}
		s.State = StateAwaitingEvent
	}
}

func (c *Controller) selectItem(id string) {
	if _, ok := c.known[id]; !ok {
		c.logger.Warn().Str("item", id).Msg("selected item is not in the catalog")
		return
	}
	c.session.SelectedItem = id
}

// resolveFreeText opens the target dialog and waits for its response within
// the remaining session budget. A dialog that expires leaves the target
// unchanged and returns control to the event loop.
func (c *Controller) resolveFreeText(ctx context.Context, h Handle) error {
	s := &c.session
	s.State = StateAwaitingDialogResponse

	if err := c.transport.OpenDialog(ctx, h, TargetDialog()); err != nil {
		return c.fail("open dialog", err)
	}

	text, ok, err := c.transport.AwaitDialogResponse(ctx, h, max(c.remaining(), 0))
	if err != nil {
		return c.fail("await dialog response", err)
	}
	if !ok {
		c.logger.Debug().Msg("target dialog expired without a response")
		return nil
	}
	if !s.Resolver.SetFreeText(text) {
		c.logger.Debug().Msg("blank target input ignored")
	}

	if err := c.transport.Update(ctx, h, c.render()); err != nil {
		return c.fail("update after dialog", err)
	}

	return nil
}

func (c *Controller) submit(ctx context.Context, h Handle) (Result, error) {
	s := &c.session
	res := Result{
		SessionID:      s.ID,
		Item:           s.SelectedItem,
		Target:         s.Target(),
		EventsConsumed: s.EventsConsumed,
	}
	s.State = StateSubmitted

	if err := c.transport.Update(ctx, h, RenderConfirmation(res)); err != nil {
		return Result{}, c.fail("render confirmation", err)
	}
	c.logger.Debug().Str("item", res.Item).Str("target", DisplayText(res.Target)).Msg("session submitted")

	return res, nil
}

func (c *Controller) render() View {
	return Render(c.prompt, &c.session, c.catalog, c.candidates)
}

func (c *Controller) remaining() time.Duration {
	return c.timeout - c.now().Sub(c.session.StartedAt)
}

func (c *Controller) expire(reason error) error {
	c.session.State = StateTimedOut
	c.logger.Debug().Err(reason).Int("events", c.session.EventsConsumed).Msg("session expired")
	return fmt.Errorf("selection.Controller.Run: %w", reason)
}

func (c *Controller) fail(step string, err error) error {
	c.session.State = StateFailed
	return fmt.Errorf("selection.Controller.Run: %s: %w: %w", step, ErrTransport, err)
}
