package command_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/emotebot/internal/catalog"
	"github.com/gosuda/emotebot/internal/command"
	"github.com/gosuda/emotebot/internal/compose"
	"github.com/gosuda/emotebot/internal/domain"
	"github.com/gosuda/emotebot/internal/messenger"
	"github.com/gosuda/emotebot/internal/selection"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakePlatform struct {
	mu         sync.Mutex
	posts      []string
	channels   []string
	candidates selection.CandidateList
	candErr    error
	admin      bool
	postErr    error
}

var _ command.Platform = (*fakePlatform)(nil)

func (p *fakePlatform) SendMessage(_ context.Context, channelID, text string) (messenger.MessageID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.postErr != nil {
		return "", p.postErr
	}
	p.posts = append(p.posts, text)
	p.channels = append(p.channels, channelID)
	return messenger.MessageID("1700000000.000100"), nil
}

func (p *fakePlatform) SendEphemeral(context.Context, string, string, string) error { return nil }
func (p *fakePlatform) Platform() string                                            { return "fake" }

func (p *fakePlatform) Candidates(context.Context, string, string) (selection.CandidateList, error) {
	return p.candidates, p.candErr
}

func (p *fakePlatform) IsAdmin(context.Context, string) (bool, error) {
	return p.admin, nil
}

type fakeResponder struct {
	mu        sync.Mutex
	replies   []string
	transport selection.Transport
	promptErr error
	released  bool
}

func (r *fakeResponder) Reply(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, text)
	return nil
}

func (r *fakeResponder) Prompt(context.Context, uuid.UUID) (selection.Transport, func(), error) {
	if r.promptErr != nil {
		return nil, nil, r.promptErr
	}
	return r.transport, func() { r.released = true }, nil
}

type memSettings struct {
	mu         sync.Mutex
	users      map[string]*domain.UserSettings
	workspaces map[string]*domain.WorkspaceSettings
}

func newMemSettings() *memSettings {
	return &memSettings{
		users:      map[string]*domain.UserSettings{},
		workspaces: map[string]*domain.WorkspaceSettings{},
	}
}

func (m *memSettings) GetUser(_ context.Context, id string) (*domain.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.users[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memSettings) UpsertUser(_ context.Context, s *domain.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.users[s.ExternalID] = &cp
	return nil
}

func (m *memSettings) GetWorkspace(_ context.Context, id string) (*domain.WorkspaceSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.workspaces[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memSettings) UpsertWorkspace(_ context.Context, s *domain.WorkspaceSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.workspaces[s.ExternalID] = &cp
	return nil
}

type memLog struct {
	mu      sync.Mutex
	entries []*domain.EmoteLogEntry
	count   int64
	lastQ   domain.StatsQuery
	err     error
}

func (m *memLog) Append(_ context.Context, e *domain.EmoteLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memLog) Count(_ context.Context, q domain.StatsQuery) (int64, error) {
	m.lastQ = q
	return m.count, nil
}

func (m *memLog) Top(context.Context, domain.StatsQuery, int) ([]domain.EmoteCount, error) {
	return nil, nil
}

// scriptedTransport replays events and then reports timeouts.
type scriptedTransport struct {
	events  []selection.Event
	replies []string
	updates []selection.View
}

func (s *scriptedTransport) RenderInitial(context.Context, selection.View) (selection.Handle, error) {
	return "h", nil
}

func (s *scriptedTransport) Update(_ context.Context, _ selection.Handle, v selection.View) error {
	s.updates = append(s.updates, v)
	return nil
}

func (s *scriptedTransport) OpenDialog(context.Context, selection.Handle, selection.Dialog) error {
	return nil
}

func (s *scriptedTransport) AwaitEvent(context.Context, selection.Handle, time.Duration) (selection.Event, bool, error) {
	if len(s.events) == 0 {
		return selection.Event{}, false, nil
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, true, nil
}

func (s *scriptedTransport) AwaitDialogResponse(context.Context, selection.Handle, time.Duration) (string, bool, error) {
	if len(s.replies) == 0 {
		return "", false, nil
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, true, nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	deps     command.Deps
	platform *fakePlatform
	settings *memSettings
	log      *memLog
	registry *command.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat, err := catalog.Default()
	require.NoError(t, err)

	f := &fixture{
		platform: &fakePlatform{candidates: selection.CandidateList{{ID: "U42", DisplayName: "bob"}}},
		settings: newMemSettings(),
		log:      &memLog{},
	}
	f.deps = command.Deps{
		Catalog:  cat,
		Composer: compose.NewComposer(compose.NewTemplateEngine()),
		Settings: f.settings,
		EmoteLog: f.log,
		Platform: f.platform,
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return fixedNow },
	}

	f.registry, err = command.Build(f.deps)
	require.NoError(t, err)

	return f
}

func (f *fixture) invoke(name string, args ...string) (*fakeResponder, command.Invocation) {
	r := &fakeResponder{}
	return r, command.Invocation{
		Name:        name,
		Args:        args,
		UserID:      "U1",
		WorkspaceID: "T1",
		ChannelID:   "C1",
		Responder:   r,
	}
}

var errBoom = errors.New("boom") //nolint:gochecknoglobals // test fixture
