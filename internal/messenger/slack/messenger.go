package slack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/emotebot/internal/messenger"
	"github.com/gosuda/emotebot/internal/selection"
)

// SlackAPI abstracts the subset of the Slack client used by this package.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slacklib.MsgOption) (string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slacklib.MsgOption) (string, error)
	OpenViewContext(ctx context.Context, triggerID string, view slacklib.ModalViewRequest) (*slacklib.ViewResponse, error)
	GetUsersInConversationContext(ctx context.Context, params *slacklib.GetUsersInConversationParameters) ([]string, string, error)
	GetUsersInfoContext(ctx context.Context, users ...string) (*[]slacklib.User, error)
	GetUserInfoContext(ctx context.Context, user string) (*slacklib.User, error)
	AuthTestContext(ctx context.Context) (*slacklib.AuthTestResponse, error)
}

// usersInfoBatch bounds the ids passed to one users.info call.
const usersInfoBatch = 30

// SlackMessenger implements messenger.Messenger and command.Platform for Slack.
type SlackMessenger struct {
	api SlackAPI

	botOnce sync.Once
	botID   string
	botErr  error
}

// Compile-time interface check.
var _ messenger.Messenger = (*SlackMessenger)(nil) //nolint:gochecknoglobals // compile-time check

// NewSlackMessenger creates a SlackMessenger with the given API client.
func NewSlackMessenger(api SlackAPI) *SlackMessenger {
	return &SlackMessenger{api: api}
}

// SendMessage posts a text message to a Slack channel and returns the message timestamp as MessageID.
func (m *SlackMessenger) SendMessage(ctx context.Context, channelID, text string) (messenger.MessageID, error) {
	_, ts, err := m.api.PostMessageContext(ctx, channelID, slacklib.MsgOptionText(text, false))
	if err != nil {
		return "", fmt.Errorf("slack.SlackMessenger.SendMessage: %w", err)
	}

	return messenger.MessageID(ts), nil
}

// SendEphemeral posts a message only userID can see.
func (m *SlackMessenger) SendEphemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := m.api.PostEphemeralContext(ctx, channelID, userID, slacklib.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("slack.SlackMessenger.SendEphemeral: %w", err)
	}

	return nil
}

// Platform returns the messenger platform identifier.
func (m *SlackMessenger) Platform() string {
	return "slack"
}

// OpenModal opens a modal view for an interaction's trigger id.
func (m *SlackMessenger) OpenModal(ctx context.Context, triggerID string, view slacklib.ModalViewRequest) error {
	if _, err := m.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return fmt.Errorf("slack.SlackMessenger.OpenModal: %w", err)
	}
	return nil
}

// BotUserID returns the bot's own user id. The first successful lookup is
// cached.
func (m *SlackMessenger) BotUserID(ctx context.Context) (string, error) {
	m.botOnce.Do(func() {
		resp, err := m.api.AuthTestContext(ctx)
		if err != nil {
			m.botErr = fmt.Errorf("slack.SlackMessenger.BotUserID: %w", err)
			return
		}
		m.botID = resp.UserID
	})
	return m.botID, m.botErr
}

// Candidates lists the human members of channelID. Direct message channels,
// and channels the bot cannot see into, fall back to the invoking user and
// the bot.
func (m *SlackMessenger) Candidates(ctx context.Context, channelID, userID string) (selection.CandidateList, error) {
	if isDirectChannel(channelID) {
		return m.twoParty(ctx, userID)
	}

	ids, err := m.members(ctx, channelID)
	if isNoGroupContext(err) {
		return m.twoParty(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("slack.SlackMessenger.Candidates: %w", err)
	}

	users, err := m.usersInfo(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("slack.SlackMessenger.Candidates: %w", err)
	}

	out := make(selection.CandidateList, 0, len(users))
	for _, u := range users {
		if u.Deleted || u.IsBot || u.ID == "USLACKBOT" {
			continue
		}
		out = append(out, selection.Candidate{ID: u.ID, DisplayName: displayName(u)})
	}
	return out, nil
}

// IsAdmin reports whether userID is a workspace admin or owner.
func (m *SlackMessenger) IsAdmin(ctx context.Context, userID string) (bool, error) {
	u, err := m.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("slack.SlackMessenger.IsAdmin: %w", err)
	}
	return u.IsAdmin || u.IsOwner || u.IsPrimaryOwner, nil
}

func (m *SlackMessenger) twoParty(ctx context.Context, userID string) (selection.CandidateList, error) {
	botID, err := m.BotUserID(ctx)
	if err != nil {
		return nil, err
	}

	users, err := m.usersInfo(ctx, []string{userID, botID})
	if err != nil {
		return nil, fmt.Errorf("slack.SlackMessenger.twoParty: %w", err)
	}

	out := make(selection.CandidateList, 0, len(users))
	for _, u := range users {
		out = append(out, selection.Candidate{ID: u.ID, DisplayName: displayName(u)})
	}
	return out, nil
}

func (m *SlackMessenger) members(ctx context.Context, channelID string) ([]string, error) {
	var (
		ids    []string
		cursor string
	)
	for {
		page, next, err := m.api.GetUsersInConversationContext(ctx, &slacklib.GetUsersInConversationParameters{
			ChannelID: channelID,
			Cursor:    cursor,
			Limit:     200,
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)
		if next == "" {
			return ids, nil
		}
		cursor = next
	}
}

func (m *SlackMessenger) usersInfo(ctx context.Context, ids []string) ([]slacklib.User, error) {
	var out []slacklib.User
	for start := 0; start < len(ids); start += usersInfoBatch {
		batch := ids[start:min(start+usersInfoBatch, len(ids))]
		users, err := m.api.GetUsersInfoContext(ctx, batch...)
		if err != nil {
			return nil, err
		}
		if users != nil {
			out = append(out, *users...)
		}
	}
	return out, nil
}

func displayName(u slacklib.User) string {
	switch {
	case u.Profile.DisplayName != "":
		return u.Profile.DisplayName
	case u.RealName != "":
		return u.RealName
	default:
		return u.Name
	}
}

// isDirectChannel reports whether channelID is a one-to-one conversation.
func isDirectChannel(channelID string) bool {
	return strings.HasPrefix(channelID, "D")
}

// isNoGroupContext reports Slack errors meaning the channel's membership
// cannot be listed.
func isNoGroupContext(err error) bool {
	var slackErr slacklib.SlackErrorResponse
	if !errors.As(err, &slackErr) {
		return false
	}
	switch slackErr.Err {
	case "channel_not_found", "not_in_channel", "method_not_supported_for_channel_type":
		return true
	default:
		return false
	}
}
