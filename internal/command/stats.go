package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosuda/emotebot/internal/domain"
)

const statsUsage = "/emote-stats [@user] [received] [global]"

// Stats replies with emote usage counts.
type Stats struct {
	deps Deps
}

var _ Command = (*Stats)(nil)

func NewStats(deps Deps) *Stats {
	return &Stats{deps: deps}
}

func (c *Stats) Descriptor() Descriptor {
	return Descriptor{
		Name:        "emote-stats",
		Usage:       statsUsage,
		Description: "Show how many emotes were sent or received",
	}
}

// parseStatsArgs builds the query for args. Without "global" the query is
// scoped to the invoking workspace; "global" requires a user.
func parseStatsArgs(inv Invocation) (domain.StatsQuery, error) {
	q := domain.StatsQuery{WorkspaceID: inv.WorkspaceID}
	global := false

	for _, arg := range inv.Args {
		if id, ok := MentionID(arg); ok {
			q.UserID = id
			continue
		}
		switch strings.ToLower(arg) {
		case "received":
			q.Received = true
		case "global":
			global = true
		case "me":
			q.UserID = inv.UserID
		default:
			return domain.StatsQuery{}, &UsageError{Usage: statsUsage}
		}
	}

	switch {
	case global && q.UserID == "":
		return domain.StatsQuery{}, &UsageError{Usage: statsUsage}
	case global:
		q.WorkspaceID = ""
	case q.WorkspaceID == "" && q.UserID == "":
		return domain.StatsQuery{}, ErrNoWorkspace
	}

	return q, nil
}

func (c *Stats) Handle(ctx context.Context, inv Invocation) error {
	q, err := parseStatsArgs(inv)
	if err != nil {
		return fmt.Errorf("command.Stats.Handle: %w", err)
	}

	settings, err := c.deps.settings(ctx, inv)
	if err != nil {
		return fmt.Errorf("command.Stats.Handle: %w", err)
	}

	count, err := c.deps.EmoteLog.Count(ctx, q)
	if err != nil {
		return fmt.Errorf("command.Stats.Handle: %w", err)
	}

	if err := inv.Responder.Reply(ctx, q.Message(count, settings.Language)); err != nil {
		return fmt.Errorf("command.Stats.Handle: %w", err)
	}
	return nil
}
