package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EmoteLogEntry records one emote message sent through the bot.
type EmoteLogEntry struct {
	ID          uuid.UUID
	UserID      string // sender
	WorkspaceID string // empty for direct messages
	EmoteID     int
	TargetIDs   []string // member targets only; free text targets are not recorded
	CreatedAt   time.Time
}

// StatsQuery selects which log entries to count. With Received set, UserID is
// matched against targets instead of senders.
type StatsQuery struct {
	WorkspaceID string
	UserID      string
	Received    bool
}

// Message describes count for the query in lang.
func (q StatsQuery) Message(count int64, lang Language) string {
	mention := "<@" + q.UserID + ">"

	switch {
	case q.Received && q.UserID != "" && q.WorkspaceID != "":
		return fmt.Sprintf(Localized{
			En: "There have been %[1]d emotes received by %[2]s thus far in this workspace!",
			Ja: "今までこのワークスペースで%[2]sが%[1]d件のエモートを受信しています！",
		}.In(lang), count, mention)
	case q.Received && q.UserID != "":
		return fmt.Sprintf(Localized{
			En: "There have been %[1]d emotes received by %[2]s thus far!",
			Ja: "今まで%[2]sが%[1]d件のエモートを受信しています！",
		}.In(lang), count, mention)
	case q.Received:
		return fmt.Sprintf(Localized{
			En: "There have been %d emotes received thus far in this workspace!",
			Ja: "今までこのワークスペースで%d件のエモートが受信されています！",
		}.In(lang), count)
	case q.UserID != "" && q.WorkspaceID != "":
		return fmt.Sprintf(Localized{
			En: "There have been %[1]d emotes sent by %[2]s thus far in this workspace!",
			Ja: "今までこのワークスペースで%[2]sが%[1]d件のエモートを送信しています！",
		}.In(lang), count, mention)
	case q.UserID != "":
		return fmt.Sprintf(Localized{
			En: "There have been %[1]d emotes sent by %[2]s thus far!",
			Ja: "今まで%[2]sが%[1]d件のエモートを送信しています！",
		}.In(lang), count, mention)
	default:
		return fmt.Sprintf(Localized{
			En: "There have been %d emotes sent thus far in this workspace!",
			Ja: "今までこのワークスペースで%d件のエモートが送信されています！",
		}.In(lang), count)
	}
}

// EmoteCount is how often one emote matched a StatsQuery.
type EmoteCount struct {
	EmoteID int
	Count   int64
}

type EmoteLogRepository interface {
	Append(ctx context.Context, e *EmoteLogEntry) error
	Count(ctx context.Context, q StatsQuery) (int64, error)
	// Top returns the most used emotes for q, most used first.
	Top(ctx context.Context, q StatsQuery, limit int) ([]EmoteCount, error)
}
