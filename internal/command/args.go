package command

import (
	"regexp"
	"strings"

	"github.com/gosuda/emotebot/internal/selection"
)

// mentionPattern matches a user mention as chat platforms encode it:
// <@U123> or <@U123|name>.
var mentionPattern = regexp.MustCompile(`^<@([A-Z0-9]+)(?:\|[^>]*)?>$`) //nolint:gochecknoglobals // compiled regexp

// MentionID returns the user id of a mention token.
func MentionID(token string) (string, bool) {
	m := mentionPattern.FindStringSubmatch(token)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseTarget turns the words after an emote into its target. A single
// mention is a member, anything else is free text, and no words is no target.
func ParseTarget(words []string) selection.Target {
	text := strings.TrimSpace(strings.Join(words, " "))
	if text == "" {
		return nil
	}
	if id, ok := MentionID(text); ok {
		return selection.Member{ID: id}
	}
	return selection.FreeText(text)
}
