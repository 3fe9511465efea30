package slack

import (
	"regexp"
	"strings"
)

// Prefix marks a channel message as a bot command, e.g. "!wave @bob".
const Prefix = "!"

// mentionPattern matches a Slack-encoded mention (<@U12345>) at the start of a message.
var mentionPattern = regexp.MustCompile(`^<@([A-Z0-9]+)>\s*`) //nolint:gochecknoglobals // compiled regexp

// ParseMessage extracts a command word and its arguments from a channel
// message. Messages must start with Prefix, or address the bot by mention,
// in which case the prefix is optional. The word is lowercased and loses its
// prefix.
func ParseMessage(text, botUserID string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	addressed := false
	if m := mentionPattern.FindStringSubmatch(text); m != nil && botUserID != "" && m[1] == botUserID {
		addressed = true
		text = strings.TrimSpace(text[len(m[0]):])
	}

	if !addressed && !strings.HasPrefix(text, Prefix) {
		return "", nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(text, Prefix))
	if len(fields) == 0 {
		return "", nil, false
	}

	return strings.ToLower(fields[0]), fields[1:], true
}
