package slack

import (
	"strings"

	"github.com/gosuda/emotebot/internal/catalog"
	"github.com/gosuda/emotebot/internal/command"
)

// maxSlashCommands is Slack's limit per app.
const maxSlashCommands = 50

// Manifest is the subset of a Slack app manifest the bot depends on.
type Manifest struct {
	DisplayInformation DisplayInformation `yaml:"display_information"`
	Features           Features           `yaml:"features"`
	OAuthConfig        OAuthConfig        `yaml:"oauth_config"`
	Settings           AppSettings        `yaml:"settings"`
}

type DisplayInformation struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

type Features struct {
	BotUser       BotUser        `yaml:"bot_user"`
	SlashCommands []SlashCommand `yaml:"slash_commands"`
}

type BotUser struct {
	DisplayName  string `yaml:"display_name"`
	AlwaysOnline bool   `yaml:"always_online"`
}

type SlashCommand struct {
	Command      string `yaml:"command"`
	URL          string `yaml:"url"`
	Description  string `yaml:"description"`
	UsageHint    string `yaml:"usage_hint,omitempty"`
	ShouldEscape bool   `yaml:"should_escape"`
}

type OAuthConfig struct {
	Scopes Scopes `yaml:"scopes"`
}

type Scopes struct {
	Bot []string `yaml:"bot"`
}

type AppSettings struct {
	EventSubscriptions EventSubscriptions `yaml:"event_subscriptions"`
	Interactivity      Interactivity      `yaml:"interactivity"`
}

type EventSubscriptions struct {
	RequestURL string   `yaml:"request_url"`
	BotEvents  []string `yaml:"bot_events"`
}

type Interactivity struct {
	IsEnabled  bool   `yaml:"is_enabled"`
	RequestURL string `yaml:"request_url"`
}

// BuildManifest describes the app served at baseURL. Every registered
// command becomes a slash command; emote commands follow while Slack's limit
// allows. Mentions must stay unescaped so targets arrive as <@U…> ids.
func BuildManifest(name, baseURL string, descriptors []command.Descriptor, emotes []*catalog.Emote) Manifest {
	baseURL = strings.TrimRight(baseURL, "/")
	commandsURL := baseURL + "/slack/commands"

	cmds := make([]SlashCommand, 0, len(descriptors)+len(emotes))
	seen := make(map[string]bool)
	add := func(c SlashCommand) {
		if len(cmds) >= maxSlashCommands || seen[c.Command] {
			return
		}
		seen[c.Command] = true
		cmds = append(cmds, c)
	}

	for _, d := range descriptors {
		add(SlashCommand{
			Command:     "/" + d.Name,
			URL:         commandsURL,
			Description: d.Description,
			UsageHint:   usageHint(d.Usage),
		})
	}
	for _, e := range emotes {
		add(SlashCommand{
			Command:     e.Command(),
			URL:         commandsURL,
			Description: "Send the " + e.Name + " emote",
			UsageHint:   "[@user or text]",
		})
	}

	return Manifest{
		DisplayInformation: DisplayInformation{Name: name, Description: "Emotes for your workspace"},
		Features: Features{
			BotUser:       BotUser{DisplayName: name, AlwaysOnline: true},
			SlashCommands: cmds,
		},
		OAuthConfig: OAuthConfig{Scopes: Scopes{Bot: []string{
			"channels:history",
			"channels:read",
			"chat:write",
			"commands",
			"groups:history",
			"groups:read",
			"im:history",
			"mpim:read",
			"users:read",
		}}},
		Settings: AppSettings{
			EventSubscriptions: EventSubscriptions{
				RequestURL: baseURL + "/slack/events",
				BotEvents:  []string{"message.channels", "message.groups", "message.im"},
			},
			Interactivity: Interactivity{IsEnabled: true, RequestURL: baseURL + "/slack/interactions"},
		},
	}
}

// usageHint drops the command name from a usage line: "/emote <emote>"
// becomes "<emote>".
func usageHint(usage string) string {
	_, hint, _ := strings.Cut(usage, " ")
	return hint
}
