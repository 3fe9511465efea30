package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/emotebot/internal/domain"
)

//nolint:gochecknoglobals // localized text
var (
	settingsSaved  = domain.Localized{En: "Settings saved!", Ja: "設定を保存しました！"}
	userSettings   = domain.Localized{En: "Your emote settings", Ja: "個人エモート設定"}
	serverSettings = domain.Localized{En: "Workspace emote settings", Ja: "サーバーエモート設定"}
	languageLabel  = domain.Localized{En: "Language", Ja: "言語"}
	genderLabel    = domain.Localized{En: "Gender", Ja: "性別"}
)

const settingsUsage = "/emote-settings [server] [language en|ja] [gender m|f]"

// Settings shows or changes the language and gender used for emote
// messages, for the user or (with "server") for the whole workspace.
type Settings struct {
	deps Deps
}

var _ Command = (*Settings)(nil)

func NewSettings(deps Deps) *Settings {
	return &Settings{deps: deps}
}

func (c *Settings) Descriptor() Descriptor {
	return Descriptor{
		Name:        "emote-settings",
		Usage:       settingsUsage,
		Description: "Show or change emote message settings",
	}
}

type settingsChange struct {
	server   bool
	language domain.Language
	gender   domain.Gender
}

func (s settingsChange) empty() bool {
	return s.language == "" && s.gender == ""
}

func (s settingsChange) apply(to domain.Settings) domain.Settings {
	if s.language != "" {
		to.Language = s.language
	}
	if s.gender != "" {
		to.Gender = s.gender
	}
	return to
}

func parseSettingsArgs(args []string) (settingsChange, error) {
	var (
		ch  settingsChange
		err error
	)

	for i := 0; i < len(args); i++ {
		word := strings.ToLower(args[i])
		switch word {
		case "server", "workspace":
			ch.server = true
			continue
		case "language", "lang", "gender":
		default:
			return settingsChange{}, &UsageError{Usage: settingsUsage}
		}

		if i+1 >= len(args) {
			return settingsChange{}, &UsageError{Usage: settingsUsage}
		}
		i++
		if word == "gender" {
			ch.gender, err = domain.ParseGender(args[i])
		} else {
			ch.language, err = domain.ParseLanguage(args[i])
		}
		if err != nil {
			return settingsChange{}, err
		}
	}

	return ch, nil
}

func (c *Settings) Handle(ctx context.Context, inv Invocation) error {
	ch, err := parseSettingsArgs(inv.Args)
	if err != nil {
		return fmt.Errorf("command.Settings.Handle: %w", err)
	}

	var (
		result domain.Settings
		title  domain.Localized
	)
	if ch.server {
		result, err = c.workspace(ctx, inv, ch)
		title = serverSettings
	} else {
		result, err = c.user(ctx, inv, ch)
		title = userSettings
	}
	if err != nil {
		return fmt.Errorf("command.Settings.Handle: %w", err)
	}

	lang := result.Language
	msg := fmt.Sprintf("%s: %s %s, %s %s",
		title.In(lang),
		languageLabel.In(lang), result.Language.Name(lang),
		genderLabel.In(lang), result.Gender.Name(lang))
	if !ch.empty() {
		msg = settingsSaved.In(lang) + " " + msg
	}

	if err := inv.Responder.Reply(ctx, msg); err != nil {
		return fmt.Errorf("command.Settings.Handle: %w", err)
	}
	return nil
}

func (c *Settings) user(ctx context.Context, inv Invocation, ch settingsChange) (domain.Settings, error) {
	repo := c.deps.Settings

	existing, err := repo.GetUser(ctx, inv.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resolved, resolveErr := c.deps.settings(ctx, inv)
		if resolveErr != nil {
			return domain.Settings{}, resolveErr
		}
		if ch.empty() {
			return resolved, nil
		}
		now := c.deps.now()
		existing = &domain.UserSettings{ExternalID: inv.UserID, Settings: resolved, CreatedAt: now}
	case err != nil:
		return domain.Settings{}, err
	case ch.empty():
		return existing.Settings, nil
	}

	existing.Settings = ch.apply(existing.Settings)
	existing.UpdatedAt = c.deps.now()
	if err := repo.UpsertUser(ctx, existing); err != nil {
		return domain.Settings{}, err
	}
	return existing.Settings, nil
}

func (c *Settings) workspace(ctx context.Context, inv Invocation, ch settingsChange) (domain.Settings, error) {
	if inv.WorkspaceID == "" {
		return domain.Settings{}, ErrNoWorkspace
	}
	repo := c.deps.Settings

	existing, err := repo.GetWorkspace(ctx, inv.WorkspaceID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		existing = &domain.WorkspaceSettings{
			ExternalID: inv.WorkspaceID,
			Settings:   domain.DefaultSettings(),
			CreatedAt:  c.deps.now(),
		}
	case err != nil:
		return domain.Settings{}, err
	}
	if ch.empty() {
		return existing.Settings, nil
	}

	admin, err := c.deps.Platform.IsAdmin(ctx, inv.UserID)
	if err != nil {
		return domain.Settings{}, err
	}
	if !admin {
		return domain.Settings{}, domain.ErrForbidden
	}

	existing.Settings = ch.apply(existing.Settings)
	existing.UpdatedAt = c.deps.now()
	if err := repo.UpsertWorkspace(ctx, existing); err != nil {
		return domain.Settings{}, err
	}
	return existing.Settings, nil
}
