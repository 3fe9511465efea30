package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

type Language string

const (
	LanguageEn Language = "en"
	LanguageJa Language = "ja"
)

// supportedTags is ordered like the Language constants; index 0 is the default.
var supportedTags = []language.Tag{language.English, language.Japanese} //nolint:gochecknoglobals // language table

var languageMatcher = language.NewMatcher(supportedTags) //nolint:gochecknoglobals // language table

var languageNames = map[string]Language{ //nolint:gochecknoglobals // language table
	"english":  LanguageEn,
	"英語":       LanguageEn,
	"japanese": LanguageJa,
	"日本語":      LanguageJa,
}

// ParseLanguage accepts a BCP-47 tag ("en", "ja-JP", "en-GB") or a language
// name and returns the closest supported Language.
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("empty language: %w", ErrInvalidSetting)
	}
	if l, ok := languageNames[s]; ok {
		return l, nil
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("language %q: %w", s, ErrInvalidSetting)
	}

	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("language %q: %w", s, ErrInvalidSetting)
	}
	base, _ := supportedTags[idx].Base()

	return Language(base.String()), nil
}

// Name returns the language's name written in lang.
func (l Language) Name(lang Language) string {
	switch l {
	case LanguageJa:
		return Localized{En: "Japanese", Ja: "日本語"}.In(lang)
	default:
		return Localized{En: "English", Ja: "英語"}.In(lang)
	}
}

type Gender string

const (
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
)

// ParseGender accepts m/f, male/female, or the Japanese names.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male", "男性":
		return GenderMale, nil
	case "f", "female", "女性":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("gender %q: %w", s, ErrInvalidSetting)
	}
}

// Name returns the gender's name written in lang.
func (g Gender) Name(lang Language) string {
	switch g {
	case GenderFemale:
		return Localized{En: "Female", Ja: "女性"}.In(lang)
	default:
		return Localized{En: "Male", Ja: "男性"}.In(lang)
	}
}

// Localized is a user-facing string in every supported language.
type Localized struct {
	En string
	Ja string
}

// In returns the string for lang, falling back to English.
func (s Localized) In(lang Language) string {
	if lang == LanguageJa && s.Ja != "" {
		return s.Ja
	}
	return s.En
}

// Settings controls how emote messages are composed for a user.
type Settings struct {
	Language Language
	Gender   Gender
}

// DefaultSettings apply when neither the user nor the workspace saved any.
func DefaultSettings() Settings {
	return Settings{Language: LanguageEn, Gender: GenderMale}
}

// UserSettings are settings saved by a single chat user.
type UserSettings struct {
	ExternalID string // platform user id
	Settings
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkspaceSettings are defaults saved for every user of a workspace.
type WorkspaceSettings struct {
	ExternalID string // platform workspace (team/guild) id
	Settings
	// EmoteCommandsDisabled turns off emote command words such as "/wave"
	// and "!wave". "/emote wave" keeps working.
	EmoteCommandsDisabled bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type SettingsRepository interface {
	GetUser(ctx context.Context, externalID string) (*UserSettings, error)
	UpsertUser(ctx context.Context, s *UserSettings) error
	GetWorkspace(ctx context.Context, externalID string) (*WorkspaceSettings, error)
	UpsertWorkspace(ctx context.Context, s *WorkspaceSettings) error
}

// ResolveSettings returns the user's own settings, else the workspace
// defaults, else DefaultSettings. workspaceID may be empty.
func ResolveSettings(ctx context.Context, repo SettingsRepository, userID, workspaceID string) (Settings, error) {
	user, err := repo.GetUser(ctx, userID)
	switch {
	case err == nil:
		return user.Settings, nil
	case !errors.Is(err, ErrNotFound):
		return Settings{}, fmt.Errorf("domain.ResolveSettings: user: %w", err)
	}

	if workspaceID != "" {
		ws, err := repo.GetWorkspace(ctx, workspaceID)
		switch {
		case err == nil:
			return ws.Settings, nil
		case !errors.Is(err, ErrNotFound):
			return Settings{}, fmt.Errorf("domain.ResolveSettings: workspace: %w", err)
		}
	}

	return DefaultSettings(), nil
}

// EmoteCommandsEnabled reports whether emote command words are accepted in
// the workspace. They are on until an admin turns them off, and always on
// outside of a workspace.
func EmoteCommandsEnabled(ctx context.Context, repo SettingsRepository, workspaceID string) (bool, error) {
	if workspaceID == "" {
		return true, nil
	}

	ws, err := repo.GetWorkspace(ctx, workspaceID)
	switch {
	case errors.Is(err, ErrNotFound):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("domain.EmoteCommandsEnabled: %w", err)
	}
	return !ws.EmoteCommandsDisabled, nil
}
