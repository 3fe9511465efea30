package v1

import (
	"github.com/gosuda/emotebot/internal/catalog"
	"github.com/gosuda/emotebot/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Settings() domain.SettingsRepository
	EmoteLog() domain.EmoteLogRepository
}

// EmoteCatalog abstracts the loaded emote set for handler testing.
// *catalog.Catalog satisfies this interface.
type EmoteCatalog interface {
	Emotes() []*catalog.Emote
}
