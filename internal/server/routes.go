package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/emotebot/internal/api/v1"
	emoteslack "github.com/gosuda/emotebot/internal/messenger/slack"
)

func registerAPIRoutes(api huma.API, store v1.DataStore, cat v1.EmoteCatalog) {
	v1.RegisterEmoteRoutes(api, cat)
	v1.RegisterStatsRoutes(api, store, cat)
	v1.RegisterSettingsRoutes(api, store)
}

func registerSlackRoutes(r chi.Router, handler *emoteslack.Handler) {
	r.Post("/commands", handler.HandleCommands)
	r.Post("/events", handler.HandleEvents)
	r.Post("/interactions", handler.HandleInteractions)
}
