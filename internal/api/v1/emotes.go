package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/emotebot/internal/catalog"
	"github.com/gosuda/emotebot/internal/domain"
)

type EmoteResponse struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Commands   []string `json:"commands"`
	Targeted   string   `json:"targeted"`
	Untargeted string   `json:"untargeted"`
}

type ListEmotesInput struct {
	Lang string `query:"lang" default:"en" enum:"en,ja" doc:"Template language"`
}

type ListEmotesOutput struct {
	Body []EmoteResponse
}

type GetEmoteInput struct {
	ID   int    `path:"id" doc:"Emote ID"`
	Lang string `query:"lang" default:"en" enum:"en,ja" doc:"Template language"`
}

type GetEmoteOutput struct {
	Body EmoteResponse
}

func RegisterEmoteRoutes(api huma.API, cat EmoteCatalog) {
	huma.Register(api, huma.Operation{
		OperationID: "list-emotes",
		Method:      http.MethodGet,
		Path:        "/emotes",
		Summary:     "List emotes",
		Tags:        []string{"Emotes"},
	}, func(_ context.Context, input *ListEmotesInput) (*ListEmotesOutput, error) {
		emotes := cat.Emotes()
		out := make([]EmoteResponse, 0, len(emotes))
		for _, e := range emotes {
			out = append(out, emoteResponse(e, domain.Language(input.Lang)))
		}
		return &ListEmotesOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-emote",
		Method:      http.MethodGet,
		Path:        "/emotes/{id}",
		Summary:     "Get an emote by ID",
		Tags:        []string{"Emotes"},
	}, func(_ context.Context, input *GetEmoteInput) (*GetEmoteOutput, error) {
		for _, e := range cat.Emotes() {
			if e.ID == input.ID {
				return &GetEmoteOutput{Body: emoteResponse(e, domain.Language(input.Lang))}, nil
			}
		}
		return nil, huma.Error404NotFound("emote not found")
	})
}

func emoteResponse(e *catalog.Emote, lang domain.Language) EmoteResponse {
	tpl := e.Messages[lang]
	return EmoteResponse{
		ID:         e.ID,
		Name:       e.Name,
		Commands:   e.Commands,
		Targeted:   tpl.Targeted,
		Untargeted: tpl.Untargeted,
	}
}
