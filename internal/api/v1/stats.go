package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/emotebot/internal/domain"
)

type StatsInput struct {
	Workspace string `query:"workspace" doc:"Workspace ID; empty counts every workspace"`
	User      string `query:"user" doc:"User ID"`
	Received  bool   `query:"received" doc:"Count emotes received by user instead of sent"`
	Lang      string `query:"lang" default:"en" enum:"en,ja" doc:"Message language"`
}

type StatsResponse struct {
	Count   int64  `json:"count"`
	Message string `json:"message"`
}

type StatsOutput struct {
	Body StatsResponse
}

type TopEmotesInput struct {
	Workspace string `query:"workspace" doc:"Workspace ID; empty counts every workspace"`
	User      string `query:"user" doc:"User ID"`
	Received  bool   `query:"received" doc:"Count emotes received by user instead of sent"`
	Limit     int    `query:"limit" default:"10" minimum:"1" maximum:"100" doc:"Maximum number of emotes"`
}

type TopEmote struct {
	EmoteID int    `json:"emote_id"`
	Name    string `json:"name,omitempty"`
	Count   int64  `json:"count"`
}

type TopEmotesOutput struct {
	Body []TopEmote
}

func RegisterStatsRoutes(api huma.API, store DataStore, cat EmoteCatalog) {
	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Count sent or received emotes",
		Tags:        []string{"Stats"},
	}, func(ctx context.Context, input *StatsInput) (*StatsOutput, error) {
		q, err := statsQuery(input.Workspace, input.User, input.Received)
		if err != nil {
			return nil, err
		}

		count, err := store.EmoteLog().Count(ctx, q)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count emotes", err)
		}

		return &StatsOutput{Body: StatsResponse{
			Count:   count,
			Message: q.Message(count, domain.Language(input.Lang)),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-top-emotes",
		Method:      http.MethodGet,
		Path:        "/stats/top",
		Summary:     "List the most used emotes",
		Tags:        []string{"Stats"},
	}, func(ctx context.Context, input *TopEmotesInput) (*TopEmotesOutput, error) {
		q, err := statsQuery(input.Workspace, input.User, input.Received)
		if err != nil {
			return nil, err
		}

		counts, err := store.EmoteLog().Top(ctx, q, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to rank emotes", err)
		}

		names := make(map[int]string)
		for _, e := range cat.Emotes() {
			names[e.ID] = e.Name
		}

		out := make([]TopEmote, 0, len(counts))
		for _, c := range counts {
			out = append(out, TopEmote{EmoteID: c.EmoteID, Name: names[c.EmoteID], Count: c.Count})
		}
		return &TopEmotesOutput{Body: out}, nil
	})
}

func statsQuery(workspace, user string, received bool) (domain.StatsQuery, error) {
	if received && user == "" && workspace == "" {
		return domain.StatsQuery{}, huma.Error422UnprocessableEntity("received requires user or workspace")
	}
	return domain.StatsQuery{WorkspaceID: workspace, UserID: user, Received: received}, nil
}
