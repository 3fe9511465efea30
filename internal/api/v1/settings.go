package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/emotebot/internal/domain"
)

type GetSettingsInput struct {
	User      string `query:"user" required:"true" doc:"User ID"`
	Workspace string `query:"workspace" doc:"Workspace ID"`
}

type SettingsResponse struct {
	Language string `json:"language"`
	Gender   string `json:"gender"`
}

type GetSettingsOutput struct {
	Body SettingsResponse
}

func RegisterSettingsRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/settings",
		Summary:     "Get the effective emote settings of a user",
		Tags:        []string{"Settings"},
	}, func(ctx context.Context, input *GetSettingsInput) (*GetSettingsOutput, error) {
		s, err := domain.ResolveSettings(ctx, store.Settings(), input.User, input.Workspace)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to resolve settings", err)
		}

		return &GetSettingsOutput{Body: SettingsResponse{
			Language: string(s.Language),
			Gender:   string(s.Gender),
		}}, nil
	})
}
