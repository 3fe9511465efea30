package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxWebhookBody bounds the Slack webhook bodies buffered for inspection.
const maxWebhookBody = 1 << 20

// SlackWorkspace stores the Slack team id of a webhook in the request
// context. The body is restored for the signature check downstream.
func SlackWorkspace() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
			if err != nil {
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			if len(body) > maxWebhookBody {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			if teamID := teamIDFromBody(r.Header.Get("Content-Type"), body); teamID != "" {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyWorkspaceID, teamID))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// teamIDFromBody finds the team id in a slash command form, an interaction
// payload, or an Events API envelope.
func teamIDFromBody(contentType string, body []byte) string {
	if strings.HasPrefix(contentType, "application/json") {
		var envelope struct {
			TeamID string `json:"team_id"`
		}
		if json.Unmarshal(body, &envelope) != nil {
			return ""
		}
		return envelope.TeamID
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return ""
	}
	if teamID := values.Get("team_id"); teamID != "" {
		return teamID
	}

	var payload struct {
		Team struct {
			ID string `json:"id"`
		} `json:"team"`
	}
	if json.Unmarshal([]byte(values.Get("payload")), &payload) != nil {
		return ""
	}
	return payload.Team.ID
}
