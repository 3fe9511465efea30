package middleware

import "context"

type contextKey string

const ContextKeyWorkspaceID contextKey = "workspace_id"

func WorkspaceIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyWorkspaceID).(string)
	return v, ok && v != ""
}
