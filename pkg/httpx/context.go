package httpx

import "context"

type ctxKey string

// CtxKeyUserID holds the authenticated user's id once a handler has
// resolved the session. The per-user rate limiter reads it.
const CtxKeyUserID ctxKey = "user_id"

// WithUserID returns a context carrying the authenticated user's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

func userIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
