package httpx

import "context"

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

// ContextWithUserID returns a context carrying the authenticated user id.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// UserIDFromContext returns the authenticated user id injected by
// AuthnMiddleware, and whether one is present.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(int64)
	return id, ok
}
