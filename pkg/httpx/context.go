package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id" // internal user ULID
	CtxKeyEmail  ctxKey = "email"   // subject claim
	CtxKeyAdmin  ctxKey = "admin"
)

// UserIDFromCtx returns the authenticated user's ID, or "" when the request
// did not pass through AuthnMiddleware.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// EmailFromCtx returns the authenticated user's email, or "".
func EmailFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmail).(string); ok {
		return v
	}
	return ""
}

// IsAdminFromCtx reports whether the token carried the elevated-privilege claim.
func IsAdminFromCtx(ctx context.Context) bool {
	v, ok := ctx.Value(CtxKeyAdmin).(bool)
	return ok && v
}
