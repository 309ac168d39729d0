package middleware

import "context"

// contextKey is a private type for request-context keys to prevent collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	tenantIDKey  = contextKey("tenantID")
	userRoleKey  = contextKey("userRole")
)

// GetUserIDFromCtx retrieves the authenticated user id from the request context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok
}

// GetTenantIDFromCtx retrieves the resolved tenant id from the request context.
// The core treats it as opaque; it is set only by the auth middleware.
func GetTenantIDFromCtx(ctx context.Context) (string, bool) {
	v := ctx.Value(tenantIDKey)
	if v == nil {
		return "", false
	}
	tenantID, ok := v.(string)
	return tenantID, ok
}

// GetUserRoleFromCtx retrieves the authenticated user's role from the request context.
func GetUserRoleFromCtx(ctx context.Context) (string, bool) {
	v := ctx.Value(userRoleKey)
	if v == nil {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
