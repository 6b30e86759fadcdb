// Package contexthelpers carries request-scoped values between the transport
// layer and the engine.
package contexthelpers

import "context"

type contextKey string

const AuthenticatedUserIDContextKey = contextKey("authenticatedUserID")

// AuthenticateContext stores the authenticated user id in the context.
func AuthenticateContext(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, AuthenticatedUserIDContextKey, userID)
}

// AuthenticatedUserID returns the authenticated user id or 0 when absent.
func AuthenticatedUserID(ctx context.Context) int64 {
	userID, ok := ctx.Value(AuthenticatedUserIDContextKey).(int64)
	if !ok {
		return 0
	}
	return userID
}
