package auth

import "context"

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

type contextKey struct{}

// Identity is what a verified session token proves about the caller.
type Identity struct {
	UserID string
	Email  string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

func UserID(ctx context.Context) string {
	id, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return id.UserID
}
