package session

import "context"

type ctxKey struct{}

// WithSession attaches s to the context. The auth middleware is the single
// place that calls this; everything downstream reads it back instead of
// poking at shared state.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}

// TokenFromContext returns the bearer token on ctx, or "" when the caller is
// unauthenticated.
func TokenFromContext(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.Token
	}
	return ""
}

// UserFromContext returns the operator name on ctx, or DefaultUser.
func UserFromContext(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok && s.User != "" {
		return s.User
	}
	return DefaultUser
}
