package mw

import (
	"net/http"

	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/session"
)

// OperatorHeader names the operator whose session is resolved. Absent means
// the default operator slot.
const OperatorHeader = "X-Console-User"

// Session resolves the operator's session (stored token + derived role) and
// injects it into the request context. It never rejects: an unauthenticated
// session just fails on the next privileged upstream call.
func Session(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := r.Header.Get(OperatorHeader)
			s := sessions.Resolve(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RequireRole gates a route on the session's role claim. UI gating only;
// the backend enforces real authorization on every proxied call.
func RequireRole(role string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok || !session.RoleAtLeast(s.Role, role) {
				have := session.RoleUser
				if ok {
					have = s.Role
				}
				log.Debug("role gate rejected request",
					logger.String("path", r.URL.Path),
					logger.String("role", have),
					logger.String("required", role))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
