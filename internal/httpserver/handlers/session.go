package handlers

import (
	"net/http"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/session"
)

type signInRequest struct {
	Token string `json:"token"`
}

type sessionInfo struct {
	User          string `json:"user"`
	Role          string `json:"role"`
	Authenticated bool   `json:"authenticated"`
}

// SignIn stores the operator's bearer token.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := decodeBody(r, &req); err != nil || req.Token == "" {
			writeError(w, http.StatusBadRequest, "body must carry a token")
			return
		}
		user := session.UserFromContext(r.Context())
		if err := d.Sessions.SignIn(r.Context(), user, req.Token); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store token")
			return
		}
		writeData(w, http.StatusOK, sessionInfo{
			User:          user,
			Role:          session.ParseRole(req.Token),
			Authenticated: true,
		})
	}
}

// SignOut drops the stored token.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := session.UserFromContext(r.Context())
		if err := d.Sessions.SignOut(r.Context(), user); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to sign out")
			return
		}
		writeData(w, http.StatusOK, sessionInfo{User: user, Role: session.RoleUser})
	}
}

// CurrentSession reports the resolved session for this request.
func CurrentSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		if !ok {
			writeData(w, http.StatusOK, sessionInfo{User: session.DefaultUser, Role: session.RoleUser})
			return
		}
		writeData(w, http.StatusOK, sessionInfo{
			User:          s.User,
			Role:          s.Role,
			Authenticated: s.Authenticated(),
		})
	}
}
