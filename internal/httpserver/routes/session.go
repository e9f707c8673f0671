package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/httpserver/handlers"
	"github.com/quillcms/console/internal/httpserver/mw"
)

func init() { Register(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	guarded := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)

	guarded.Get("/api/session", handlers.CurrentSession(d))
	guarded.Post("/api/session", handlers.SignIn(d))
	guarded.Delete("/api/session", handlers.SignOut(d))

	guarded.Get("/api/notifications", handlers.Notifications(d))
}
