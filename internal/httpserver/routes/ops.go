package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/httpserver/handlers"
	"github.com/quillcms/console/internal/httpserver/mw"
	"github.com/quillcms/console/internal/session"
)

func init() { Register(registerOps) }

func registerOps(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))

	guarded := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)
	guarded.Get("/infra", handlers.Infra(d))
	guarded.With(mw.RequireRole(session.RoleAdmin, d.Logger)).
		Post("/api/reload", handlers.Reload(d))
}
