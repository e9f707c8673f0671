package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/httpserver/handlers"
	"github.com/quillcms/console/internal/httpserver/mw"
	"github.com/quillcms/console/internal/session"
)

func init() { Register(registerResources) }

func registerResources(r chi.Router, d deps.Deps) {
	guarded := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)

	guarded.Get("/api/collections", handlers.Collections(d))
	guarded.Get("/api/r/{collection}", handlers.ListResources(d))

	mutating := guarded.With(
		mw.RequireRole(session.RoleCollaborator, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:           20,
			RefillPerMinute: 60,
			TrustProxy:      d.TrustProxy,
		}),
	)
	mutating.Post("/api/r/{collection}", handlers.CreateResource(d))
	mutating.Put("/api/r/{collection}/{id}", handlers.UpdateResource(d))
	mutating.Delete("/api/r/{collection}/{id}", handlers.DeleteResource(d))
	mutating.Patch("/api/r/{collection}/{id}/toggle", handlers.ToggleResource(d))
}
