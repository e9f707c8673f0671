package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/httpserver/handlers"
	"github.com/quillcms/console/internal/httpserver/mw"
	"github.com/quillcms/console/internal/session"
)

func init() { Register(registerMedia) }

func registerMedia(r chi.Router, d deps.Deps) {
	guarded := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)

	guarded.Get("/api/media", handlers.ListMedia(d))
	guarded.Get("/api/media/progress/{id}", handlers.MediaProgress(d))

	mutating := guarded.With(mw.RequireRole(session.RoleCollaborator, d.Logger))
	mutating.Post("/api/media/upload", handlers.UploadMedia(d))
	mutating.Delete("/api/media", handlers.DeleteMedia(d))
}
