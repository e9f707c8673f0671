package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/httpserver/handlers"
	"github.com/quillcms/console/internal/httpserver/mw"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	guarded := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)

	guarded.Get("/api/search", handlers.Search(d))
	guarded.Post("/api/search/type", handlers.SearchType(d))
	guarded.Get("/api/search/history", handlers.SearchHistory(d))
	guarded.Delete("/api/search/history", handlers.ClearSearchHistory(d))

	guarded.Get("/api/palette", handlers.PaletteState(d))
	guarded.Post("/api/palette/key", handlers.PaletteKey(d))
}
