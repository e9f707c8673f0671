package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/resource"
)

func manager(d deps.Deps, w http.ResponseWriter, r *http.Request) (*resource.Manager, bool) {
	name := chi.URLParam(r, "collection")
	m, ok := d.Registry.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection: "+name)
		return nil, false
	}
	return m, true
}

// ListResources returns the cached listing, loading from the backend when
// the cache is cold or ?refresh=1 is set. A failed refresh still answers
// with the stale listing (plus a notification), matching the manager's
// stale-but-present policy.
func ListResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := manager(d, w, r)
		if !ok {
			return
		}
		refresh := r.URL.Query().Get("refresh") == "1"
		if refresh || m.LoadedAt().IsZero() {
			if items, err := m.Load(r.Context()); err != nil {
				writeData(w, http.StatusOK, items)
				return
			}
		}
		writeData(w, http.StatusOK, m.Items())
	}
}

// CreateResource posts the body to the backend and prepends the confirmed
// record to the cached listing.
func CreateResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := manager(d, w, r)
		if !ok {
			return
		}
		var input map[string]any
		if err := decodeBody(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		rec, err := m.Create(r.Context(), input)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeData(w, http.StatusCreated, rec)
	}
}

// UpdateResource puts the patch and swaps in the server-canonical record.
func UpdateResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := manager(d, w, r)
		if !ok {
			return
		}
		var patch map[string]any
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		rec, err := m.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeData(w, http.StatusOK, rec)
	}
}

// DeleteResource removes the record optimistically; the manager rolls the
// cache back if the backend rejects the delete.
func DeleteResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := manager(d, w, r)
		if !ok {
			return
		}
		if err := m.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
	}
}

type toggleRequest struct {
	Field string `json:"field"`
	Value bool   `json:"value"`
}

// ToggleResource flips a declared boolean field, optimistically with
// rollback, same policy as delete.
func ToggleResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := manager(d, w, r)
		if !ok {
			return
		}
		var req toggleRequest
		if err := decodeBody(r, &req); err != nil || req.Field == "" {
			writeError(w, http.StatusBadRequest, "body must name a field")
			return
		}
		if !m.Collection().CanToggle(req.Field) {
			writeError(w, http.StatusBadRequest, "field is not toggleable: "+req.Field)
			return
		}
		rec, err := m.Toggle(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeData(w, http.StatusOK, rec)
	}
}
