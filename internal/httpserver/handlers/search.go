package handlers

import (
	"net/http"
	"strings"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/session"
)

// Search runs the query immediately and returns results + suggestions from
// the same upstream call.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "missing query")
			return
		}
		resp, err := d.Searcher.Search(r.Context(), query)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeData(w, http.StatusOK, resp)
	}
}

type typeRequest struct {
	Q string `json:"q"`
}

// SearchType feeds a keystroke into the debouncer. The search itself fires
// after the quiet window; its results land in the operator's palette.
func SearchType(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req typeRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		query := strings.TrimSpace(req.Q)
		if query == "" {
			writeError(w, http.StatusBadRequest, "missing query")
			return
		}
		d.Searcher.Type(r.Context(), query)
		writeData(w, http.StatusAccepted, map[string]string{"status": "debounced"})
	}
}

// SearchHistory returns the operator's recent queries, most recent first.
func SearchHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := session.UserFromContext(r.Context())
		entries, err := d.History.Recent(r.Context(), user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load search history")
			return
		}
		writeData(w, http.StatusOK, entries)
	}
}

// ClearSearchHistory drops the operator's search history.
func ClearSearchHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := session.UserFromContext(r.Context())
		if err := d.History.Clear(r.Context(), user); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to clear search history")
			return
		}
		writeData(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}
