package handlers

import (
	"net/http"

	"github.com/quillcms/console/internal/httpserver/deps"
)

// Notifications drains the operator's pending notifications, oldest first.
// Reading clears them; they are transient toasts, not an audit log.
func Notifications(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, d.Notify.Drain(r.Context()))
	}
}
