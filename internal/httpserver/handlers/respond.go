package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillcms/console/internal/upstream"
)

// envelope mirrors the upstream response shape so the UI consumes one
// contract end to end: {success, data?, error?}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: message})
}

// writeUpstreamError maps a failed backend call onto the console's envelope.
// HTTP failures keep their upstream status; everything else is a bad gateway.
func writeUpstreamError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var ue *upstream.Error
	if errors.As(err, &ue) && ue.Kind == upstream.KindHTTP && ue.Status > 0 {
		status = ue.Status
	}
	writeError(w, status, upstream.UserMessage(err))
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}
