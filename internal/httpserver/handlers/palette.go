package handlers

import (
	"net/http"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/session"
)

type keyRequest struct {
	Key string `json:"key"` // toggle | up | down | enter | escape
}

type keyResponse struct {
	Open      bool   `json:"open"`
	Selected  int    `json:"selected"`
	Activated any    `json:"activated,omitempty"`
	Ignored   string `json:"ignored,omitempty"`
}

// PaletteState returns the operator's palette snapshot.
func PaletteState(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := d.Palettes.For(session.UserFromContext(r.Context()))
		writeData(w, http.StatusOK, p.Snapshot())
	}
}

// PaletteKey drives the palette interaction protocol: the meta/ctrl+K chord
// toggles it, arrows move the bounded selection, enter activates, escape
// closes.
func PaletteKey(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req keyRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		p := d.Palettes.For(session.UserFromContext(r.Context()))

		var resp keyResponse
		switch req.Key {
		case "toggle":
			resp.Open = p.Toggle()
			resp.Selected = p.Snapshot().Selected
		case "up":
			resp.Selected = p.Move(-1)
			resp.Open = p.Snapshot().Open
		case "down":
			resp.Selected = p.Move(1)
			resp.Open = p.Snapshot().Open
		case "enter":
			if result, ok := p.Activate(); ok {
				resp.Activated = result
			}
			snap := p.Snapshot()
			resp.Open = snap.Open
			resp.Selected = snap.Selected
		case "escape":
			p.Close()
			resp.Selected = p.Snapshot().Selected
		default:
			writeError(w, http.StatusBadRequest, "unknown key: "+req.Key)
			return
		}
		writeData(w, http.StatusOK, resp)
	}
}
