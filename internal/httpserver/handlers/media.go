package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/media"
)

// maxUploadMemory bounds how much of the incoming multipart form is held in
// memory before spilling to disk.
const maxUploadMemory = 32 << 20

// UploadMedia drives the upload flow: sanitize the filename, probe the
// backend for a collision, and only send the bytes once the operator has
// decided. decision=overwrite adds the x-override header; decision=keep-both
// uploads without it and lets the backend resolve the name.
func UploadMedia(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer func() { _ = file.Close() }()

		filename := media.SanitizeFilename(header.Filename)
		if filename == "" {
			writeError(w, http.StatusBadRequest, "empty filename after sanitization")
			return
		}

		decision := r.FormValue("decision")
		switch decision {
		case "", "overwrite", "keep-both":
		default:
			writeError(w, http.StatusBadRequest, "decision must be overwrite or keep-both")
			return
		}

		// No decision yet: probe for a collision before sending anything.
		if decision == "" {
			exists, err := d.Media.Check(r.Context(), filename)
			if err != nil {
				writeUpstreamError(w, err)
				return
			}
			if exists {
				writeData(w, http.StatusConflict, map[string]any{
					"exists":   true,
					"filename": filename,
				})
				return
			}
		}

		id, err := d.Media.Upload(r.Context(), filename, header.Size, file, decision == "overwrite")
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeData(w, http.StatusOK, map[string]any{
			"upload_id": id,
			"filename":  filename,
			"url":       d.Media.ViewURL(filename),
		})
	}
}

// ListMedia returns the stored files with public view URLs.
func ListMedia(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := d.Media.List(r.Context())
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeData(w, http.StatusOK, files)
	}
}

type deleteMediaRequest struct {
	Key string `json:"key"`
}

// DeleteMedia removes a stored file by key.
func DeleteMedia(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteMediaRequest
		if err := decodeBody(r, &req); err != nil || req.Key == "" {
			writeError(w, http.StatusBadRequest, "body must name a key")
			return
		}
		if err := d.Media.Delete(r.Context(), req.Key); err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"key": req.Key})
	}
}

// MediaProgress reports the 0-100 progress of an upload.
func MediaProgress(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		upload, ok := d.Media.Tracker().Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown upload: "+id)
			return
		}
		writeData(w, http.StatusOK, upload)
	}
}
