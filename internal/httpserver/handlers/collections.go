package handlers

import (
	"net/http"

	"github.com/quillcms/console/internal/httpserver/deps"
)

type collectionInfo struct {
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	TitleField   string   `json:"title_field,omitempty"`
	SlugField    string   `json:"slug_field,omitempty"`
	ToggleFields []string `json:"toggle_fields,omitempty"`
	HasSchema    bool     `json:"has_schema"`
}

// Collections lists the admin collections the console currently manages.
func Collections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos := make([]collectionInfo, 0, d.Registry.Count())
		for _, name := range d.Registry.Names() {
			m, ok := d.Registry.Get(name)
			if !ok {
				continue
			}
			col := m.Collection()
			infos = append(infos, collectionInfo{
				Name:         col.Name,
				Path:         col.Path,
				TitleField:   col.TitleField,
				SlugField:    col.SlugField,
				ToggleFields: col.ToggleFields,
				HasSchema:    col.Schema != nil,
			})
		}
		writeData(w, http.StatusOK, infos)
	}
}
