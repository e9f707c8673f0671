package catalog

import "github.com/santhosh-tekuri/jsonschema/v5"

// Collection describes one admin collection (articles, users, categories...)
// managed by the console. The upstream backend owns the data; the console
// only needs to know where the collection lives and which fields matter.
type Collection struct {
	// Name is the URL-safe collection name, ex: "articles".
	Name string

	// Path is the upstream collection endpoint, ex: "/api/articles".
	// Item endpoints are Path + "/" + id.
	Path string

	// TitleField names the attribute used when a notification or log line
	// refers to a record ("article deleted: <title>").
	TitleField string

	// SlugField, when set, is normalized from TitleField on create when the
	// caller left it empty.
	SlugField string

	// ToggleFields lists boolean attributes that may be flipped through the
	// toggle operation (published, active, ...).
	ToggleFields []string

	// ListLimit is the "limit" query parameter sent on listing. 0 = omit.
	ListLimit int

	// Schema validates records at the decode boundary. Nil when the catalog
	// entry declares none.
	Schema *jsonschema.Schema
}

// CanToggle reports whether field is one of the declared toggle fields.
func (c *Collection) CanToggle(field string) bool {
	for _, f := range c.ToggleFields {
		if f == field {
			return true
		}
	}
	return false
}
