package domain

import (
	"encoding/json"
	"fmt"
)

// Record is one item of an admin collection as returned by the upstream API.
//
// Collections have different shapes (articles, users, categories, ...), so
// everything besides the identifier is carried in Attrs. The shape is checked
// against the collection's JSON Schema at the decode boundary; past that
// point a Record is trusted.
type Record struct {
	// ID is the upstream identifier. Unique within a listing by upstream
	// contract; the console assumes it, never enforces it.
	ID string

	// Attrs carries every field other than "id".
	Attrs map[string]any
}

// Title returns the display field named by the collection, or the ID when the
// field is absent or not a string.
func (r *Record) Title(field string) string {
	if field != "" {
		if v, ok := r.Attrs[field].(string); ok && v != "" {
			return v
		}
	}
	return r.ID
}

// Clone returns a deep-enough copy: the Attrs map is copied so a caller can
// mutate the clone without touching the cached original. Nested values are
// shared; mutations always replace whole attributes.
func (r *Record) Clone() *Record {
	attrs := make(map[string]any, len(r.Attrs))
	for k, v := range r.Attrs {
		attrs[k] = v
	}
	return &Record{ID: r.ID, Attrs: attrs}
}

// MarshalJSON flattens the record back into the upstream wire shape:
// {"id": ..., <attrs...>}.
func (r *Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Attrs)+1)
	for k, v := range r.Attrs {
		flat[k] = v
	}
	flat["id"] = r.ID
	return json.Marshal(flat)
}

// UnmarshalJSON splits the upstream object into ID + Attrs.
// A record without a string "id" is rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	id, ok := flat["id"].(string)
	if !ok || id == "" {
		return fmt.Errorf("record has no string id")
	}
	delete(flat, "id")
	r.ID = id
	r.Attrs = flat
	return nil
}
