package catalog

import (
	"strings"
	"testing"
)

const sampleCatalog = `
collections:
  - name: Articles
    title_field: title
    slug_field: slug
    toggle_fields: [published, featured]
    list_limit: 50
    schema:
      type: object
      required: [id, title]
      properties:
        id: { type: string }
        title: { type: string }
  - name: categories
    path: /api/v2/categories
    title_field: name
`

func TestParseCatalog(t *testing.T) {
	cols, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cols) != 2 {
		t.Fatalf("parsed %d collections, want 2", len(cols))
	}

	articles := cols[0]
	if articles.Name != "articles" {
		t.Errorf("name = %q, want lowercased %q", articles.Name, "articles")
	}
	if articles.Path != "/api/articles" {
		t.Errorf("default path = %q, want /api/articles", articles.Path)
	}
	if articles.Schema == nil {
		t.Error("inline schema should be compiled")
	}
	if !articles.CanToggle("published") || !articles.CanToggle("featured") {
		t.Error("declared toggle fields should be toggleable")
	}
	if articles.CanToggle("title") {
		t.Error("undeclared field must not be toggleable")
	}

	categories := cols[1]
	if categories.Path != "/api/v2/categories" {
		t.Errorf("explicit path = %q", categories.Path)
	}
	if categories.Schema != nil {
		t.Error("collection without schema should have nil Schema")
	}
}

func TestParseCompiledSchemaValidates(t *testing.T) {
	cols, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	schema := cols[0].Schema

	valid := map[string]any{"id": "1", "title": "hello"}
	if err := schema.Validate(valid); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	invalid := map[string]any{"id": "1"}
	if err := schema.Validate(invalid); err == nil {
		t.Error("payload missing a required field should be rejected")
	}
}

func TestParseRejectsBrokenCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty catalog", "collections: []", "no collections"},
		{"empty name", "collections:\n  - name: ''", "empty name"},
		{"relative path", "collections:\n  - name: a\n    path: api/a", "must start with /"},
		{"duplicate name", "collections:\n  - name: a\n  - name: A", "duplicate collection"},
		{"not yaml", "{{{", "parse catalog yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}
