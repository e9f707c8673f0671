package upstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func articleSchema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	raw := `{
		"type": "object",
		"required": ["id", "title"],
		"properties": {
			"id": {"type": "string"},
			"title": {"type": "string"},
			"published": {"type": "boolean"}
		}
	}`
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("articles.schema.json", bytes.NewReader([]byte(raw))); err != nil {
		t.Fatalf("add schema: %v", err)
	}
	schema, err := compiler.Compile("articles.schema.json")
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	return schema
}

func TestDecodeRecordValidPayload(t *testing.T) {
	rec, err := DecodeRecord("load articles", json.RawMessage(`{"id":"1","title":"hi","published":true}`), articleSchema(t))
	if err != nil {
		t.Fatalf("DecodeRecord failed: %v", err)
	}
	if rec.ID != "1" || rec.Attrs["title"] != "hi" {
		t.Errorf("record = %+v", rec)
	}
}

func TestDecodeRecordRejectsSchemaViolation(t *testing.T) {
	cases := []string{
		`{"id":"1"}`,                           // missing required title
		`{"id":"1","title":42}`,                // wrong type
		`{"id":"1","title":"x","published":1}`, // wrong type on optional field
	}
	for _, c := range cases {
		_, err := DecodeRecord("load articles", json.RawMessage(c), articleSchema(t))
		var ue *Error
		if !errors.As(err, &ue) || ue.Kind != KindDecode {
			t.Errorf("DecodeRecord(%s) error = %v, want a decode error", c, err)
		}
	}
}

func TestDecodeRecordNilSchemaSkipsValidation(t *testing.T) {
	rec, err := DecodeRecord("load articles", json.RawMessage(`{"id":"1","anything":"goes"}`), nil)
	if err != nil {
		t.Fatalf("DecodeRecord without schema failed: %v", err)
	}
	if rec.Attrs["anything"] != "goes" {
		t.Errorf("record = %+v", rec)
	}
}

func TestDecodeRecordListValidatesEveryElement(t *testing.T) {
	data := json.RawMessage(`[{"id":"1","title":"ok"},{"id":"2"}]`)
	_, err := DecodeRecordList("load articles", data, articleSchema(t))
	var ue *Error
	if !errors.As(err, &ue) || ue.Kind != KindDecode {
		t.Errorf("a bad element should fail the whole listing, got %v", err)
	}

	good := json.RawMessage(`[{"id":"1","title":"a"},{"id":"2","title":"b"}]`)
	records, err := DecodeRecordList("load articles", good, articleSchema(t))
	if err != nil {
		t.Fatalf("DecodeRecordList failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("decoded %d records, want 2", len(records))
	}
}

func TestDecodeRecordListRejectsNonArray(t *testing.T) {
	_, err := DecodeRecordList("load articles", json.RawMessage(`{"id":"1"}`), nil)
	var ue *Error
	if !errors.As(err, &ue) || ue.Kind != KindDecode {
		t.Errorf("non-array listing should be a decode error, got %v", err)
	}
}
