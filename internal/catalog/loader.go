package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of collections.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new catalog loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads collections.yaml and returns the declared collections with
// their schemas compiled.
func (l *Loader) Load() ([]*Collection, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse maps raw yaml to collections. Split from Load for tests.
func Parse(data []byte) ([]*Collection, error) {
	var config fileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	if len(config.Collections) == 0 {
		return nil, fmt.Errorf("no collections declared in catalog")
	}

	seen := make(map[string]bool, len(config.Collections))
	collections := make([]*Collection, 0, len(config.Collections))
	for _, props := range config.Collections {
		col, err := mapCollection(props)
		if err != nil {
			return nil, err
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("duplicate collection %q in catalog", col.Name)
		}
		seen[col.Name] = true
		collections = append(collections, col)
	}
	return collections, nil
}

func mapCollection(props collectionProps) (*Collection, error) {
	name := strings.TrimSpace(strings.ToLower(props.Name))
	if name == "" {
		return nil, fmt.Errorf("collection with empty name in catalog")
	}

	path := props.Path
	if path == "" {
		path = "/api/" + name
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("collection %q: path must start with /, got %q", name, path)
	}

	col := &Collection{
		Name:         name,
		Path:         path,
		TitleField:   props.TitleField,
		SlugField:    props.SlugField,
		ToggleFields: props.ToggleFields,
		ListLimit:    props.ListLimit,
	}

	if len(props.Schema) > 0 {
		schema, err := compileSchema(name, props.Schema)
		if err != nil {
			return nil, fmt.Errorf("collection %q: %w", name, err)
		}
		col.Schema = schema
	}
	return col, nil
}

// compileSchema turns the inline yaml schema into a compiled JSON Schema.
func compileSchema(name string, raw map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	resource := name + ".schema.json"
	if err := compiler.AddResource(resource, bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}
