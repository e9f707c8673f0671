package catalog

// fileConfig represents the top-level structure of collections.yaml
type fileConfig struct {
	Collections []collectionProps `yaml:"collections"`
}

// collectionProps contains one declared collection
type collectionProps struct {
	Name         string         `yaml:"name"`
	Path         string         `yaml:"path,omitempty"` // defaults to /api/<name>
	TitleField   string         `yaml:"title_field,omitempty"`
	SlugField    string         `yaml:"slug_field,omitempty"`
	ToggleFields []string       `yaml:"toggle_fields,omitempty"`
	ListLimit    int            `yaml:"list_limit,omitempty"`
	Schema       map[string]any `yaml:"schema,omitempty"` // inline JSON Schema
}
