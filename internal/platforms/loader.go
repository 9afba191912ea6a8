package platforms

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// SchemaFile is the on-disk layout of a platform schema file.
type SchemaFile struct {
	Platforms []Schema `yaml:"platforms"`
}

// ParseSchemas decodes schemas from YAML.
func ParseSchemas(data []byte) ([]Schema, error) {
	var file SchemaFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse platform schemas: %w", err)
	}
	return file.Platforms, nil
}

// LoadFile reads schemas from a YAML file.
func LoadFile(path string) ([]Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform schemas: %w", err)
	}
	return ParseSchemas(data)
}

// LoadFile registers every schema declared in a YAML file. Nothing is
// registered when any schema fails to compile.
func (r *Registry) LoadFile(path string) (int, error) {
	schemas, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	for _, s := range schemas {
		if _, err := Compile(s); err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
	}
	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			return 0, err
		}
	}
	return len(schemas), nil
}
