package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LoadYAMLFile parses path as a YAML config document and wraps its
// top-level keys as the yaml configuration layer. A missing path is not
// an error — the CLI's --config flag is optional — it simply yields an
// empty layer.
func LoadYAMLFile(path string) (Source, error) {
	if path == "" {
		return NewYAMLSource(nil), nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewYAMLSource(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return NewYAMLSource(data), nil
}
