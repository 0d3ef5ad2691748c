package config

// SourceType tags which layer a Source contributes, fixing the merge
// order the Service applies: default < env < yaml < cli.
type SourceType string

const (
	SourceDefault SourceType = "default"
	SourceEnv     SourceType = "env"
	SourceYAML    SourceType = "yaml"
	SourceCLI     SourceType = "cli"
)

// Source is one configuration layer: a set of keys to merge over whatever
// the lower layers already established.
type Source interface {
	Load() (map[string]any, error)
	Type() SourceType
}

// mapSource adapts a plain map to Source, for the YAML and CLI layers
// (whose values are already known before Load is called).
type mapSource struct {
	data map[string]any
	kind SourceType
}

// NewYAMLSource wraps an already-parsed YAML document's top-level keys as
// the yaml-file configuration layer.
func NewYAMLSource(data map[string]any) Source {
	return mapSource{data: data, kind: SourceYAML}
}

// NewCLISource wraps the flags a cobra command actually received as the
// highest-precedence configuration layer.
func NewCLISource(data map[string]any) Source {
	return mapSource{data: data, kind: SourceCLI}
}

func (m mapSource) Load() (map[string]any, error) {
	return m.data, nil
}

func (m mapSource) Type() SourceType {
	return m.kind
}
