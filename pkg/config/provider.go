package config

import "fmt"

// koanfMapProvider adapts a plain map[string]any to koanf.Provider for
// layers (YAML, CLI flags) whose data is already resolved into a map
// before the Service merges it — koanf only needs Read() for these, never
// the raw-bytes form a file/remote provider would supply.
type koanfMapProvider map[string]any

func (p koanfMapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("config: in-memory source does not support ReadBytes")
}

func (p koanfMapProvider) Read() (map[string]any, error) {
	return map[string]any(p), nil
}
