package config

import (
	"fmt"
	"strings"

	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "NIKA_"

// Service resolves a Config by merging, in fixed precedence order,
// compiled-in defaults, the process environment, and whatever additional
// Sources the caller supplies (a parsed YAML file, then CLI flags).
type Service struct{}

// NewService returns a Service. It holds no state; a fresh koanf instance
// is built per Load call so concurrent loads never interfere.
func NewService() *Service {
	return &Service{}
}

// Load resolves a Config from defaults, the environment, and sources — in
// that order, so a later source's keys win over an earlier one's. A nil
// Source is ignored, so callers can pass an optional YAML source straight
// through without a conditional.
func (s *Service) Load(sources ...Source) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}

	envSrc := envprovider.Provider(".", envprovider.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnvKey,
	})
	if err := k.Load(envSrc, nil); err != nil {
		return nil, fmt.Errorf("config: failed to load environment: %w", err)
	}

	for _, src := range sources {
		if src == nil {
			continue
		}
		data, err := src.Load()
		if err != nil {
			return nil, fmt.Errorf("config: failed to load %s source: %w", src.Type(), err)
		}
		if err := k.Load(koanfMapProvider(data), nil); err != nil {
			return nil, fmt.Errorf("config: failed to merge %s source: %w", src.Type(), err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	return &cfg, nil
}

// transformEnvKey maps NIKA_PROVIDER_NAME -> provider.name (and
// NIKA_PROVIDER_API_KEY -> provider.api_key), matching the `koanf` struct
// tags on Config so the env and structs layers agree on key shape without
// a separate mapping table per field.
func transformEnvKey(k, v string) (string, any) {
	trimmed := strings.TrimPrefix(k, envPrefix)
	dotted := strings.ReplaceAll(strings.ToLower(trimmed), "_", ".")
	dotted = strings.NewReplacer("api.key", "api_key", "api.url", "api_url").Replace(dotted)
	return dotted, v
}
