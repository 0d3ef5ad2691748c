package provider

import "sync"

// cacheKey identifies one (provider name, resolved model) pair. Keying by
// name alone would bake whichever task touches a given provider name first
// into every later DefaultModel() call, silently overriding a different
// task's or workflow's own default model — so the model is part of the key.
type cacheKey struct {
	Name  Name
	Model string
}

// Cache lazily builds and caches one Provider per (Name, Model) pair,
// guaranteeing a concurrent first touch from several task goroutines
// constructs the underlying client exactly once. Hits are lock-free
// sync.Map loads; misses are serialized on mu and re-check the map before
// building, the Go analogue of an atomic get-or-insert entry API.
type Cache struct {
	mu        sync.Mutex
	providers sync.Map // cacheKey -> Provider
}

// NewCache returns an empty provider cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached Provider for cfg.Name/cfg.Model, building it via
// New(cfg) on first touch. Concurrent callers racing to build the same key
// observe the same Provider instance, and New runs once per key.
func (c *Cache) Get(cfg Config) (Provider, error) {
	key := cacheKey{Name: cfg.Name, Model: cfg.Model}
	if existing, ok := c.providers.Load(key); ok {
		return existing.(Provider), nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.providers.Load(key); ok {
		return existing.(Provider), nil
	}
	built, err := New(cfg)
	if err != nil {
		return nil, err
	}
	c.providers.Store(key, built)
	return built, nil
}
