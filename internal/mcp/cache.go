package mcp

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheConfig bounds a server's response cache: entries older than TTL are
// treated as misses, and at most MaxEntries are retained (LRU-evicted).
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// DefaultCacheConfig matches original_source's MCP client default: a 5
// minute TTL over at most 1000 entries.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: 5 * time.Minute, MaxEntries: 1000}
}

type cacheEntry struct {
	result    CallResult
	expiresAt time.Time
}

// responseCache caches deterministic tool call results per server, keyed by
// tool name + a hash of its canonical JSON params.
type responseCache struct {
	ttl     time.Duration
	entries *lru.Cache[string, cacheEntry]
}

func newResponseCache(cfg CacheConfig) *responseCache {
	size := cfg.MaxEntries
	if size <= 0 {
		size = 1000
	}
	c, _ := lru.New[string, cacheEntry](size)
	return &responseCache{ttl: cfg.TTL, entries: c}
}

func cacheKey(tool string, params map[string]any) string {
	paramsJSON, _ := json.Marshal(params)
	sum := sha256.Sum256(paramsJSON)
	return tool + ":" + hex.EncodeToString(sum[:8])
}

func (c *responseCache) get(tool string, params map[string]any) (CallResult, bool) {
	entry, ok := c.entries.Get(cacheKey(tool, params))
	if !ok {
		return CallResult{}, false
	}
	if time.Now().After(entry.expiresAt) {
		c.entries.Remove(cacheKey(tool, params))
		return CallResult{}, false
	}
	return entry.result, true
}

func (c *responseCache) put(tool string, params map[string]any, result CallResult) {
	if result.IsError {
		return
	}
	c.entries.Add(cacheKey(tool, params), cacheEntry{result: result, expiresAt: time.Now().Add(c.ttl)})
}
