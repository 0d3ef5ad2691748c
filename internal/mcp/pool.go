// Package mcp pools connections to a workflow's declared MCP servers: one
// lazily-started, cached stdio client per server name, response caching for
// deterministic tool calls, and bounded reconnect-and-retry on the
// connection-class failures stdio transports are prone to.
package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sethvargo/go-retry"

	"github.com/supernovae-st/nika/pkg/logger"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// maxConnectAttempts bounds the reconnect-and-retry loop (spec.md §7: up to
// 3 attempts with backoff on connection-class errors).
const maxConnectAttempts = 3

// Client wraps one connected MCP server: its underlying stdio client plus
// an optional response cache for deterministic tools.
type Client struct {
	name  string
	raw   *mcpclient.Client
	cache *responseCache
}

// Pool lazily connects to and caches one Client per server name, keyed by
// the name declared in the workflow's `mcp:` block.
type Pool struct {
	servers  map[string]ServerConfig
	mu       sync.Mutex // serializes first-touch connects
	clients  sync.Map   // name -> *Client
	cacheCfg CacheConfig
}

// NewPool builds a pool over the workflow's declared servers. Clients are
// not connected until first use.
func NewPool(servers map[string]ServerConfig) *Pool {
	return &Pool{servers: servers, cacheCfg: DefaultCacheConfig()}
}

// Get returns the connected Client for name, connecting it (with bounded
// retry) on first touch. Concurrent first-touch callers share one
// connection attempt's result: misses are serialized on p.mu and re-check
// the map before connecting, mirroring internal/provider's cache.
func (p *Pool) Get(ctx context.Context, name string) (*Client, error) {
	if existing, ok := p.clients.Load(name); ok {
		return existing.(*Client), nil
	}
	cfg, ok := p.servers[name]
	if !ok {
		return nil, nikaerr.New(nikaerr.CodeMCPNotConfigured,
			fmt.Sprintf("no MCP server named %q is declared", name), nil).
			WithSuggestion(fmt.Sprintf("add %q under the workflow's mcp: block", name))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.clients.Load(name); ok {
		return existing.(*Client), nil
	}
	built, err := p.connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p.clients.Store(name, built)
	return built, nil
}

func (p *Pool) connect(ctx context.Context, cfg ServerConfig) (*Client, error) {
	log := logger.FromContext(ctx)
	var client *Client
	backoff, err := retry.NewExponential(200 * time.Millisecond)
	if err != nil {
		return nil, nikaerr.New(nikaerr.CodeMCPStartError, fmt.Sprintf("failed to build retry backoff: %v", err), err)
	}
	backoff = retry.WithMaxRetries(maxConnectAttempts-1, backoff)

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		env, err := serverEnv(cfg.Env)
		if err != nil {
			return retry.RetryableError(nikaerr.New(nikaerr.CodeMCPStartError,
				fmt.Sprintf("failed to build environment for MCP server %q: %v", cfg.Name, err), err))
		}
		raw, err := mcpclient.NewStdioMCPClient(cfg.Command, env, cfg.Args...)
		if err != nil {
			log.Warn("MCP connect attempt failed", "server", cfg.Name, "error", err)
			return retry.RetryableError(nikaerr.New(nikaerr.CodeMCPStartError,
				fmt.Sprintf("failed to start MCP server %q: %v", cfg.Name, err), err))
		}
		if _, err := raw.Initialize(ctx, mcp.InitializeRequest{}); err != nil {
			_ = raw.Close()
			return retry.RetryableError(nikaerr.New(nikaerr.CodeMCPStartError,
				fmt.Sprintf("failed to initialize MCP server %q: %v", cfg.Name, err), err))
		}
		client = &Client{name: cfg.Name, raw: raw, cache: newResponseCache(p.cacheCfg)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Close shuts down every connected client in the pool.
func (p *Pool) Close() {
	p.clients.Range(func(_, value any) bool {
		value.(*Client).raw.Close()
		return true
	})
}
