package config

import (
	"github.com/supernovae-st/nika/internal/mcp"
	"github.com/supernovae-st/nika/internal/provider"
)

// ToProviderConfig converts the resolved provider layer to the
// internal/provider package's Config shape.
func (c *Config) ToProviderConfig() provider.Config {
	return provider.Config{
		Name:   provider.Name(c.Provider.Name),
		Model:  c.Provider.Model,
		APIKey: c.Provider.APIKey,
		APIURL: c.Provider.APIURL,
	}
}

// ToMCPServers converts the resolved mcp layer to internal/mcp's
// ServerConfig map, keyed the same way the workflow document itself keys
// its mcp: block.
func (c *Config) ToMCPServers() map[string]mcp.ServerConfig {
	servers := make(map[string]mcp.ServerConfig, len(c.MCP))
	for name, s := range c.MCP {
		servers[name] = mcp.ServerConfig{Name: name, Command: s.Command, Args: s.Args, Env: s.Env}
	}
	return servers
}
