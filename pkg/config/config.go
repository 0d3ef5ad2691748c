// Package config loads Nika's CLI configuration through a layered
// precedence chain — defaults, environment, YAML file, CLI flags — the
// same source chain the teacher's cmd/mcp-proxy composes, built on
// koanf instead of hand-rolled merging.
package config

// Config is Nika's fully-resolved configuration: the default provider a
// workflow falls back to when it declares none, the named MCP servers
// available to invoke/agent tasks, and logging.
type Config struct {
	Provider ProviderConfig       `koanf:"provider"`
	MCP      map[string]MCPConfig `koanf:"mcp"`
	Log      LogConfig            `koanf:"log"`
}

// ProviderConfig names the default LLM backend and credentials a task's
// infer/agent action falls back to when it doesn't set its own.
type ProviderConfig struct {
	Name   string `koanf:"name"`
	Model  string `koanf:"model"`
	APIKey string `koanf:"api_key"`
	APIURL string `koanf:"api_url"`
}

// MCPConfig describes one named, externally-launched MCP tool server.
type MCPConfig struct {
	Command string            `koanf:"command"`
	Args    []string          `koanf:"args"`
	Env     map[string]string `koanf:"env"`
}

// LogConfig controls pkg/logger's output.
type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// Default returns Nika's baseline configuration, before any source is
// applied: the mock provider (so `nika run` works offline out of the box)
// at info-level, human-readable logging.
func Default() Config {
	return Config{
		Provider: ProviderConfig{Name: "mock", Model: "mock-default"},
		Log:      LogConfig{Level: "info"},
	}
}
