package mcp

// ServerConfig describes one externally-launched MCP tool server, decoded
// from a workflow's top-level `mcp:` block.
type ServerConfig struct {
	Name    string
	Command string
	Args    []string
	Env     map[string]string
}

// CallResult is one tool call's outcome: the text content blocks MCP
// returns, flattened to a single string for binding into the data store,
// plus whether the server reported the call itself as an error.
type CallResult struct {
	Text    string
	IsError bool
}
