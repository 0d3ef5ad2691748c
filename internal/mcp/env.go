package mcp

import (
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
)

// EnvMap is a mergeable environment-variable map, following the teacher's
// EnvMap.Merge pattern: later values override earlier ones, key by key.
type EnvMap map[string]string

// Merge layers other on top of e, with other's values winning on conflict.
func (e EnvMap) Merge(other EnvMap) (EnvMap, error) {
	result := make(EnvMap, len(e))
	for k, v := range e {
		result[k] = v
	}
	if err := mergo.Merge(&result, other, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge MCP server environment: %w", err)
	}
	return result, nil
}

// ToSlice renders the map as "KEY=VALUE" entries for exec.Command-style env.
func (e EnvMap) ToSlice() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	return out
}

// processEnv snapshots the current process environment as an EnvMap.
func processEnv() EnvMap {
	environ := os.Environ()
	out := make(EnvMap, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

// serverEnv builds the environment an MCP server subprocess should see: the
// launching process's own environment (so PATH, HOME, etc. resolve the
// server's command normally), with the workflow's declared per-server
// overrides layered on top.
func serverEnv(declared map[string]string) ([]string, error) {
	merged, err := processEnv().Merge(EnvMap(declared))
	if err != nil {
		return nil, err
	}
	return merged.ToSlice(), nil
}
