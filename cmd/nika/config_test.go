package main

import "github.com/supernovae-st/nika/pkg/config"

// testConfig returns a Config suitable for exercising run/validate/plan in
// tests: the mock provider, no MCP servers, logging disabled.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Log.Level = "disabled"
	return &cfg
}
