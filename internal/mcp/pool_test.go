package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Pool_Get(t *testing.T) {
	t.Run("Should reject a server name that isn't declared", func(t *testing.T) {
		p := NewPool(map[string]ServerConfig{})
		_, err := p.Get(context.Background(), "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NIKA-105")
	})
}
