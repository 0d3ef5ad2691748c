package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New(t *testing.T) {
	t.Run("Should build a mock provider", func(t *testing.T) {
		p, err := New(Config{Name: Mock, Model: "mock-1"})
		require.NoError(t, err)
		assert.Equal(t, "mock-1", p.DefaultModel())
	})

	t.Run("Should reject an unknown provider name", func(t *testing.T) {
		_, err := New(Config{Name: "nonsense"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NIKA-030")
	})
}

func Test_MockProvider_Infer(t *testing.T) {
	t.Run("Should echo the prompt in the response", func(t *testing.T) {
		p := NewMock("m")
		out, err := p.Infer(context.Background(), "say hi", "")
		require.NoError(t, err)
		assert.Contains(t, out, "say hi")
	})

	t.Run("Should default the model name when none is given", func(t *testing.T) {
		p := NewMock("")
		assert.Equal(t, "mock-default", p.DefaultModel())
	})

	t.Run("Should respond to an empty prompt with a generic completion", func(t *testing.T) {
		p := NewMock("m")
		out, err := p.Infer(context.Background(), "", "")
		require.NoError(t, err)
		assert.Contains(t, out, "completed successfully")
	})

	t.Run("Should respect context cancellation during a simulated long call", func(t *testing.T) {
		p := NewMock("m")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Infer(ctx, "duration: 10s", "")
		require.Error(t, err)
	})
}

func Test_Cache_Get(t *testing.T) {
	t.Run("Should return the same provider instance on repeated gets", func(t *testing.T) {
		c := NewCache()
		p1, err := c.Get(Config{Name: Mock, Model: "m"})
		require.NoError(t, err)
		p2, err := c.Get(Config{Name: Mock, Model: "m"})
		require.NoError(t, err)
		assert.Same(t, p1, p2)
	})

	t.Run("Should propagate a build error without caching it", func(t *testing.T) {
		c := NewCache()
		_, err := c.Get(Config{Name: "bogus"})
		require.Error(t, err)
		_, err = c.Get(Config{Name: "bogus"})
		require.Error(t, err)
	})

	t.Run("Should not let one task's model choice leak into another task sharing the same provider name", func(t *testing.T) {
		c := NewCache()
		p1, err := c.Get(Config{Name: Mock, Model: "model-a"})
		require.NoError(t, err)
		p2, err := c.Get(Config{Name: Mock, Model: "model-b"})
		require.NoError(t, err)

		assert.NotSame(t, p1, p2)
		assert.Equal(t, "model-a", p1.DefaultModel())
		assert.Equal(t, "model-b", p2.DefaultModel())
	})
}
