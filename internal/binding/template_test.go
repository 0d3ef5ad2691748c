package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ResolveTemplate(t *testing.T) {
	t.Run("Should substitute a bare alias", func(t *testing.T) {
		out, err := ResolveTemplate("hello {{use.name}}!", map[string]any{"name": "world"})
		require.NoError(t, err)
		assert.Equal(t, "hello world!", out)
	})

	t.Run("Should substitute a sub-path into a structured alias", func(t *testing.T) {
		bound := map[string]any{"fetch": map[string]any{"body": map[string]any{"count": 3}}}
		out, err := ResolveTemplate("count: {{use.fetch.body.count}}", bound)
		require.NoError(t, err)
		assert.Equal(t, "count: 3", out)
	})

	t.Run("Should leave text with no placeholders untouched", func(t *testing.T) {
		out, err := ResolveTemplate("just plain text", nil)
		require.NoError(t, err)
		assert.Equal(t, "just plain text", out)
	})

	t.Run("Should substitute multiple placeholders", func(t *testing.T) {
		bound := map[string]any{"a": "1", "b": "2"}
		out, err := ResolveTemplate("{{use.a}}-{{use.b}}", bound)
		require.NoError(t, err)
		assert.Equal(t, "1-2", out)
	})

	t.Run("Should error on an unbound alias", func(t *testing.T) {
		_, err := ResolveTemplate("{{use.missing}}", map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NIKA-071")
	})

	t.Run("Should error on an unterminated placeholder", func(t *testing.T) {
		_, err := ResolveTemplate("hello {{use.name", map[string]any{"name": "x"})
		require.Error(t, err)
	})

	t.Run("Should error on a non-use expression", func(t *testing.T) {
		_, err := ResolveTemplate("{{foo.bar}}", map[string]any{})
		require.Error(t, err)
	})

	t.Run("Should error when a sub-path resolves to null", func(t *testing.T) {
		bound := map[string]any{"x": map[string]any{"y": nil}}
		_, err := ResolveTemplate("{{use.x.y}}", bound)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NIKA-072")
	})
}
