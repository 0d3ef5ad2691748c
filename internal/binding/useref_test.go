package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseUse(t *testing.T) {
	t.Run("Should parse the path form", func(t *testing.T) {
		refs, err := ParseUse(map[string]any{
			"greeting": "greet.message",
		})
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, Ref{Alias: "greeting", From: "greet", Path: "message"}, refs[0])
	})

	t.Run("Should parse a bare task reference with no path", func(t *testing.T) {
		refs, err := ParseUse(map[string]any{"whole": "greet"})
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "greet", refs[0].From)
		assert.Empty(t, refs[0].Path)
	})

	t.Run("Should parse a path form with an array index", func(t *testing.T) {
		refs, err := ParseUse(map[string]any{"first": "fetch.items[0].name"})
		require.NoError(t, err)
		assert.Equal(t, "fetch", refs[0].From)
		assert.Equal(t, "items[0].name", refs[0].Path)
	})

	t.Run("Should parse the batch form into one ref per field", func(t *testing.T) {
		refs, err := ParseUse(map[string]any{
			"classify.result": []any{"label", "confidence"},
		})
		require.NoError(t, err)
		require.Len(t, refs, 2)

		byAlias := map[string]Ref{}
		for _, r := range refs {
			byAlias[r.Alias] = r
		}
		assert.Equal(t, Ref{Alias: "label", From: "classify", Path: "result.label"}, byAlias["label"])
		assert.Equal(t, Ref{Alias: "confidence", From: "classify", Path: "result.confidence"}, byAlias["confidence"])
	})

	t.Run("Should parse batch form with no base path", func(t *testing.T) {
		refs, err := ParseUse(map[string]any{
			"classify": []any{"label"},
		})
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "label", refs[0].Path)
	})

	t.Run("Should reject a batch form whose list contains a non-string", func(t *testing.T) {
		_, err := ParseUse(map[string]any{"classify.result": []any{"label", 7}})
		require.Error(t, err)
	})

	t.Run("Should parse the advanced object form", func(t *testing.T) {
		refs, err := ParseUse(map[string]any{
			"count": map[string]any{
				"from":    "fetch",
				"path":    "items[0].count",
				"default": 0,
			},
		})
		require.NoError(t, err)
		require.Len(t, refs, 1)
		r := refs[0]
		assert.Equal(t, "count", r.Alias)
		assert.Equal(t, "fetch", r.From)
		assert.Equal(t, "items[0].count", r.Path)
		assert.True(t, r.HasDefault)
		assert.Equal(t, 0, r.Default)
	})

	t.Run("Should reject an advanced form missing from", func(t *testing.T) {
		_, err := ParseUse(map[string]any{"count": map[string]any{"path": "x"}})
		require.Error(t, err)
	})

	t.Run("Should reject an unsupported use entry shape", func(t *testing.T) {
		_, err := ParseUse(map[string]any{"bad": 5})
		require.Error(t, err)
	})
}
