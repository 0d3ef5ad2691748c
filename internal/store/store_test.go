package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DataStore(t *testing.T) {
	t.Run("Should put and get a result", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Put("a", TaskResult{Output: "hello", Duration: time.Millisecond}))

		r, ok := s.Get("a")
		require.True(t, ok)
		assert.Equal(t, "hello", r.Output)
		assert.True(t, r.IsSuccess())
	})

	t.Run("Should report IsSuccess false when an error is set", func(t *testing.T) {
		r := TaskResult{Error: "boom"}
		assert.False(t, r.IsSuccess())
	})

	t.Run("Should reject a second write to the same id", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Put("a", TaskResult{Output: 1}))
		err := s.Put("a", TaskResult{Output: 2})
		require.Error(t, err)
	})

	t.Run("Should report Has and Len correctly", func(t *testing.T) {
		s := New()
		assert.False(t, s.Has("a"))
		require.NoError(t, s.Put("a", TaskResult{Output: 1}))
		assert.True(t, s.Has("a"))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("Should be safe for concurrent writers on distinct ids", func(t *testing.T) {
		s := New()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = s.Put(string(rune('a'+i%26))+string(rune('0'+i/26)), TaskResult{Output: i})
			}(i)
		}
		wg.Wait()
		assert.LessOrEqual(t, s.Len(), 50)
	})

	t.Run("Should snapshot without racing the underlying map", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Put("a", TaskResult{Output: 1}))
		snap := s.Snapshot()
		require.NoError(t, s.Put("b", TaskResult{Output: 2}))
		assert.Len(t, snap, 1)
		assert.Equal(t, 2, s.Len())
	})
}
