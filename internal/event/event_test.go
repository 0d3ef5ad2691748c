package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Log(t *testing.T) {
	t.Run("Should assign strictly increasing monotonic ids", func(t *testing.T) {
		start := time.Unix(0, 0)
		l := NewLog(start)
		e1 := l.Emit(start, KindWorkflowStarted, "", nil)
		e2 := l.Emit(start.Add(time.Millisecond), KindTaskScheduled, "a", nil)
		assert.Equal(t, uint64(0), e1.ID)
		assert.Equal(t, uint64(1), e2.ID)
		assert.Equal(t, int64(1), e2.TimestampMS)
	})

	t.Run("Should retain every event in Events regardless of subscribers", func(t *testing.T) {
		start := time.Now()
		l := NewLog(start)
		l.Emit(start, KindWorkflowStarted, "", nil)
		l.Emit(start, KindWorkflowCompleted, "", nil)
		assert.Len(t, l.Events(), 2)
	})

	t.Run("Should fan out events to a live subscriber", func(t *testing.T) {
		start := time.Now()
		l := NewLog(start)
		sub := l.Subscribe(4)

		l.Emit(start, KindTaskStarted, "a", map[string]any{"task_id": "a"})

		select {
		case evt := <-sub:
			assert.Equal(t, KindTaskStarted, evt.Kind)
			assert.Equal(t, "a", evt.TaskID)
		case <-time.After(time.Second):
			t.Fatal("expected a broadcast event")
		}
	})

	t.Run("Should close subscriber channels on Close", func(t *testing.T) {
		start := time.Now()
		l := NewLog(start)
		sub := l.Subscribe(1)
		l.Close()

		_, ok := <-sub
		assert.False(t, ok)
	})

	t.Run("Should not block Emit when a subscriber is behind", func(t *testing.T) {
		start := time.Now()
		l := NewLog(start)
		l.Subscribe(1)

		done := make(chan struct{})
		go func() {
			for range 10 {
				l.Emit(start, KindTaskScheduled, "a", nil)
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Emit blocked on a full subscriber channel")
		}
		require.Len(t, l.Events(), 10)
	})
}
