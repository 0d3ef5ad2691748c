package nikaerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	t.Run("Should format as [CODE] message", func(t *testing.T) {
		err := New(CodeCycleDetected, "cycle detected: a -> b -> a", nil)
		assert.Equal(t, "[NIKA-020] cycle detected: a -> b -> a", err.Error())
	})
}

func TestError_Unwrap(t *testing.T) {
	t.Run("Should unwrap to the cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := New(CodeIOError, "io failed", cause)
		require.ErrorIs(t, err, cause)
	})

	t.Run("Should unwrap to nil without a cause", func(t *testing.T) {
		err := New(CodeCycleDetected, "cycle", nil)
		assert.Nil(t, err.Unwrap())
	})
}

func TestError_FixSuggestion(t *testing.T) {
	t.Run("Should return the attached suggestion", func(t *testing.T) {
		err := New(CodeUseNotUpstream, "not upstream", nil).
			WithSuggestion("add a flow edge from the source task")
		assert.Equal(t, "add a flow edge from the source task", err.FixSuggestion())
	})

	t.Run("Should return empty string when unset", func(t *testing.T) {
		err := New(CodeUseNotUpstream, "not upstream", nil)
		assert.Empty(t, err.FixSuggestion())
	})
}

func TestError_AsMap(t *testing.T) {
	t.Run("Should expose code, message, details, suggestion", func(t *testing.T) {
		err := New(CodeBindingNotFound, "alias x not found", nil).
			WithDetails(map[string]any{"alias": "x"}).
			WithSuggestion("declare x in the use block")

		m := err.AsMap()
		assert.Equal(t, "NIKA-042", m["code"])
		assert.Equal(t, "alias x not found", m["message"])
		assert.Equal(t, "x", m["details"].(map[string]any)["alias"])
		assert.Equal(t, "declare x in the use block", m["suggestion"])
	})

	t.Run("Should return nil on a nil receiver", func(t *testing.T) {
		var err *Error
		assert.Nil(t, err.AsMap())
	})
}
