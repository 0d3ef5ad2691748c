package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_EnvMap_Merge(t *testing.T) {
	t.Run("Should let the override map win on conflicting keys", func(t *testing.T) {
		base := EnvMap{"PATH": "/usr/bin", "FOO": "base"}
		override := EnvMap{"FOO": "override", "BAR": "baz"}

		merged, err := base.Merge(override)

		assert.NoError(t, err)
		assert.Equal(t, "/usr/bin", merged["PATH"])
		assert.Equal(t, "override", merged["FOO"])
		assert.Equal(t, "baz", merged["BAR"])
	})

	t.Run("Should tolerate an empty override", func(t *testing.T) {
		base := EnvMap{"A": "1"}
		merged, err := base.Merge(EnvMap{})
		assert.NoError(t, err)
		assert.Equal(t, EnvMap{"A": "1"}, merged)
	})
}

func Test_ServerEnv(t *testing.T) {
	t.Run("Should carry the process environment forward with overrides applied", func(t *testing.T) {
		t.Setenv("NIKA_TEST_ENV_MARKER", "original")

		env, err := serverEnv(map[string]string{"NIKA_TEST_ENV_MARKER": "overridden", "EXTRA": "x"})

		assert.NoError(t, err)
		assert.Contains(t, env, "NIKA_TEST_ENV_MARKER=overridden")
		assert.Contains(t, env, "EXTRA=x")
	})
}
