package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorkflow = `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: fetch
    exec: {command: "echo hello"}
  - id: summarize
    use:
      text: fetch
    infer: {prompt: "summarize {{use.text}}"}
flows:
  - source: fetch
    target: summarize
`

func writeWorkflow(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleWorkflow), 0o600))
	return path
}

func Test_RunValidate(t *testing.T) {
	t.Run("Should pass validation for a well-formed workflow", func(t *testing.T) {
		err := runValidate(writeWorkflow(t))
		assert.NoError(t, err)
	})

	t.Run("Should fail validation for a missing file", func(t *testing.T) {
		err := runValidate(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func Test_RunPlan(t *testing.T) {
	t.Run("Should print a valid topological order without error", func(t *testing.T) {
		err := runPlan(writeWorkflow(t))
		assert.NoError(t, err)
	})
}

func Test_RunRun(t *testing.T) {
	t.Run("Should run a workflow end to end through the mock provider", func(t *testing.T) {
		path := writeWorkflow(t)
		eventsPath := filepath.Join(t.TempDir(), "events.json")

		err := runRun(context.Background(), path, eventsPath, testConfig())
		require.NoError(t, err)

		data, err := os.ReadFile(eventsPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "workflow_started")
		assert.Contains(t, string(data), "workflow_completed")
	})
}
