package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supernovae-st/nika/internal/rules"
	"github.com/supernovae-st/nika/internal/workflow"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	nodeTypes, err := rules.DefaultNodeTypes()
	require.NoError(t, err)
	matrix, err := rules.DefaultParadigmMatrix()
	require.NoError(t, err)
	return New(nodeTypes, matrix)
}

func mustLoad(t *testing.T, doc string) *workflow.Workflow {
	t.Helper()
	w, err := workflow.Load([]byte(doc))
	require.NoError(t, err)
	return w
}

func Test_Validate(t *testing.T) {
	t.Run("Should pass a well-formed exec chain", func(t *testing.T) {
		v := newTestValidator(t)
		w := mustLoad(t, `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: greet
    exec: { command: "echo hello" }
  - id: shout
    exec: { command: "echo DONE" }
flows:
  - source: greet
    target: shout
`)
		result := v.Validate(w)
		assert.True(t, result.IsValid())
	})

	t.Run("Should reject isolated to context as the key paradigm rule", func(t *testing.T) {
		v := newTestValidator(t)
		w := mustLoad(t, `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: expert1
    type: isolated
    exec: { command: "true" }
  - id: prompt1
    type: context
    exec: { command: "true" }
flows:
  - source: expert1
    target: prompt1
`)
		result := v.Validate(w)
		require.False(t, result.IsValid())
		require.Len(t, result.Errors, 1)

		issue := result.Errors[0]
		assert.Equal(t, LayerParadigms, issue.Layer)
		assert.Contains(t, issue.Suggestion, "bridge pattern")
		assert.Contains(t, issue.Suggestion, "🤖")
		assert.Contains(t, issue.Suggestion, "🧠")
	})

	t.Run("Should reject isolated to isolated with an orchestration suggestion", func(t *testing.T) {
		v := newTestValidator(t)
		w := mustLoad(t, `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: a
    type: isolated
    exec: { command: "true" }
  - id: b
    type: isolated
    exec: { command: "true" }
flows:
  - source: a
    target: b
`)
		result := v.Validate(w)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0].Suggestion, "orchestrated")
	})

	t.Run("Should allow data to context, data to isolated, and context to isolated", func(t *testing.T) {
		v := newTestValidator(t)
		w := mustLoad(t, `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: d
    type: data
    exec: { command: "true" }
  - id: c
    type: context
    exec: { command: "true" }
  - id: i
    type: isolated
    exec: { command: "true" }
flows:
  - source: d
    target: [c, i]
  - source: c
    target: i
`)
		result := v.Validate(w)
		assert.True(t, result.IsValid())
	})

	t.Run("Should report duplicate node ids", func(t *testing.T) {
		v := newTestValidator(t)
		w := &workflow.Workflow{
			Schema: "nika/workflow@0.5",
			Tasks: []*workflow.Task{
				{ID: "dup", Type: "data"},
				{ID: "dup", Type: "data"},
			},
		}
		w.Index()
		result := v.Validate(w)
		found := false
		for _, issue := range result.Errors {
			if issue.Kind == "DuplicateNodeId" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("Should report an unknown node type", func(t *testing.T) {
		v := newTestValidator(t)
		w := mustLoad(t, `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: weird
    type: nika/transfrm
    exec: { command: "true" }
flows: []
`)
		result := v.Validate(w)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, "UnknownNodeType", result.Errors[0].Kind)
	})

	t.Run("Should report a missing edge endpoint", func(t *testing.T) {
		v := newTestValidator(t)
		w := &workflow.Workflow{
			Schema: "nika/workflow@0.5",
			Tasks:  []*workflow.Task{{ID: "a", Type: "data"}},
			Flows: []workflow.Flow{
				{Source: workflow.StringOrList{Values: []string{"a"}}, Target: workflow.StringOrList{Values: []string{"ghost"}}},
			},
		}
		w.Index()
		result := v.Validate(w)
		found := false
		for _, issue := range result.Errors {
			if issue.Kind == "EdgeTargetNotFound" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("Should report a self-loop", func(t *testing.T) {
		v := newTestValidator(t)
		w := &workflow.Workflow{
			Schema: "nika/workflow@0.5",
			Tasks:  []*workflow.Task{{ID: "a", Type: "data"}},
			Flows: []workflow.Flow{
				{Source: workflow.StringOrList{Values: []string{"a"}}, Target: workflow.StringOrList{Values: []string{"a"}}},
			},
		}
		w.Index()
		result := v.Validate(w)
		found := false
		for _, issue := range result.Errors {
			if issue.Kind == "SelfLoop" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("Should warn on orphan nodes", func(t *testing.T) {
		v := newTestValidator(t)
		w := mustLoad(t, `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: lonely
    type: data
    exec: { command: "true" }
flows: []
`)
		result := v.Validate(w)
		assert.True(t, result.IsValid())
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "OrphanNode", result.Warnings[0].Kind)
	})

	t.Run("Should warn on the first detected cycle", func(t *testing.T) {
		v := newTestValidator(t)
		w := mustLoad(t, `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: x
    type: data
    exec: { command: "true" }
  - id: y
    type: data
    exec: { command: "true" }
flows:
  - source: x
    target: y
  - source: y
    target: x
`)
		result := v.Validate(w)
		found := false
		for _, issue := range result.Warnings {
			if issue.Kind == "CycleDetected" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("Should error on an unsupported schema version", func(t *testing.T) {
		v := newTestValidator(t)
		w := mustLoad(t, `
schema: nika/workflow@9.9
provider: mock
tasks:
  - id: a
    type: data
    exec: { command: "true" }
flows: []
`)
		result := v.Validate(w)
		require.False(t, result.IsValid())
		found := false
		for _, issue := range result.Errors {
			if issue.Layer == LayerSchema {
				found = true
			}
		}
		assert.True(t, found)
	})
}
