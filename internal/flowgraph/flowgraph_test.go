package flowgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supernovae-st/nika/internal/workflow"
)

const diamondYAML = `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: a
    exec: { command: "echo a" }
  - id: b
    exec: { command: "echo b" }
  - id: c
    exec: { command: "echo c" }
  - id: d
    exec: { command: "echo d" }
flows:
  - source: a
    target: [b, c]
  - source: [b, c]
    target: d
`

func mustLoad(t *testing.T, doc string) *workflow.Workflow {
	t.Helper()
	w, err := workflow.Load([]byte(doc))
	require.NoError(t, err)
	return w
}

func Test_FromWorkflow(t *testing.T) {
	t.Run("Should expand list source/target into a Cartesian adjacency", func(t *testing.T) {
		g := FromWorkflow(mustLoad(t, diamondYAML))

		assert.ElementsMatch(t, []string{"b", "c"}, g.Succs("a"))
		assert.ElementsMatch(t, []string{"d"}, g.Succs("b"))
		assert.ElementsMatch(t, []string{"d"}, g.Succs("c"))
		assert.Empty(t, g.Succs("d"))

		assert.ElementsMatch(t, []string{"a"}, g.Deps("b"))
		assert.ElementsMatch(t, []string{"a"}, g.Deps("c"))
		assert.ElementsMatch(t, []string{"b", "c"}, g.Deps("d"))
		assert.Empty(t, g.Deps("a"))
	})

	t.Run("Should return an empty slice for unknown task ids", func(t *testing.T) {
		g := FromWorkflow(mustLoad(t, diamondYAML))
		assert.Empty(t, g.Deps("nope"))
		assert.Empty(t, g.Succs("nope"))
	})
}

func Test_FinalTasks(t *testing.T) {
	t.Run("Should find the single sink task", func(t *testing.T) {
		g := FromWorkflow(mustLoad(t, diamondYAML))
		assert.Equal(t, []string{"d"}, g.FinalTasks())
	})
}

func Test_HasPath(t *testing.T) {
	g := FromWorkflow(mustLoad(t, diamondYAML))

	t.Run("Should find a transitive path", func(t *testing.T) {
		assert.True(t, g.HasPath("a", "d"))
	})

	t.Run("Should short-circuit true for a node and itself", func(t *testing.T) {
		assert.True(t, g.HasPath("b", "b"))
	})

	t.Run("Should report false when no path exists", func(t *testing.T) {
		assert.False(t, g.HasPath("d", "a"))
		assert.False(t, g.HasPath("b", "c"))
	})
}

func Test_TopoSort(t *testing.T) {
	t.Run("Should order a linear chain", func(t *testing.T) {
		w := mustLoad(t, `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: step1
    exec: { command: "echo 1" }
  - id: step2
    exec: { command: "echo 2" }
flows:
  - source: step1
    target: step2
`)
		g := FromWorkflow(w)
		order, err := g.TopoSort()
		require.NoError(t, err)
		assert.Equal(t, []string{"step1", "step2"}, order)
	})

	t.Run("Should place every task exactly once in a diamond", func(t *testing.T) {
		g := FromWorkflow(mustLoad(t, diamondYAML))
		order, err := g.TopoSort()
		require.NoError(t, err)
		assert.Len(t, order, 4)

		pos := make(map[string]int, len(order))
		for i, id := range order {
			pos[id] = i
		}
		assert.Less(t, pos["a"], pos["b"])
		assert.Less(t, pos["a"], pos["c"])
		assert.Less(t, pos["b"], pos["d"])
		assert.Less(t, pos["c"], pos["d"])
	})

	t.Run("Should error on a cycle", func(t *testing.T) {
		w := mustLoad(t, `
schema: nika/workflow@0.5
provider: mock
tasks:
  - id: x
    exec: { command: "echo x" }
  - id: y
    exec: { command: "echo y" }
flows:
  - source: x
    target: y
  - source: y
    target: x
`)
		g := FromWorkflow(w)
		_, err := g.TopoSort()
		require.Error(t, err)
	})
}
