// Package flowgraph builds the task-dependency DAG from a workflow's flows
// and answers adjacency, reachability, and ordering queries over it.
package flowgraph

import (
	"fmt"

	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

var emptyIDs = []string{}

// FlowGraph is the task dependency graph built once from a workflow's
// declared flows. source/target endpoint lists are Cartesian-expanded into
// individual adjacency edges.
type FlowGraph struct {
	adjacency    map[string][]string
	predecessors map[string][]string
	taskIDs      []string
}

// FromWorkflow builds a FlowGraph from w.Tasks and w.Flows.
func FromWorkflow(w *workflow.Workflow) *FlowGraph {
	capacity := len(w.Tasks)
	g := &FlowGraph{
		adjacency:    make(map[string][]string, capacity),
		predecessors: make(map[string][]string, capacity),
		taskIDs:      make([]string, 0, capacity),
	}
	for _, t := range w.Tasks {
		g.taskIDs = append(g.taskIDs, t.ID)
		g.adjacency[t.ID] = nil
		g.predecessors[t.ID] = nil
	}
	for _, flow := range w.Flows {
		for _, source := range flow.Source.AsSlice() {
			for _, target := range flow.Target.AsSlice() {
				g.adjacency[source] = append(g.adjacency[source], target)
				g.predecessors[target] = append(g.predecessors[target], source)
			}
		}
	}
	return g
}

// Deps returns task_id's dependencies (predecessors), in declaration order.
// The returned slice is shared; callers must not mutate it.
func (g *FlowGraph) Deps(taskID string) []string {
	if v, ok := g.predecessors[taskID]; ok {
		return v
	}
	return emptyIDs
}

// Succs returns task_id's successors, in declaration order. The returned
// slice is shared; callers must not mutate it.
func (g *FlowGraph) Succs(taskID string) []string {
	if v, ok := g.adjacency[taskID]; ok {
		return v
	}
	return emptyIDs
}

// FinalTasks returns the ids of tasks with no successors.
func (g *FlowGraph) FinalTasks() []string {
	var out []string
	for _, id := range g.taskIDs {
		if len(g.adjacency[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// HasPath reports whether a directed path exists from `from` to `to`, via
// BFS over the adjacency map. A node always has a path to itself.
func (g *FlowGraph) HasPath(from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbor := range g.adjacency[current] {
			if neighbor == to {
				return true
			}
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}
	return false
}

// TopoSort returns a valid execution order via Kahn's algorithm. It returns
// a NIKA-020 CycleDetected error if any task is unreachable from the
// zero-in-degree frontier (the hallmark of a cycle).
func (g *FlowGraph) TopoSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.taskIDs))
	for _, id := range g.taskIDs {
		inDegree[id] = 0
	}
	for _, id := range g.taskIDs {
		for _, succ := range g.adjacency[id] {
			inDegree[succ]++
		}
	}

	var queue []string
	for _, id := range g.taskIDs {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	result := make([]string, 0, len(g.taskIDs))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)
		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.taskIDs) {
		return nil, nikaerr.New(nikaerr.CodeCycleDetected,
			fmt.Sprintf("workflow has cycles: only %d of %d tasks are orderable", len(result), len(g.taskIDs)), nil)
	}
	return result, nil
}
