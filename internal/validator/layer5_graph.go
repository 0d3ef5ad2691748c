package validator

import (
	"fmt"
	"strings"

	"github.com/supernovae-st/nika/internal/workflow"
)

// ValidateGraph runs Layer 5: orphan nodes, nodes unreachable from any root
// (a root is a node with no incoming edges), and the first cycle found —
// all reported as warnings, never errors, since a cycle or an orphan node
// may be intentional during authoring.
func ValidateGraph(w *workflow.Workflow) []Issue {
	if len(w.Tasks) == 0 {
		return nil
	}

	outgoing := make(map[string][]string, len(w.Tasks))
	incoming := make(map[string][]string, len(w.Tasks))
	for _, t := range w.Tasks {
		outgoing[t.ID] = nil
		incoming[t.ID] = nil
	}
	for _, e := range expandEdges(w) {
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
		incoming[e.Target] = append(incoming[e.Target], e.Source)
	}

	var issues []Issue

	for _, t := range w.Tasks {
		if len(outgoing[t.ID]) == 0 && len(incoming[t.ID]) == 0 {
			issues = append(issues, Issue{
				Layer:    LayerGraph,
				Severity: SeverityWarning,
				Kind:     "OrphanNode",
				Message:  fmt.Sprintf("orphan node %q has no connections", t.ID),
			})
		}
	}

	var roots []string
	isRoot := make(map[string]bool, len(w.Tasks))
	for _, t := range w.Tasks {
		if len(incoming[t.ID]) == 0 {
			roots = append(roots, t.ID)
			isRoot[t.ID] = true
		}
	}

	reachable := make(map[string]bool, len(w.Tasks))
	queue := append([]string{}, roots...)
	for _, r := range roots {
		reachable[r] = true
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range outgoing[node] {
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, t := range w.Tasks {
		if !reachable[t.ID] && !isRoot[t.ID] {
			issues = append(issues, Issue{
				Layer:    LayerGraph,
				Severity: SeverityWarning,
				Kind:     "UnreachableNode",
				Message:  fmt.Sprintf("node %q is not reachable from any workflow root", t.ID),
			})
		}
	}

	if cycle := firstCycle(w, outgoing); cycle != "" {
		issues = append(issues, Issue{
			Layer:    LayerGraph,
			Severity: SeverityWarning,
			Kind:     "CycleDetected",
			Message:  fmt.Sprintf("cycle detected: %s", cycle),
		})
	}

	return issues
}

// firstCycle runs DFS with a recursion stack over every task, returning the
// first cycle found as "a → b → c → a", or "" if the graph is acyclic.
func firstCycle(w *workflow.Workflow, outgoing map[string][]string) string {
	visited := make(map[string]bool, len(w.Tasks))
	onStack := make(map[string]bool, len(w.Tasks))
	var path []string

	var visit func(node string) string
	visit = func(node string) string {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, next := range outgoing[node] {
			if !visited[next] {
				if cycle := visit(next); cycle != "" {
					return cycle
				}
			} else if onStack[next] {
				start := 0
				for i, id := range path {
					if id == next {
						start = i
						break
					}
				}
				cycleNodes := append(append([]string{}, path[start:]...), next)
				return strings.Join(cycleNodes, " → ")
			}
		}

		onStack[node] = false
		path = path[:len(path)-1]
		return ""
	}

	for _, t := range w.Tasks {
		if !visited[t.ID] {
			if cycle := visit(t.ID); cycle != "" {
				return cycle
			}
		}
	}
	return ""
}
