package validator

import "github.com/supernovae-st/nika/internal/workflow"

// edge is one Cartesian-expanded (source, target) pair from a Flow.
type edge struct {
	Source string
	Target string
}

// expandEdges expands every Flow's source/target endpoint lists into
// individual edges, in declaration order.
func expandEdges(w *workflow.Workflow) []edge {
	var edges []edge
	for _, flow := range w.Flows {
		for _, source := range flow.Source.AsSlice() {
			for _, target := range flow.Target.AsSlice() {
				edges = append(edges, edge{Source: source, Target: target})
			}
		}
	}
	return edges
}
