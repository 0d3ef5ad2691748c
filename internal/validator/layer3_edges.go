package validator

import (
	"fmt"

	"github.com/supernovae-st/nika/internal/workflow"
)

// ValidateEdges runs Layer 3: every edge's source and target must be a
// known task id, and no edge may be a self-loop.
func ValidateEdges(w *workflow.Workflow) []Issue {
	var issues []Issue

	knownIDs := make(map[string]bool, len(w.Tasks))
	for _, t := range w.Tasks {
		knownIDs[t.ID] = true
	}
	available := w.TaskIDs()

	for _, e := range expandEdges(w) {
		if !knownIDs[e.Source] {
			issues = append(issues, Issue{
				Layer:      LayerEdges,
				Kind:       "EdgeSourceNotFound",
				Message:    fmt.Sprintf("edge source %q does not exist", e.Source),
				Suggestion: availableNodesSuggestion(available),
			})
		}
		if !knownIDs[e.Target] {
			issues = append(issues, Issue{
				Layer:      LayerEdges,
				Kind:       "EdgeTargetNotFound",
				Message:    fmt.Sprintf("edge target %q does not exist", e.Target),
				Suggestion: availableNodesSuggestion(available),
			})
		}
		if e.Source == e.Target {
			issues = append(issues, Issue{
				Layer:   LayerEdges,
				Kind:    "SelfLoop",
				Message: fmt.Sprintf("self-loop detected: node %q connects to itself", e.Source),
			})
		}
	}

	return issues
}

func availableNodesSuggestion(available []string) string {
	if len(available) == 0 {
		return "no nodes available in workflow"
	}
	if len(available) <= 5 {
		return fmt.Sprintf("available nodes: %v", available)
	}
	return fmt.Sprintf("available nodes: %v (and %d more)", available[:3], len(available)-3)
}
