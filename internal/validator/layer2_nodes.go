package validator

import (
	"fmt"
	"regexp"

	"github.com/supernovae-st/nika/internal/rules"
	"github.com/supernovae-st/nika/internal/workflow"
)

var idGrammar = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateNodes runs Layer 2: id uniqueness, id grammar, and node-type
// existence against nodeTypes (custom nodes already merged in by the
// caller). Visual-only types warn instead of erroring.
func ValidateNodes(w *workflow.Workflow, nodeTypes *rules.NodeTypes) []Issue {
	var issues []Issue

	seen := make(map[string]bool, len(w.Tasks))
	for _, t := range w.Tasks {
		if seen[t.ID] {
			issues = append(issues, Issue{
				Layer:   LayerNodes,
				Kind:    "DuplicateNodeId",
				Message: fmt.Sprintf("duplicate node id: %q", t.ID),
			})
		}
		seen[t.ID] = true
	}

	for _, t := range w.Tasks {
		if !idGrammar.MatchString(t.ID) {
			issues = append(issues, Issue{
				Layer:      LayerNodes,
				Kind:       "InvalidNodeIdFormat",
				Message:    fmt.Sprintf("invalid node id format: %q", t.ID),
				Suggestion: "node id must start with a letter and contain only alphanumeric characters, hyphens, or underscores",
			})
		}
	}

	for _, t := range w.Tasks {
		nodeType := t.NodeType()
		switch {
		case nodeTypes.IsVisualType(nodeType):
			issues = append(issues, Issue{
				Layer:    LayerNodes,
				Severity: SeverityWarning,
				Kind:     "VisualNodeType",
				Message:  fmt.Sprintf("node %q has visual-only type %q (Studio use only, not part of execution standard)", t.ID, nodeType),
			})
		case !nodeTypes.IsValidType(nodeType):
			similar := nodeTypes.FindSimilar(nodeType, 3)
			issue := Issue{
				Layer:   LayerNodes,
				Kind:    "UnknownNodeType",
				Message: fmt.Sprintf("node %q has unknown type %q", t.ID, nodeType),
				Details: map[string]any{"suggestions": similar},
			}
			if len(similar) > 0 {
				issue.Suggestion = fmt.Sprintf("did you mean: %v?", similar)
			}
			issues = append(issues, issue)
		}
	}

	return issues
}
