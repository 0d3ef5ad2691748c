package validator

import (
	"fmt"

	"github.com/supernovae-st/nika/internal/rules"
	"github.com/supernovae-st/nika/internal/workflow"
)

// ValidateParadigms runs Layer 4, the core Nika rule: for every edge, the
// source and target paradigms must be a permitted connection per matrix.
// Edges whose endpoints don't exist, or whose node type isn't registered,
// are skipped — Layers 2/3 already report those.
func ValidateParadigms(w *workflow.Workflow, nodeTypes *rules.NodeTypes, matrix *rules.ParadigmMatrix) []Issue {
	var issues []Issue

	for _, e := range expandEdges(w) {
		sourceTask, ok := w.TaskByID(e.Source)
		if !ok {
			continue
		}
		targetTask, ok := w.TaskByID(e.Target)
		if !ok {
			continue
		}

		sourceParadigm, ok := nodeTypes.GetParadigm(sourceTask.NodeType())
		if !ok {
			continue
		}
		targetParadigm, ok := nodeTypes.GetParadigm(targetTask.NodeType())
		if !ok {
			continue
		}

		if matrix.IsConnectionAllowed(sourceParadigm, targetParadigm) {
			continue
		}

		sourceSymbol, _ := matrix.GetSymbol(sourceParadigm)
		targetSymbol, _ := matrix.GetSymbol(targetParadigm)

		var suggestion string
		switch {
		case sourceParadigm == "isolated" && targetParadigm == "context":
			suggestion = fmt.Sprintf("use bridge pattern: %s %s → ⚡ [data node] → %s %s",
				sourceSymbol, e.Source, targetSymbol, e.Target)
		case sourceParadigm == "isolated" && targetParadigm == "isolated":
			suggestion = "isolated agents must be orchestrated by the main agent, not each other"
		default:
			suggestion = fmt.Sprintf("connection from %s to %s is not allowed", sourceParadigm, targetParadigm)
		}

		issues = append(issues, Issue{
			Layer:      LayerParadigms,
			Kind:       "InvalidParadigmConnection",
			Message:    fmt.Sprintf("invalid connection: %s (%s %s) → %s (%s %s)", sourceTask.NodeType(), sourceSymbol, sourceParadigm, targetTask.NodeType(), targetSymbol, targetParadigm),
			Suggestion: suggestion,
			Details: map[string]any{
				"source_id": e.Source,
				"target_id": e.Target,
			},
		})
	}

	return issues
}
