package binding

import (
	"fmt"

	"github.com/supernovae-st/nika/internal/flowgraph"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// StaticValidate checks every task's `use` block without running anything:
// that each `from` names a real task, that it's actually upstream of the
// referencing task (per the flow graph), that no task references itself,
// that aliases are unique within a task, and that each path parses under
// the JSONPath subset. It returns every error found rather than stopping at
// the first.
func StaticValidate(w *workflow.Workflow, g *flowgraph.FlowGraph) []error {
	var errs []error
	for _, t := range w.Tasks {
		if len(t.Use) == 0 {
			continue
		}
		refs, err := ParseUse(t.Use)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		seenAlias := make(map[string]bool, len(refs))
		for _, ref := range refs {
			if seenAlias[ref.Alias] {
				errs = append(errs, nikaerr.New(nikaerr.CodeDuplicateAlias,
					fmt.Sprintf("task %q: alias %q is bound more than once", t.ID, ref.Alias), nil))
				continue
			}
			seenAlias[ref.Alias] = true

			if ref.From == t.ID {
				errs = append(errs, nikaerr.New(nikaerr.CodeUseCircularDep,
					fmt.Sprintf("task %q cannot reference its own output", t.ID), nil).
					WithSuggestion("remove the self-reference or wire it from an upstream task"))
				continue
			}

			if _, ok := w.TaskByID(ref.From); !ok {
				errs = append(errs, nikaerr.New(nikaerr.CodeUseUnknownTask,
					fmt.Sprintf("task %q: use references unknown task %q", t.ID, ref.From), nil).
					WithSuggestion(fmt.Sprintf("declare a task with id %q, or fix the typo", ref.From)))
				continue
			}

			if !g.HasPath(ref.From, t.ID) {
				errs = append(errs, nikaerr.New(nikaerr.CodeUseNotUpstream,
					fmt.Sprintf("task %q: %q is not upstream of this task", t.ID, ref.From), nil).
					WithSuggestion(fmt.Sprintf("add a flow edge from %q to %q", ref.From, t.ID)))
				continue
			}

			if ref.Path != "" {
				if _, err := ParsePath(ref.Path); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errs
}
