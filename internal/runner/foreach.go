package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/supernovae-st/nika/internal/binding"
	"github.com/supernovae-st/nika/internal/store"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// jobResult is one completed job: either a regular task or one for_each
// iteration (parent/index set in the latter case).
type jobResult struct {
	storeID string
	result  store.TaskResult
	parent  string
	index   int
}

// resolveForEachItems decodes a task's for_each declaration — a literal
// JSON array or a `{{use....}}` template that must resolve to one — into
// the items to fan out over.
func (r *Runner) resolveForEachItems(t *workflow.Task, bound map[string]any) ([]any, error) {
	switch v := t.ForEach.(type) {
	case []any:
		return v, nil
	case string:
		resolved, err := binding.ResolveTemplate(v, bound)
		if err != nil {
			return nil, err
		}
		var items []any
		if err := json.Unmarshal([]byte(resolved), &items); err != nil {
			return nil, nikaerr.New(nikaerr.CodeInvalidJSON,
				fmt.Sprintf("task %q for_each template did not resolve to a JSON array: %v", t.ID, err), err)
		}
		return items, nil
	default:
		return nil, nikaerr.New(nikaerr.CodeInvalidSchema,
			fmt.Sprintf("task %q for_each must be a JSON array or a template string", t.ID), nil)
	}
}

// spawnForEach fans a for_each task out into one job per array item, gated
// by a buffered channel acting as a bounded semaphore, with a shared
// cancellation flag that fail_fast sets on the first iteration failure.
func (r *Runner) spawnForEach(ctx context.Context, t *workflow.Task, bound map[string]any, spawn func(fn func() jobResult)) {
	items, err := r.resolveForEachItems(t, bound)
	if err != nil {
		spawn(func() jobResult {
			return jobResult{storeID: t.ID, result: store.TaskResult{Error: err.Error()}}
		})
		return
	}
	if len(items) == 0 {
		spawn(func() jobResult {
			return jobResult{storeID: t.ID, result: store.TaskResult{Output: []any{}}}
		})
		return
	}

	concurrency := t.ForEachConcurrency()
	failFast := t.ForEachFailFast()
	gate := make(chan struct{}, concurrency)
	var cancelled atomic.Bool
	varName := t.ForEachVar()

	for idx, item := range items {
		idx, item := idx, item
		storeID := fmt.Sprintf("%s[%d]", t.ID, idx)

		spawn(func() jobResult {
			gate <- struct{}{}
			defer func() { <-gate }()

			if failFast && cancelled.Load() {
				return jobResult{
					storeID: storeID,
					parent:  t.ID,
					index:   idx,
					result:  store.TaskResult{Error: "Cancelled due to fail_fast"},
				}
			}

			iterBound := make(map[string]any, len(bound)+1)
			for k, v := range bound {
				iterBound[k] = v
			}
			iterBound[varName] = item

			res := r.executeTaskIteration(ctx, t, storeID, iterBound)
			if !res.IsSuccess() && failFast {
				cancelled.Store(true)
			}
			return jobResult{storeID: storeID, parent: t.ID, index: idx, result: res}
		})
	}
}

// aggregateForEach combines a completed for_each batch's per-index results
// into the single TaskResult stored under the parent task id: each
// iteration's output is re-parsed as JSON (falling back to its raw string)
// and collected in index order.
func aggregateForEach(iterations []jobResult) store.TaskResult {
	outputs := make([]any, len(iterations))
	var total time.Duration
	allSuccess := true
	var errs []string

	for i, jr := range iterations {
		total += jr.result.Duration
		if !jr.result.IsSuccess() {
			allSuccess = false
			errs = append(errs, fmt.Sprintf("[%d]: %s", jr.index, jr.result.Error))
			continue
		}
		outputs[i] = reparseOutput(jr.result.Output)
	}

	if allSuccess {
		return store.TaskResult{Output: outputs, Duration: total}
	}
	return store.TaskResult{Error: strings.Join(errs, "; "), Duration: total}
}

// reparseOutput mirrors the teacher's output_str()-then-reparse step: a
// for_each iteration's output is stringified and re-parsed as JSON,
// falling back to the plain string when it isn't valid JSON.
func reparseOutput(output any) any {
	s := stringifyOutput(output)
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		return parsed
	}
	return s
}
