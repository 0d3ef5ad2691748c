package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/supernovae-st/nika/internal/binding"
	"github.com/supernovae-st/nika/internal/event"
	"github.com/supernovae-st/nika/internal/executor"
	"github.com/supernovae-st/nika/internal/store"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// runBatch spawns one job per ready task (sub-fanning for_each tasks into
// one job per item), awaits the whole batch, aggregates for_each results,
// and writes each plain task's TaskResult and each for_each task's
// aggregated TaskResult to the DataStore (individual iteration results are
// not stored). A panic in any
// job is recovered and reported as a single workflow-level error, matching
// the teacher's join-set-error-as-WorkflowFailed behavior.
func (r *Runner) runBatch(ctx context.Context, tasks []*workflow.Task) error {
	var (
		mu        sync.Mutex
		results   []jobResult
		wg        sync.WaitGroup
		panicOnce sync.Once
		panicErr  error
	)

	spawn := func(fn func() jobResult) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					panicOnce.Do(func() {
						panicErr = nikaerr.New(nikaerr.CodeTaskFailed, fmt.Sprintf("task panicked: %v", p), nil)
					})
				}
			}()
			jr := fn()
			mu.Lock()
			results = append(results, jr)
			mu.Unlock()
		}()
	}

	for _, t := range tasks {
		t := t
		bound, err := r.buildBindings(t)
		if err != nil {
			spawn(func() jobResult {
				r.log.Emit(time.Now(), event.KindTaskFailed, t.ID, map[string]any{"error": err.Error()})
				return jobResult{storeID: t.ID, result: store.TaskResult{Error: err.Error()}}
			})
			continue
		}
		if t.IsForEach() {
			r.spawnForEach(ctx, t, bound, spawn)
			continue
		}
		spawn(func() jobResult {
			res := r.executeTaskIteration(ctx, t, t.ID, bound)
			return jobResult{storeID: t.ID, result: res}
		})
	}

	wg.Wait()
	if panicErr != nil {
		return panicErr
	}

	forEachResults := make(map[string][]jobResult)
	for _, jr := range results {
		if jr.parent != "" {
			forEachResults[jr.parent] = append(forEachResults[jr.parent], jr)
			continue
		}
		if err := r.store.Put(jr.storeID, jr.result); err != nil {
			return err
		}
	}

	for parent, iterations := range forEachResults {
		sort.Slice(iterations, func(i, j int) bool { return iterations[i].index < iterations[j].index })
		if err := r.store.Put(parent, aggregateForEach(iterations)); err != nil {
			return err
		}
	}
	return nil
}

// buildBindings resolves a task's use wiring against the DataStore into
// its ResolvedBindings, ahead of execution (and, for for_each tasks, ahead
// of resolving the fan-out items).
func (r *Runner) buildBindings(t *workflow.Task) (map[string]any, error) {
	if len(t.Use) == 0 {
		return map[string]any{}, nil
	}
	refs, err := binding.ParseUse(t.Use)
	if err != nil {
		return nil, err
	}
	return binding.Resolve(refs, r.store)
}

// executeTaskIteration runs one task execution (a regular task or a single
// for_each item, storeID carrying the `parent[idx]` suffix for the latter):
// emits TaskStarted, invokes the executor, applies the output policy, and
// emits TaskCompleted or TaskFailed.
func (r *Runner) executeTaskIteration(ctx context.Context, t *workflow.Task, storeID string, bound map[string]any) store.TaskResult {
	started := time.Now()
	r.log.Emit(time.Now(), event.KindTaskStarted, storeID, map[string]any{"inputs": bound})

	out, err := r.executor.Execute(ctx, t, bound)
	duration := time.Since(started)
	if err != nil {
		r.log.Emit(time.Now(), event.KindTaskFailed, storeID, map[string]any{
			"error":       err.Error(),
			"duration_ms": duration.Milliseconds(),
		})
		return store.TaskResult{Error: err.Error(), Duration: duration}
	}

	parsed, err := executor.ParseOutput(t.Output, out.Output)
	if err != nil {
		r.log.Emit(time.Now(), event.KindTaskFailed, storeID, map[string]any{
			"error":       err.Error(),
			"duration_ms": duration.Milliseconds(),
		})
		return store.TaskResult{Error: err.Error(), Duration: duration}
	}

	r.log.Emit(time.Now(), event.KindTaskCompleted, storeID, map[string]any{
		"output":      parsed,
		"duration_ms": duration.Milliseconds(),
	})
	return store.TaskResult{Output: parsed, Duration: duration}
}
