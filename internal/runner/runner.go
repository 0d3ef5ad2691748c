// Package runner drives one workflow run to completion: it computes the
// ready set of tasks against the DataStore, fans each batch out in
// parallel (with for_each sub-fan-out and aggregation), emits the full
// event sequence, and returns the final task's output.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/supernovae-st/nika/internal/binding"
	"github.com/supernovae-st/nika/internal/event"
	"github.com/supernovae-st/nika/internal/executor"
	"github.com/supernovae-st/nika/internal/flowgraph"
	"github.com/supernovae-st/nika/internal/store"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// NikaVersion is reported on every WorkflowStarted event.
const NikaVersion = "0.1.0"

// Runner owns the Workflow, FlowGraph, DataStore, EventLog, and
// TaskExecutor for one run. Its single public operation is Run.
type Runner struct {
	workflow *workflow.Workflow
	graph    *flowgraph.FlowGraph
	store    *store.DataStore
	executor *executor.TaskExecutor
	log      *event.Log
}

// New builds a Runner over an already-validated workflow and its flow
// graph. Callers that want to observe events as they're emitted should
// subscribe to Log() before calling Run.
func New(w *workflow.Workflow, g *flowgraph.FlowGraph, exec *executor.TaskExecutor) *Runner {
	return &Runner{
		workflow: w,
		graph:    g,
		store:    store.New(),
		executor: exec,
		log:      event.NewLog(time.Now()),
	}
}

// Log returns the run's event log, for subscribing (cli --events) or for
// reading back the full sequence once Run returns.
func (r *Runner) Log() *event.Log {
	return r.log
}

// Store returns the run's DataStore, read-only from the caller's
// perspective once Run has returned.
func (r *Runner) Store() *store.DataStore {
	return r.store
}

// Run executes the workflow to completion and returns the first successful
// final task's output, or an error if use-wiring is invalid, a deadlock is
// detected, or a task job panics.
func (r *Runner) Run(ctx context.Context) (string, error) {
	start := time.Now()

	if errs := binding.StaticValidate(r.workflow, r.graph); len(errs) > 0 {
		return "", errs[0]
	}

	generationID := "gen-" + uuid.New().String()
	r.log.Emit(time.Now(), event.KindWorkflowStarted, "", map[string]any{
		"task_count":    len(r.workflow.Tasks),
		"generation_id": generationID,
		"nika_version":  NikaVersion,
	})

	for {
		ready := r.getReadyTasks()
		if len(ready) == 0 {
			if r.allDone() {
				break
			}
			err := nikaerr.New(nikaerr.CodeTaskFailed,
				"Deadlock: ready set is empty but not every task has a result (an upstream failure blocked its dependents)", nil)
			r.log.Emit(time.Now(), event.KindWorkflowFailed, "", map[string]any{"error": err.Error()})
			return "", err
		}

		for _, t := range ready {
			r.log.Emit(time.Now(), event.KindTaskScheduled, t.ID, map[string]any{
				"dependencies": r.graph.Deps(t.ID),
			})
		}

		if err := r.runBatch(ctx, ready); err != nil {
			r.log.Emit(time.Now(), event.KindWorkflowFailed, "", map[string]any{"error": err.Error()})
			return "", err
		}
	}

	output := r.finalOutput()
	r.log.Emit(time.Now(), event.KindWorkflowCompleted, "", map[string]any{
		"final_output":      output,
		"total_duration_ms": time.Since(start).Milliseconds(),
	})
	return output, nil
}

// getReadyTasks returns, in declaration order, every task with no recorded
// result whose dependencies are all recorded and successful.
func (r *Runner) getReadyTasks() []*workflow.Task {
	var ready []*workflow.Task
	for _, t := range r.workflow.Tasks {
		if r.store.Has(t.ID) {
			continue
		}
		blocked := false
		for _, dep := range r.graph.Deps(t.ID) {
			res, ok := r.store.Get(dep)
			if !ok || !res.IsSuccess() {
				blocked = true
				break
			}
		}
		if !blocked {
			ready = append(ready, t)
		}
	}
	return ready
}

// allDone reports whether every declared task already has a recorded
// result.
func (r *Runner) allDone() bool {
	return r.store.Len() >= len(r.workflow.Tasks)
}

// finalOutput returns the first successful final task's output, stringified,
// or "" if none of the final tasks succeeded.
func (r *Runner) finalOutput() string {
	for _, id := range r.graph.FinalTasks() {
		res, ok := r.store.Get(id)
		if ok && res.IsSuccess() {
			return stringifyOutput(res.Output)
		}
	}
	return ""
}

func stringifyOutput(output any) string {
	if s, ok := output.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", output)
}
