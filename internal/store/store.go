// Package store holds per-run task results: a thread-safe, write-once map
// from task id to TaskResult.
package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// TaskResult is one task's (or one for_each iteration's) outcome.
type TaskResult struct {
	Output   any           `json:"output"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// IsSuccess reports whether the task completed without error.
func (r TaskResult) IsSuccess() bool {
	return r.Error == ""
}

// OutputJSON marshals Output to JSON bytes, for template resolution and
// event payloads.
func (r TaskResult) OutputJSON() ([]byte, error) {
	return json.Marshal(r.Output)
}

// DataStore is a thread-safe task_id -> TaskResult map. Each id is written
// exactly once. A for_each task is stored only under its own id, as the
// aggregate of its iterations; the indexed iteration ids (`parent[0]`,
// `parent[1]`, ...) are not written to the store.
type DataStore struct {
	mu      sync.RWMutex
	results map[string]TaskResult
}

// New returns an empty DataStore.
func New() *DataStore {
	return &DataStore{results: make(map[string]TaskResult)}
}

// Put records taskID's result. It returns a NIKA-093-family error if
// taskID already has a result, since every id is write-once.
func (s *DataStore) Put(taskID string, result TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[taskID]; exists {
		return nikaerr.New(nikaerr.CodeIOError, fmt.Sprintf("task %q already has a result (write-once store)", taskID), nil)
	}
	s.results[taskID] = result
	return nil
}

// Get returns taskID's result, if any.
func (s *DataStore) Get(taskID string) (TaskResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[taskID]
	return r, ok
}

// Has reports whether taskID has a recorded result.
func (s *DataStore) Has(taskID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.results[taskID]
	return ok
}

// Len returns the number of recorded results.
func (s *DataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Snapshot returns a shallow copy of the store's contents, safe to range
// over without holding the store's lock.
func (s *DataStore) Snapshot() map[string]TaskResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]TaskResult, len(s.results))
	for k, v := range s.results {
		out[k] = v
	}
	return out
}
