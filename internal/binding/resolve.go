package binding

import (
	"fmt"

	"github.com/supernovae-st/nika/internal/store"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// Resolve extracts every Ref's bound value from the data store, returning an
// alias -> value map ready for template substitution. A Ref whose upstream
// task hasn't run yet, or whose path doesn't resolve, falls back to its
// configured default; with no default, resolution fails with the
// underlying NIKA-05x error.
func Resolve(refs []Ref, s *store.DataStore) (map[string]any, error) {
	bound := make(map[string]any, len(refs))
	for _, ref := range refs {
		value, err := resolveOne(ref, s)
		if err != nil {
			if ref.HasDefault {
				bound[ref.Alias] = ref.Default
				continue
			}
			return nil, err
		}
		bound[ref.Alias] = value
	}
	return bound, nil
}

func resolveOne(ref Ref, s *store.DataStore) (any, error) {
	result, ok := s.Get(ref.From)
	if !ok {
		return nil, nikaerr.New(nikaerr.CodeTaskNotFound,
			fmt.Sprintf("task %q has not produced a result yet", ref.From), nil)
	}
	if !result.IsSuccess() {
		return nil, nikaerr.New(nikaerr.CodeTaskFailed,
			fmt.Sprintf("task %q failed: %s", ref.From, result.Error), nil)
	}
	if ref.Path == "" {
		return result.Output, nil
	}
	segments, err := ParsePath(ref.Path)
	if err != nil {
		return nil, err
	}
	return Walk(result.Output, segments)
}
