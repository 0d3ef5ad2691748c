package binding

import (
	"fmt"
	"strings"

	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// Ref is one parsed `use` entry: extract Path from From's output, binding
// the result to Alias. HasDefault/Default apply when Path doesn't resolve.
type Ref struct {
	Alias      string
	From       string
	Path       string
	Default    any
	HasDefault bool
}

// ParseUse expands a task's `use` block into its flat list of Refs,
// resolving the path-string, batch, and advanced-object forms documented in
// spec.md §6.
func ParseUse(use map[string]any) ([]Ref, error) {
	var refs []Ref
	for key, value := range use {
		switch v := value.(type) {
		case string:
			ref, err := parsePathForm(key, v)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)

		case []any:
			fields := make([]string, 0, len(v))
			for _, item := range v {
				field, ok := item.(string)
				if !ok {
					return nil, nikaerr.New(nikaerr.CodeInvalidPath,
						fmt.Sprintf("batch use entry %q must list field name strings", key), nil)
				}
				fields = append(fields, field)
			}
			batchRefs, err := parseBatchForm(key, fields)
			if err != nil {
				return nil, err
			}
			refs = append(refs, batchRefs...)

		case map[string]any:
			ref, err := parseAdvancedForm(key, v)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)

		default:
			return nil, nikaerr.New(nikaerr.CodeInvalidPath,
				fmt.Sprintf("use entry %q has an unsupported shape", key), nil)
		}
	}
	return refs, nil
}

// parsePathForm handles `alias: "taskId.a.b[0]"`: the task id is the first
// dotted segment, everything after is the JSONPath-subset path.
func parsePathForm(alias, value string) (Ref, error) {
	from, path, err := splitTaskAndPath(value)
	if err != nil {
		return Ref{}, err
	}
	return Ref{Alias: alias, From: from, Path: path}, nil
}

// parseBatchForm handles `"taskId.path": [field1, field2, ...]`: one alias
// per field, named after the field, each extracting `path.field`.
func parseBatchForm(key string, fields []string) ([]Ref, error) {
	from, basePath, err := splitTaskAndPath(key)
	if err != nil {
		return nil, err
	}
	refs := make([]Ref, 0, len(fields))
	for _, field := range fields {
		path := field
		if basePath != "" {
			path = basePath + "." + field
		}
		refs = append(refs, Ref{Alias: field, From: from, Path: path})
	}
	return refs, nil
}

// parseAdvancedForm handles `alias: { from, path?, default? }`.
func parseAdvancedForm(alias string, raw map[string]any) (Ref, error) {
	from, _ := raw["from"].(string)
	if from == "" {
		return Ref{}, nikaerr.New(nikaerr.CodeInvalidPath, fmt.Sprintf("use entry %q missing required 'from'", alias), nil)
	}
	path, _ := raw["path"].(string)
	ref := Ref{Alias: alias, From: from, Path: path}
	if def, ok := raw["default"]; ok {
		ref.Default = def
		ref.HasDefault = true
	}
	return ref, nil
}

// splitTaskAndPath splits "taskId.a.b[0]" into ("taskId", "a.b[0]"); a bare
// "taskId" (no path) yields an empty path, meaning "the whole output".
func splitTaskAndPath(value string) (from, path string, err error) {
	idx := strings.IndexByte(value, '.')
	if idx < 0 {
		return value, "", nil
	}
	return value[:idx], value[idx+1:], nil
}
