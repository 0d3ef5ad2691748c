// Package binding resolves a task's `use` wiring block — both the static
// shape of each reference and, at run time, the value it extracts from an
// upstream task's output — plus `{{use.alias.path}}` template substitution.
package binding

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// Segment is one step of a parsed JSONPath-subset expression: a field name,
// optionally followed by a non-negative array index.
type Segment struct {
	Field string
	Index *int
	HasIx bool
}

var segmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\[\d+\])?$`)

// unsupportedMarkers are substrings that identify JSONPath forms this subset
// explicitly rejects: wildcards, filters, slices, unions, and descendant
// search. Detected ahead of segment splitting so the error names the
// offending construct rather than failing an opaque grammar match.
var unsupportedMarkers = []string{"*", "?(", "..", ":", ","}

// ParsePath parses a JSONPath-subset expression into its segments. A
// leading "$." is optional and stripped. Any unsupported construct — `*`,
// `?(...)`, slices (`a:b`), unions (`,`), or descendant search (`..`) —
// returns a NIKA-090 JsonPathUnsupported error.
func ParsePath(path string) ([]Segment, error) {
	trimmed := strings.TrimPrefix(path, "$.")
	trimmed = strings.TrimPrefix(trimmed, "$")
	trimmed = strings.TrimPrefix(trimmed, ".")

	for _, marker := range unsupportedMarkers {
		if strings.Contains(path, marker) {
			return nil, nikaerr.New(nikaerr.CodeJSONPathUnsupported,
				fmt.Sprintf("unsupported JSONPath construct %q in path %q", marker, path), nil).
				WithSuggestion("use only dotted field segments with an optional [N] index")
		}
	}

	if trimmed == "" {
		return nil, nil
	}

	var segments []Segment
	for _, part := range strings.Split(trimmed, ".") {
		if part == "" {
			return nil, nikaerr.New(nikaerr.CodeInvalidPath, fmt.Sprintf("empty path segment in %q", path), nil)
		}
		if !segmentPattern.MatchString(part) {
			return nil, nikaerr.New(nikaerr.CodeInvalidPath, fmt.Sprintf("invalid path segment %q in %q", part, path), nil)
		}
		seg := Segment{}
		if bracket := strings.IndexByte(part, '['); bracket >= 0 {
			seg.Field = part[:bracket]
			idxStr := part[bracket+1 : len(part)-1]
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 {
				return nil, nikaerr.New(nikaerr.CodeInvalidPath, fmt.Sprintf("invalid array index in %q", part), nil)
			}
			seg.Index = &idx
			seg.HasIx = true
		} else {
			seg.Field = part
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// Walk navigates value by segments, returning the matched sub-value. value
// is re-encoded as JSON and the segments are translated into a gjson
// dotted-path expression, so the traversal semantics (missing map key,
// out-of-range index, indexing into a non-container) are exactly gjson's
// own "doesn't exist" rules rather than a hand-rolled walk. Returns a
// NIKA-052 PathNotFound error if the path doesn't resolve.
func Walk(value any, segments []Segment) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, nikaerr.New(nikaerr.CodePathNotFound,
			fmt.Sprintf("value is not JSON-representable: %v", err), err)
	}

	parts := make([]string, 0, len(segments)*2)
	for _, seg := range segments {
		parts = append(parts, seg.Field)
		if seg.HasIx {
			parts = append(parts, strconv.Itoa(*seg.Index))
		}
	}
	gpath := strings.Join(parts, ".")

	result := gjson.GetBytes(raw, gpath)
	if !result.Exists() {
		return nil, nikaerr.New(nikaerr.CodePathNotFound,
			fmt.Sprintf("path %q not found", gpath), nil)
	}
	return result.Value(), nil
}
