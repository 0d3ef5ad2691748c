package executor

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"

	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// ParseOutput interprets raw per policy: `format: raw` (the default) passes
// the string through unchanged; `format: json` parses it and, when
// policy.Schema is set, validates the parsed value against it.
func ParseOutput(policy *workflow.OutputPolicy, raw string) (any, error) {
	if policy == nil || policy.Format != workflow.OutputJSON {
		return raw, nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, nikaerr.New(nikaerr.CodeInvalidJSON, fmt.Sprintf("output is not valid JSON: %v", err), err)
	}
	if policy.Schema == nil {
		return parsed, nil
	}

	schemaJSON, err := json.Marshal(policy.Schema)
	if err != nil {
		return nil, nikaerr.New(nikaerr.CodeInvalidSchema, fmt.Sprintf("output.schema is not serializable: %v", err), err)
	}
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(schemaJSON)
	if err != nil {
		return nil, nikaerr.New(nikaerr.CodeInvalidSchema, fmt.Sprintf("output.schema failed to compile: %v", err), err)
	}
	result := schema.Validate(parsed)
	if !result.IsValid() {
		return nil, nikaerr.New(nikaerr.CodeSchemaFailed, "output did not satisfy its declared schema", nil).
			WithDetails(map[string]any{"errors": result.Errors})
	}
	return parsed, nil
}
