package validator

import (
	"errors"
	"fmt"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/supernovae-st/nika/internal/workflow"
)

// ValidateSchema runs Layer 1: required top-level fields (via struct tags,
// the same go-playground/validator approach the CLI's own workflow
// validator uses) plus the exact allowed-schema-version check.
func ValidateSchema(v *govalidator.Validate, w *workflow.Workflow) []Issue {
	var issues []Issue

	if err := v.Struct(w); err != nil {
		var fieldErrs govalidator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				issues = append(issues, Issue{
					Layer:      LayerSchema,
					Severity:   SeverityError,
					Kind:       "MissingField",
					Message:    fmt.Sprintf("missing or invalid required field: %s", fe.Namespace()),
					Suggestion: fmt.Sprintf("add %s (tag: %s)", fe.Field(), fe.Tag()),
				})
			}
		}
	}

	if w.Schema != "" && !workflow.AllowedSchemas[w.Schema] {
		issues = append(issues, Issue{
			Layer:    LayerSchema,
			Severity: SeverityError,
			Kind:     "InvalidFieldType",
			Message:  fmt.Sprintf("unsupported schema version: %q", w.Schema),
			Details:  map[string]any{"schema": w.Schema},
		})
	}

	return issues
}
