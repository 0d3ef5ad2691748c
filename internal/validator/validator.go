package validator

import (
	govalidator "github.com/go-playground/validator/v10"

	"github.com/supernovae-st/nika/internal/rules"
	"github.com/supernovae-st/nika/internal/workflow"
)

// Validator runs all five layers against a parsed workflow, consulting a
// shared node-type registry and paradigm matrix (custom nodes already
// merged in by the caller, per spec.md §4.1).
type Validator struct {
	NodeTypes *rules.NodeTypes
	Matrix    *rules.ParadigmMatrix

	schemaValidator *govalidator.Validate
}

// New builds a Validator over the given rule tables.
func New(nodeTypes *rules.NodeTypes, matrix *rules.ParadigmMatrix) *Validator {
	return &Validator{
		NodeTypes:       nodeTypes,
		Matrix:          matrix,
		schemaValidator: govalidator.New(),
	}
}

// Validate runs Layers 1-5 in order and returns the aggregated Result.
func (v *Validator) Validate(w *workflow.Workflow) *Result {
	result := &Result{}
	result.Add(ValidateSchema(v.schemaValidator, w)...)
	result.Add(ValidateNodes(w, v.NodeTypes)...)
	result.Add(ValidateEdges(w)...)
	result.Add(ValidateParadigms(w, v.NodeTypes, v.Matrix)...)
	result.Add(ValidateGraph(w)...)
	return result
}
