// Package nikaerr implements Nika's stable NIKA-NNN error code families.
//
// Code ranges:
//
//	000-009 workflow parse/schema   050-059 path/task        110-119 agent
//	010-019 schema version          060-069 output            120-129 resilience
//	020-029 DAG                     070-079 use block          130-139 TUI (reserved)
//	030-039 provider                080-089 DAG validation     140-149 config
//	040-049 template/binding        090-099 JSONPath/IO        200-219 tool
package nikaerr

import "fmt"

// Error is Nika's structured error type: a stable code, a human message,
// optional structured details, and an optional wrapped cause.
type Error struct {
	Code       string
	Message    string
	Details    map[string]any
	Suggestion string
	cause      error
}

// New builds an Error. cause may be nil.
func New(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithDetails attaches structured details and returns the receiver for chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithSuggestion attaches a fix suggestion and returns the receiver for chaining.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// FixSuggestion returns a single actionable sentence, or "" if none was set.
func (e *Error) FixSuggestion() string {
	if e == nil {
		return ""
	}
	return e.Suggestion
}

// AsMap mirrors the teacher's engine/core.Error.AsMap for JSON/event embedding.
func (e *Error) AsMap() map[string]any {
	if e == nil {
		return nil
	}
	return map[string]any{
		"code":       e.Code,
		"message":    e.Message,
		"details":    e.Details,
		"suggestion": e.Suggestion,
	}
}

// Code families, named exactly as original_source/tools/nika/src/error.rs.
const (
	CodeParseError           = "NIKA-001"
	CodeInvalidSchemaVersion  = "NIKA-002"
	CodeWorkflowNotFound      = "NIKA-003"
	CodeValidationError       = "NIKA-004"
	CodeSchemaValidationFail  = "NIKA-005"
	CodeInvalidSchema         = "NIKA-010"
	CodeTaskFailed            = "NIKA-011"
	CodeTaskTimeout           = "NIKA-012"
	CodeCycleDetected         = "NIKA-020"
	CodeMissingDependency     = "NIKA-021"
	CodeProviderNotConfigured = "NIKA-030" // also used by the legacy bare Provider(string) shape
	CodeProviderAPIError      = "NIKA-031"
	CodeMissingAPIKey         = "NIKA-032"
	CodeInvalidProviderConfig = "NIKA-033"
	CodeBindingError          = "NIKA-040" // also used by the legacy bare Template(string) shape
	CodeTemplateError         = "NIKA-041" // also used by the legacy bare Execution(string) shape
	CodeBindingNotFound       = "NIKA-042"
	CodeBindingTypeMismatch   = "NIKA-043"
	CodeInvalidPath           = "NIKA-050"
	CodeTaskNotFound          = "NIKA-051"
	CodePathNotFound          = "NIKA-052"
	CodeInvalidTaskID         = "NIKA-055"
	CodeInvalidDefault        = "NIKA-056"
	CodeInvalidJSON           = "NIKA-060"
	CodeSchemaFailed          = "NIKA-061"
	CodeDuplicateAlias        = "NIKA-070"
	CodeUnknownAlias          = "NIKA-071"
	CodeNullValue             = "NIKA-072"
	CodeInvalidTraversal      = "NIKA-073"
	CodeTemplateParse         = "NIKA-074"
	CodeUseUnknownTask        = "NIKA-080"
	CodeUseNotUpstream        = "NIKA-081"
	CodeUseCircularDep        = "NIKA-082"
	CodeJSONPathUnsupported   = "NIKA-090"
	CodeJSONPathNoMatch       = "NIKA-091"
	CodeJSONPathNonJSON       = "NIKA-092"
	CodeIOError               = "NIKA-093"
	CodeJSONError             = "NIKA-094"
	CodeYAMLParse             = "NIKA-095"
	CodeMCPNotConnected       = "NIKA-100"
	CodeMCPStartError         = "NIKA-101"
	CodeMCPToolError          = "NIKA-102"
	CodeMCPResourceNotFound   = "NIKA-103"
	CodeMCPProtocolError      = "NIKA-104"
	CodeMCPNotConfigured      = "NIKA-105"
	CodeMCPInvalidResponse    = "NIKA-106"
	CodeMCPValidationFailed   = "NIKA-107"
	CodeMCPSchemaError        = "NIKA-108"
	CodeMCPTimeout            = "NIKA-109"
	CodeAgentMaxTurns         = "NIKA-110"
	CodeAgentStopCondition    = "NIKA-111"
	CodeInvalidToolName       = "NIKA-112"
	CodeAgentValidation       = "NIKA-113"
	CodeNotImplemented        = "NIKA-114"
	CodeAgentExecutionError   = "NIKA-115"
	CodeProviderError         = "NIKA-120"
	CodeTimeout               = "NIKA-121"
	CodeMCPToolCallFailed     = "NIKA-125"
	CodeConfigError           = "NIKA-140"
	CodeToolError             = "NIKA-200"
)
