package querytext

import "fmt"

// ContractError represents a spec-authoring defect detected during
// serialization or backfill. These are programmer errors, not runtime
// conditions: a tree that triggers one is malformed and no partial
// recovery is attempted.
type ContractError struct {
	// Code identifies the defect category.
	Code ContractErrorCode

	// Field names the field where the defect was detected, when known.
	Field string

	// Message is a human-readable description.
	Message string
}

// ContractErrorCode categorizes contract errors.
type ContractErrorCode string

const (
	// ErrCodeBadVersion indicates an unparsable semantic version, either
	// the target server version handed to Prepare or a predicate minimum.
	ErrCodeBadVersion ContractErrorCode = "BAD_VERSION"

	// ErrCodeEmptyArgumentTarget indicates an argument wrapper whose
	// wrapped field realized no output.
	ErrCodeEmptyArgumentTarget ContractErrorCode = "EMPTY_ARGUMENT_TARGET"

	// ErrCodeEmptyLabelTarget indicates a labeled field whose wrapped
	// field realized no output.
	ErrCodeEmptyLabelTarget ContractErrorCode = "EMPTY_LABEL_TARGET"

	// ErrCodeArgumentPositionField indicates a Constant or Formal
	// encountered as a field rather than inside an argument list.
	ErrCodeArgumentPositionField ContractErrorCode = "ARGUMENT_POSITION_FIELD"

	// ErrCodeValueStepInBackfill indicates backfill navigation reached a
	// scalar leaf step; a scalar is never itself the cause of exclusion.
	ErrCodeValueStepInBackfill ContractErrorCode = "VALUE_STEP_IN_BACKFILL"

	// ErrCodeNodeKindMismatch indicates a response node did not have the
	// kind a backfill navigation step expected.
	ErrCodeNodeKindMismatch ContractErrorCode = "NODE_KIND_MISMATCH"

	// ErrCodeUnknownFieldKind indicates a field kind outside the closed
	// variant set (exhaustiveness violation).
	ErrCodeUnknownFieldKind ContractErrorCode = "UNKNOWN_FIELD_KIND"
)

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewContractError creates a ContractError with formatted message.
func NewContractError(code ContractErrorCode, field, format string, args ...any) *ContractError {
	return &ContractError{
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
