package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Argument validation errors (raised before any step executes)
const (
	// ErrCodeInvalidArgument indicates a caller supplied an unusable argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeDuplicateStep indicates a step name was registered twice.
	ErrCodeDuplicateStep ErrorCode = "DUPLICATE_STEP"
	// ErrCodeUnknownStep indicates a step name that is not registered.
	ErrCodeUnknownStep ErrorCode = "UNKNOWN_STEP"
	// ErrCodeNotCurryable indicates an attempt to curry a variadic operation.
	ErrCodeNotCurryable ErrorCode = "NOT_CURRYABLE"
	// ErrCodeNotPublishing indicates listeners were attached to a step that does not publish events.
	ErrCodeNotPublishing ErrorCode = "NOT_PUBLISHING"
)

// Invocation errors (raised while a step runs)
const (
	// ErrCodeArityMismatch indicates an operation was called with the wrong number of arguments.
	ErrCodeArityMismatch ErrorCode = "ARITY_MISMATCH"
	// ErrCodeTypeMismatch indicates an operation received an argument of the wrong type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested component was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the component already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat indicates a field has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var argumentCodes = map[ErrorCode]bool{
	ErrCodeInvalidArgument: true,
	ErrCodeDuplicateStep:   true,
	ErrCodeUnknownStep:     true,
	ErrCodeNotCurryable:    true,
	ErrCodeNotPublishing:   true,
}

// IsArgumentCode returns true if the code describes a caller usage error
// detected before any step executes.
func IsArgumentCode(code ErrorCode) bool {
	return argumentCodes[code]
}
