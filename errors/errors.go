package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Argument validation constructors ---

// InvalidArgument creates a new AppError for an unusable caller argument.
func InvalidArgument(reason string) *AppError {
	return &AppError{Code: ErrCodeInvalidArgument, Message: reason}
}

// DuplicateStep creates a new AppError for a step name registered twice.
func DuplicateStep(name string) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateStep, Message: fmt.Sprintf("step %q is already registered", name),
		Details: map[string]any{"step": name},
	}
}

// UnknownStep creates a new AppError for a step name that is not registered.
func UnknownStep(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownStep, Message: fmt.Sprintf("%q is not a registered step", name),
		Details: map[string]any{"step": name},
	}
}

// NotCurryable creates a new AppError for an operation that cannot be curried.
func NotCurryable(name string, arity int) *AppError {
	return &AppError{
		Code: ErrCodeNotCurryable, Message: fmt.Sprintf("can't curry %s where operation arity is < 0", name),
		Details: map[string]any{"operation": name, "arity": arity},
	}
}

// NotPublishing creates a new AppError for listeners attached to a silent step.
func NotPublishing(name string) *AppError {
	return &AppError{
		Code: ErrCodeNotPublishing, Message: fmt.Sprintf("step %q does not publish events", name),
		Details: map[string]any{"step": name},
	}
}

// --- Invocation constructors ---

// ArityMismatch creates a new AppError for a call with the wrong argument count.
func ArityMismatch(name string, want, got int) *AppError {
	return &AppError{
		Code: ErrCodeArityMismatch, Message: fmt.Sprintf("%s expects %d argument(s), got %d", name, want, got),
		Details: map[string]any{"operation": name, "want": want, "got": got},
	}
}

// TypeMismatch creates a new AppError for an argument of an unexpected type.
func TypeMismatch(position int, want, got any) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("argument %d: expected %T, got %T", position, want, got),
		Details: map[string]any{"position": position},
	}
}

// --- Resource constructors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		Details: map[string]any{"resource": resource},
	}
}

// --- Validation constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// InvalidFormat creates a new AppError for an invalid field format.
func InvalidFormat(field, expectedFormat string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("Invalid format for %s. Expected: %s", field, expectedFormat),
		Details: map[string]any{"field": field, "expected_format": expectedFormat},
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Wrap returns err as an AppError. AppErrors anywhere in the chain are
// returned as-is; any other error becomes an Internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// CodeOf returns the code of the first AppError in the chain, or "" when
// there is none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether the first AppError in the chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsArgumentError reports whether err is a caller usage error raised
// before any step executed.
func IsArgumentError(err error) bool {
	return IsArgumentCode(CodeOf(err))
}
