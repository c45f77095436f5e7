package step

import (
	"fmt"
)

// Origin tells whether a step failure was raised on purpose.
type Origin int

const (
	// OriginDomain marks failures raised by step logic.
	OriginDomain Origin = iota
	// OriginUnexpected marks any other error, including recovered panics.
	OriginUnexpected
)

func (o Origin) String() string {
	if o == OriginDomain {
		return "StepError"
	}
	return "UnexpectedError"
}

// Error is a step-level failure.
type Error struct {
	Step    string
	Origin  Origin
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Unexpected reports whether the failure was not raised by step logic.
func (e *Error) Unexpected() bool { return e.Origin == OriginUnexpected }

// Fail returns a domain failure with msg.
func Fail(msg string) *Error {
	return &Error{Origin: OriginDomain, Message: msg}
}

// Failf returns a domain failure with a formatted message.
func Failf(format string, args ...any) *Error {
	return Fail(fmt.Sprintf(format, args...))
}

// FailWith returns a domain failure carrying err and its message.
func FailWith(err error) *Error {
	if err == nil {
		return Fail("step failed")
	}
	return &Error{Origin: OriginDomain, Message: err.Error(), Cause: err}
}

// Wrap returns a domain failure with its own message that keeps err as
// the underlying cause.
func Wrap(err error, format string, args ...any) *Error {
	return &Error{Origin: OriginDomain, Message: fmt.Sprintf(format, args...), Cause: err}
}

// AsError normalises err into a step failure attributed to step. Only a
// direct *Error keeps its origin; wrapped ones and every other error become
// unexpected failures, so each boundary adds exactly one layer.
func AsError(err error, step string) *Error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*Error); ok {
		if se.Step == step {
			return se
		}
		cp := *se
		if cp.Step == "" {
			cp.Step = step
		}
		return &cp
	}
	return &Error{Step: step, Origin: OriginUnexpected, Message: err.Error(), Cause: err}
}
