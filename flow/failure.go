package flow

import (
	stderrors "errors"
	"fmt"

	"github.com/kbukum/transflow/step"
)

// Failure reports the step that stopped a pipeline call.
type Failure struct {
	// Pipeline is the rendering of the failed pipeline, e.g. "Pipeline(a -> b)".
	Pipeline string
	Name     string
	Step     string
	Index    int
	CallID   string
	Cause    *step.Error
}

// Error returns "Pipeline(a -> b) failed [StepError: <message>]", with the
// UnexpectedError label when the step did not raise the failure itself.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed [%s: %s]", f.Pipeline, f.Cause.Origin, f.Cause.Message)
}

// Unwrap returns the step failure.
func (f *Failure) Unwrap() error { return f.Cause }

// Origin returns the origin of the step failure.
func (f *Failure) Origin() step.Origin { return f.Cause.Origin }

// AsFailure returns the first *Failure in err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if stderrors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsFailure reports whether err is or wraps a *Failure.
func IsFailure(err error) bool {
	_, ok := AsFailure(err)
	return ok
}
