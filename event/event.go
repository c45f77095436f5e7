package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the outcome an Event reports.
type Kind string

const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// Name returns the event name for step and kind, e.g. "validate_failure".
func Name(step string, kind Kind) string {
	return step + "_" + string(kind)
}

// Event is one broadcast step outcome.
type Event struct {
	ID   uuid.UUID
	Name string
	Step string
	Kind Kind
	Args []any
	At   time.Time
}

// New creates an Event for step with a fresh id.
func New(step string, kind Kind, args ...any) Event {
	return Event{
		ID:   uuid.New(),
		Name: Name(step, kind),
		Step: step,
		Kind: kind,
		Args: args,
		At:   time.Now().UTC(),
	}
}

// Result returns the step result of a success event.
func (e Event) Result() any {
	if e.Kind != KindSuccess || len(e.Args) == 0 {
		return nil
	}
	return e.Args[0]
}

// Input returns the original call arguments of a failure event.
func (e Event) Input() []any {
	if e.Kind != KindFailure || len(e.Args) == 0 {
		return nil
	}
	return e.Args[:len(e.Args)-1]
}

// Cause returns the failure cause of a failure event.
func (e Event) Cause() any {
	if e.Kind != KindFailure || len(e.Args) == 0 {
		return nil
	}
	return e.Args[len(e.Args)-1]
}
