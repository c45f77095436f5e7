package event

import (
	"sync"
)

// Listener receives broadcast events.
type Listener interface {
	Notify(e Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(e Event)

func (f ListenerFunc) Notify(e Event) { f(e) }

// Hooks dispatches by outcome. Either callback may be nil.
type Hooks struct {
	Success func(step string, result any)
	Failure func(step string, input []any, cause any)
}

func (h Hooks) Notify(e Event) {
	switch e.Kind {
	case KindSuccess:
		if h.Success != nil {
			h.Success(e.Step, e.Result())
		}
	case KindFailure:
		if h.Failure != nil {
			h.Failure(e.Step, e.Input(), e.Cause())
		}
	}
}

// Predicate selects events.
type Predicate func(e Event) bool

// ForStep matches events broadcast by the named step.
func ForStep(name string) Predicate {
	return func(e Event) bool { return e.Step == name }
}

// OfKind matches events of the given kind.
func OfKind(kind Kind) Predicate {
	return func(e Event) bool { return e.Kind == kind }
}

// Filtered forwards to next only the events pred accepts.
func Filtered(pred Predicate, next Listener) Listener {
	return ListenerFunc(func(e Event) {
		if pred(e) {
			next.Notify(e)
		}
	})
}

// Recorder is a Listener that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the recorded event names in arrival order.
func (r *Recorder) Names() []string {
	events := r.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
