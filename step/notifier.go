package step

import (
	"context"
	"fmt"

	"github.com/kbukum/transflow/event"
	"github.com/kbukum/transflow/result"
)

// Mode selects how a Notifier reads its operation's outcome.
type Mode int

const (
	// Plain treats a returned error as failure and anything else as success.
	Plain Mode = iota
	// TwoTrack expects a result.Tagged value and reads the outcome from it.
	TwoTrack
)

func (m Mode) String() string {
	if m == TwoTrack {
		return "two-track"
	}
	return "plain"
}

// Publishing is implemented by operations that accept listeners.
type Publishing interface {
	Subscribe(listeners ...event.Listener)
}

// Notifier wraps an Operation and broadcasts the outcome of every call.
type Notifier struct {
	name string
	op   Operation
	mode Mode
	pub  *event.Publisher
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithMode sets the result shape. Plain is the default.
func WithMode(m Mode) NotifierOption {
	return func(n *Notifier) { n.mode = m }
}

// WithPublisher shares p instead of giving the Notifier its own.
func WithPublisher(p *event.Publisher) NotifierOption {
	return func(n *Notifier) {
		if p != nil {
			n.pub = p
		}
	}
}

// NewNotifier wraps op so that calls broadcast "<name>_success" and
// "<name>_failure".
func NewNotifier(name string, op Operation, opts ...NotifierOption) *Notifier {
	n := &Notifier{name: name, op: op}
	for _, opt := range opts {
		opt(n)
	}
	if n.pub == nil {
		n.pub = event.NewPublisher(nil)
	}
	return n
}

func (n *Notifier) Name() string                { return n.name }
func (n *Notifier) Arity() int                  { return n.op.Arity() }
func (n *Notifier) Mode() Mode                  { return n.mode }
func (n *Notifier) Operation() Operation        { return n.op }
func (n *Notifier) Publisher() *event.Publisher { return n.pub }

// Subscribe attaches listeners. Safe to call while other goroutines
// invoke the Notifier.
func (n *Notifier) Subscribe(listeners ...event.Listener) {
	n.pub.Subscribe(listeners...)
}

// Curry binds extra ahead of the remaining arguments. Full calls through
// the returned *Curried still broadcast.
func (n *Notifier) Curry(extra ...any) (*Curried, error) {
	return Curry(n, extra...)
}

// Call invokes the wrapped operation and broadcasts its outcome before
// returning. Failures are always returned to the caller. In TwoTrack mode
// an Err value is broadcast as a failure but returned as a value.
func (n *Notifier) Call(args ...any) (any, error) {
	return n.CallContext(context.Background(), args...)
}

// CallContext is Call with ctx handed to a wrapped ContextOperation.
func (n *Notifier) CallContext(ctx context.Context, args ...any) (any, error) {
	out, err := InvokeContext(ctx, n.op, args...)
	if err != nil {
		n.fail(args, err)
		return nil, err
	}

	if n.mode != TwoTrack {
		n.pub.Broadcast(n.name, event.KindSuccess, out)
		return out, nil
	}

	tagged, ok := out.(result.Tagged)
	if !ok {
		serr := &Error{
			Step:    n.name,
			Origin:  OriginUnexpected,
			Message: fmt.Sprintf("%s returned %T, want a two-track result", n.name, out),
		}
		n.fail(args, serr)
		return nil, serr
	}
	if !tagged.IsOk() {
		n.fail(args, tagged.Err())
		return out, nil
	}
	n.pub.Broadcast(n.name, event.KindSuccess, tagged.Any())
	return out, nil
}

func (n *Notifier) fail(args []any, cause error) {
	payload := make([]any, 0, len(args)+1)
	payload = append(payload, args...)
	payload = append(payload, cause)
	n.pub.Broadcast(n.name, event.KindFailure, payload...)
}
