package step

import (
	"fmt"

	"github.com/kbukum/transflow/errors"
	"github.com/kbukum/transflow/event"
)

// Curried is an Operation with some leading arguments already bound.
// Calling it with fewer arguments than it still needs returns another
// *Curried instead of a result.
type Curried struct {
	op    Operation
	bound []any
}

// Curry binds args ahead of op's remaining arguments.
func Curry(op Operation, args ...any) (*Curried, error) {
	name := NameOf(op)
	arity := op.Arity()
	if arity < 0 {
		return nil, errors.NotCurryable(name, arity)
	}
	if len(args) > arity {
		return nil, errors.InvalidArgument(fmt.Sprintf("%s takes %d argument(s), %d supplied to curry", name, arity, len(args))).
			WithDetails(map[string]any{"operation": name, "arity": arity, "supplied": len(args)})
	}
	bound := make([]any, len(args))
	copy(bound, args)
	return &Curried{op: op, bound: bound}, nil
}

// Name returns the wrapped operation's name.
func (c *Curried) Name() string { return NameOf(c.op) }

// Arity returns the number of arguments still needed.
func (c *Curried) Arity() int { return c.op.Arity() - len(c.bound) }

// Bound returns a copy of the bound arguments.
func (c *Curried) Bound() []any {
	out := make([]any, len(c.bound))
	copy(out, c.bound)
	return out
}

// Operation returns the wrapped operation.
func (c *Curried) Operation() Operation { return c.op }

// Call appends args to the bound ones. Once the wrapped arity is reached
// the wrapped operation runs; before that a new *Curried is returned.
func (c *Curried) Call(args ...any) (any, error) {
	all := make([]any, 0, len(c.bound)+len(args))
	all = append(all, c.bound...)
	all = append(all, args...)

	arity := c.op.Arity()
	switch {
	case len(all) < arity:
		return &Curried{op: c.op, bound: all}, nil
	case len(all) > arity:
		return nil, errors.ArityMismatch(c.Name(), arity, len(all))
	}
	return c.op.Call(all...)
}

// Subscribe attaches listeners to the wrapped operation when it publishes.
func (c *Curried) Subscribe(listeners ...event.Listener) error {
	p, ok := c.op.(Publishing)
	if !ok {
		return errors.NotPublishing(c.Name())
	}
	p.Subscribe(listeners...)
	return nil
}
