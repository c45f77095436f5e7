package step

import (
	"context"
	"fmt"

	"github.com/kbukum/transflow/errors"
)

// Variadic is the arity of an operation that accepts any number of
// arguments. Variadic operations cannot be curried.
const Variadic = -1

// Operation is a callable with a declared arity.
type Operation interface {
	Arity() int
	Call(args ...any) (any, error)
}

// ContextOperation is implemented by operations that run with the
// caller's context, such as nested pipelines.
type ContextOperation interface {
	Operation
	CallContext(ctx context.Context, args ...any) (any, error)
}

// Named is implemented by operations that know their own name.
type Named interface {
	Name() string
}

// NameOf returns op's name, or its type when it has none.
func NameOf(op Operation) string {
	if n, ok := op.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T", op)
}

// Func is an Operation backed by a function over untyped arguments.
type Func struct {
	name  string
	arity int
	fn    func(args ...any) (any, error)
}

// New returns a Func taking exactly arity arguments.
func New(name string, arity int, fn func(args ...any) (any, error)) *Func {
	return &Func{name: name, arity: arity, fn: fn}
}

// NewVariadic returns a Func accepting any number of arguments.
func NewVariadic(name string, fn func(args ...any) (any, error)) *Func {
	return &Func{name: name, arity: Variadic, fn: fn}
}

// Unary adapts a typed single-argument function.
func Unary[A, R any](name string, fn func(A) (R, error)) *Func {
	return New(name, 1, func(args ...any) (any, error) {
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		return fn(a)
	})
}

// Binary adapts a typed two-argument function. When curried, the first
// argument is the bound one and the second is the running pipeline value.
func Binary[A, B, R any](name string, fn func(A, B) (R, error)) *Func {
	return New(name, 2, func(args ...any) (any, error) {
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return nil, err
		}
		return fn(a, b)
	})
}

func (f *Func) Name() string { return f.name }
func (f *Func) Arity() int   { return f.arity }

// Call invokes the function after checking the argument count.
func (f *Func) Call(args ...any) (any, error) {
	if f.arity >= 0 && len(args) != f.arity {
		return nil, errors.ArityMismatch(f.name, f.arity, len(args))
	}
	return f.fn(args...)
}

// argAt converts args[i] to T. A nil argument becomes T's zero value.
func argAt[T any](args []any, i int) (T, error) {
	var zero T
	if args[i] == nil {
		return zero, nil
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, errors.TypeMismatch(i, zero, args[i])
	}
	return v, nil
}

// Invoke calls op, converting a panic into an unexpected *Error. Errors
// returned by op are passed through unchanged.
func Invoke(op Operation, args ...any) (any, error) {
	return InvokeContext(context.Background(), op, args...)
}

// InvokeContext is Invoke for callers holding a context. A ContextOperation
// receives ctx; any other operation is called as is.
func InvokeContext(ctx context.Context, op Operation, args ...any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &Error{
				Step:    NameOf(op),
				Origin:  OriginUnexpected,
				Message: fmt.Sprintf("panic: %v", r),
				Cause:   fmt.Errorf("recovered panic: %v", r),
			}
		}
	}()
	if c, ok := op.(ContextOperation); ok {
		return c.CallContext(ctx, args...)
	}
	return op.Call(args...)
}
