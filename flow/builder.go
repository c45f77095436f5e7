package flow

import (
	"fmt"

	"github.com/kbukum/transflow/errors"
	"github.com/kbukum/transflow/step"
)

// Resolver looks up step handlers by key. di.Container satisfies it.
type Resolver interface {
	Resolve(key string) (any, error)
}

// Builder declares steps in execution order and resolves their handlers
// when Build is called.
type Builder struct {
	resolver Resolver
	publish  bool
	mode     step.Mode
	decls    []decl
}

type decl struct {
	name    string
	handler string
	publish bool
	mode    step.Mode
	op      step.Operation
}

// StepOption adjusts a single step declaration.
type StepOption func(*decl)

// With sets the handler key. It defaults to the step name.
func With(handler string) StepOption {
	return func(d *decl) { d.handler = handler }
}

// Publishing wraps the step in a step.Notifier.
func Publishing() StepOption {
	return func(d *decl) { d.publish = true }
}

// Silent disables publishing for the step.
func Silent() StepOption {
	return func(d *decl) { d.publish = false }
}

// TwoTrack makes a publishing step read its outcome from a result.Tagged.
func TwoTrack() StepOption {
	return func(d *decl) { d.mode = step.TwoTrack }
}

// PlainResult makes a publishing step treat only returned errors as failures.
func PlainResult() StepOption {
	return func(d *decl) { d.mode = step.Plain }
}

// Using supplies the operation directly instead of resolving a handler.
func Using(op step.Operation) StepOption {
	return func(d *decl) { d.op = op }
}

// NewBuilder returns a Builder resolving handlers through r. r may be nil
// when every step is declared with Using.
func NewBuilder(r Resolver) *Builder {
	return &Builder{resolver: r}
}

// Publish sets whether steps declared after this call publish events.
func (b *Builder) Publish(on bool) *Builder {
	b.publish = on
	return b
}

// Monadic sets whether steps declared after this call use two-track results.
func (b *Builder) Monadic(on bool) *Builder {
	b.mode = step.Plain
	if on {
		b.mode = step.TwoTrack
	}
	return b
}

// Step declares the next step.
func (b *Builder) Step(name string, opts ...StepOption) *Builder {
	d := decl{name: name, handler: name, publish: b.publish, mode: b.mode}
	for _, opt := range opts {
		opt(&d)
	}
	b.decls = append(b.decls, d)
	return b
}

// Steps declares several steps with the current defaults, each using its
// name as the handler key.
func (b *Builder) Steps(names ...string) *Builder {
	for _, name := range names {
		b.Step(name)
	}
	return b
}

// Build resolves every handler and returns the pipeline.
func (b *Builder) Build(opts ...Option) (*Pipeline, error) {
	steps := make([]Step, 0, len(b.decls))
	for _, d := range b.decls {
		op, err := b.operation(d)
		if err != nil {
			return nil, err
		}
		if d.publish {
			op = step.NewNotifier(d.name, op, step.WithMode(d.mode))
		}
		steps = append(steps, Step{Name: d.name, Operation: op})
	}
	return New(steps, opts...)
}

func (b *Builder) operation(d decl) (step.Operation, error) {
	if d.op != nil {
		return d.op, nil
	}
	if b.resolver == nil {
		return nil, errors.InvalidArgument(fmt.Sprintf("step %q has no operation and the builder has no resolver", d.name))
	}
	component, err := b.resolver.Resolve(d.handler)
	if err != nil {
		return nil, errors.InvalidArgument(fmt.Sprintf("handler %q for step %q could not be resolved", d.handler, d.name)).
			WithDetails(map[string]any{"step": d.name, "handler": d.handler}).
			WithCause(err)
	}
	return adapt(d.handler, component)
}

// adapt accepts a step.Operation or a plain unary function.
func adapt(handler string, component any) (step.Operation, error) {
	switch v := component.(type) {
	case step.Operation:
		return v, nil
	case func(any) (any, error):
		return step.New(handler, 1, func(args ...any) (any, error) { return v(args[0]) }), nil
	default:
		return nil, errors.InvalidArgument(fmt.Sprintf("handler %q is %T, not a step operation", handler, component)).
			WithDetail("handler", handler)
	}
}
