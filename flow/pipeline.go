package flow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/transflow/errors"
	"github.com/kbukum/transflow/event"
	"github.com/kbukum/transflow/logger"
	"github.com/kbukum/transflow/observability"
	"github.com/kbukum/transflow/step"
)

// DefaultName is the logical name of a pipeline built without WithName.
const DefaultName = "pipeline"

// Step is a named operation in a pipeline.
type Step struct {
	Name      string
	Operation step.Operation
}

// Overrides maps step names to extra leading arguments for one call.
type Overrides map[string][]any

// Pipeline is an ordered, immutable chain of steps.
type Pipeline struct {
	name    string
	steps   []Step
	index   map[string]int
	log     *logger.Logger
	tracing bool
	metrics *observability.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithName sets the logical name used in logs, spans and metrics.
func WithName(name string) Option {
	return func(p *Pipeline) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets the logger. Defaults to the "flow" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithTracing records a span per call and per step.
func WithTracing() Option {
	return func(p *Pipeline) { p.tracing = true }
}

// WithMetrics records step and pipeline metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New returns a Pipeline running steps in the given order.
func New(steps []Step, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		name:  DefaultName,
		steps: make([]Step, len(steps)),
		index: make(map[string]int, len(steps)),
	}
	for i, s := range steps {
		if s.Name == "" {
			return nil, errors.InvalidArgument(fmt.Sprintf("step %d has an empty name", i))
		}
		if s.Operation == nil {
			return nil, errors.InvalidArgument(fmt.Sprintf("step %q has no operation", s.Name))
		}
		if _, dup := p.index[s.Name]; dup {
			return nil, errors.DuplicateStep(s.Name)
		}
		p.index[s.Name] = i
		p.steps[i] = s
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get("flow")
	}
	p.log = p.log.WithFields(map[string]interface{}{logger.FieldPipeline: p.name})
	return p, nil
}

// Name returns the logical name.
func (p *Pipeline) Name() string { return p.name }

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Operation returns the operation registered under name.
func (p *Pipeline) Operation(name string) (step.Operation, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.steps[i].Operation, true
}

// String renders the pipeline as "Pipeline(a -> b -> c)".
func (p *Pipeline) String() string {
	return "Pipeline(" + strings.Join(p.Steps(), " -> ") + ")"
}

// Arity is always 1, so a Pipeline can be a step of another pipeline.
func (p *Pipeline) Arity() int { return 1 }

// Call runs the pipeline on its single argument without overrides.
func (p *Pipeline) Call(args ...any) (any, error) {
	return p.CallContext(context.Background(), args...)
}

// CallContext is Call under ctx. A pipeline nested as a step of another
// is run this way, so it shares the outer call's trace.
func (p *Pipeline) CallContext(ctx context.Context, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, errors.ArityMismatch(p.String(), 1, len(args))
	}
	return p.Execute(ctx, args[0], nil)
}

// Execute runs every step in order on input. ctx carries the call id and
// trace context only; it is not checked for cancellation.
func (p *Pipeline) Execute(ctx context.Context, input any, overrides Overrides) (any, error) {
	if err := p.checkOverrides(overrides); err != nil {
		return nil, err
	}
	callables, err := p.callables(overrides)
	if err != nil {
		return nil, err
	}

	callID := uuid.NewString()
	ctx = logger.ContextWithCallID(ctx, callID)
	run := p.begin(ctx, callID)

	value := input
	for i, c := range callables {
		out, serr := run.step(i, p.steps[i].Name, c, value)
		if serr != nil {
			f := &Failure{
				Pipeline: p.String(),
				Name:     p.name,
				Step:     p.steps[i].Name,
				Index:    i,
				CallID:   callID,
				Cause:    serr,
			}
			run.end(f)
			return nil, f
		}
		value = out
	}
	run.end(nil)
	return value, nil
}

// checkOverrides rejects keys that name no step, reporting them sorted.
func (p *Pipeline) checkOverrides(overrides Overrides) error {
	var unknown []string
	for name := range overrides {
		if _, ok := p.index[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.UnknownStep(unknown[0]).WithDetail("unknown", unknown).WithDetail("pipeline", p.String())
}

// callables builds this call's step list. Steps with a non-empty override
// are curried; the stored steps are never modified. An override must leave
// the last parameter free for the value flowing through the pipeline.
func (p *Pipeline) callables(overrides Overrides) ([]step.Operation, error) {
	out := make([]step.Operation, len(p.steps))
	for i, s := range p.steps {
		args := overrides[s.Name]
		if len(args) == 0 {
			out[i] = s.Operation
			continue
		}
		if arity := s.Operation.Arity(); arity >= 0 && len(args) >= arity {
			return nil, errors.InvalidArgument(fmt.Sprintf("step %q takes %d argument(s) including the pipeline value, %d supplied as override", s.Name, arity, len(args))).
				WithDetails(map[string]any{"step": s.Name, "arity": arity, "supplied": len(args)})
		}
		c, err := step.Curry(s.Operation, args...)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				appErr.WithDetail("step", s.Name)
			}
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Subscribe attaches listeners to the named publishing steps. Every name
// is checked before anything is attached.
func (p *Pipeline) Subscribe(listeners map[string][]event.Listener) error {
	names := make([]string, 0, len(listeners))
	for name := range listeners {
		names = append(names, name)
	}
	sort.Strings(names)

	targets := make([]step.Publishing, len(names))
	for i, name := range names {
		op, ok := p.Operation(name)
		if !ok {
			return errors.UnknownStep(name).WithDetail("pipeline", p.String())
		}
		pub, ok := publisherOf(op)
		if !ok {
			return errors.NotPublishing(name)
		}
		targets[i] = pub
	}
	for i, name := range names {
		targets[i].Subscribe(listeners[name]...)
	}
	return nil
}

// SubscribeAll attaches listeners to every publishing step. Silent steps
// are skipped; a pipeline with no publishing step is an argument error.
func (p *Pipeline) SubscribeAll(listeners ...event.Listener) error {
	var targets []step.Publishing
	for _, s := range p.steps {
		if pub, ok := publisherOf(s.Operation); ok {
			targets = append(targets, pub)
		}
	}
	if len(targets) == 0 {
		return errors.NotPublishing(p.String())
	}
	for _, t := range targets {
		t.Subscribe(listeners...)
	}
	return nil
}

func publisherOf(op step.Operation) (step.Publishing, bool) {
	switch v := op.(type) {
	case step.Publishing:
		return v, true
	case *step.Curried:
		return publisherOf(v.Operation())
	}
	return nil, false
}
