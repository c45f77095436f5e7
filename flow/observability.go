package flow

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kbukum/transflow/logger"
	"github.com/kbukum/transflow/observability"
	"github.com/kbukum/transflow/step"
)

// run tracks one pipeline call for logging, tracing and metrics.
type run struct {
	p     *Pipeline
	ctx   context.Context
	span  trace.Span
	log   *logger.Logger
	start time.Time
}

func (p *Pipeline) begin(ctx context.Context, callID string) *run {
	r := &run{p: p, log: p.log.WithContext(ctx), start: time.Now()}
	r.ctx, r.span = p.startSpan(ctx, observability.SpanPipeline)
	p.annotate(r.ctx, observability.AttrPipeline, p.name)
	p.annotate(r.ctx, observability.AttrCallID, callID)
	p.annotate(r.ctx, observability.AttrSteps, p.Steps())

	r.log.Debug("pipeline call started", logger.Fields(logger.FieldSteps, p.Len()))
	return r
}

func (p *Pipeline) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !p.tracing {
		return ctx, noop.Span{}
	}
	return observability.StartSpan(ctx, name)
}

// annotate touches only spans this pipeline started, never the caller's.
func (p *Pipeline) annotate(ctx context.Context, key string, value any) {
	if p.tracing {
		observability.SetSpanAttribute(ctx, key, value)
	}
}

func (p *Pipeline) spanError(ctx context.Context, err error) {
	if p.tracing {
		observability.SetSpanError(ctx, err)
	}
}

// step invokes op on value and normalises any failure.
func (r *run) step(i int, name string, op step.Operation, value any) (any, *step.Error) {
	ctx, span := r.p.startSpan(r.ctx, observability.SpanStep)
	defer span.End()
	r.p.annotate(ctx, observability.AttrStep, name)
	r.p.annotate(ctx, observability.AttrStepIndex, i)

	start := time.Now()
	out, err := step.InvokeContext(ctx, op, value)
	elapsed := time.Since(start)

	if err == nil {
		r.recordStep(ctx, name, observability.StatusOK, elapsed)
		return out, nil
	}

	serr := step.AsError(err, name)
	r.p.spanError(ctx, serr)
	r.p.annotate(ctx, observability.AttrOrigin, serr.Origin.String())
	r.recordStep(ctx, name, observability.StatusError, elapsed)
	if r.p.metrics != nil {
		r.p.metrics.RecordError(ctx, serr.Origin.String(), name)
	}
	r.log.Error("step failed", logger.MergeWithDuration(map[string]interface{}{
		logger.FieldStep:   name,
		logger.FieldIndex:  i,
		logger.FieldOrigin: serr.Origin.String(),
		logger.FieldError:  serr.Message,
	}, elapsed))
	return nil, serr
}

func (r *run) recordStep(ctx context.Context, name, status string, elapsed time.Duration) {
	if r.p.metrics != nil {
		r.p.metrics.RecordStep(ctx, r.p.name, name, status, elapsed)
	}
}

func (r *run) end(f *Failure) {
	defer r.span.End()
	elapsed := time.Since(r.start)

	status := observability.StatusOK
	if f != nil {
		status = observability.StatusError
		r.p.spanError(r.ctx, f)
	}
	r.p.annotate(r.ctx, observability.AttrStatus, status)
	if r.p.metrics != nil {
		r.p.metrics.RecordPipeline(r.ctx, r.p.name, status, elapsed)
	}
	r.log.Debug("pipeline call finished", logger.MergeWithDuration(logger.Fields(logger.FieldStatus, status), elapsed))
}
