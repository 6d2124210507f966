package store

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Alijeyrad/dentalcenter/internal/store"

type instruments struct {
	tracer   trace.Tracer
	ops      metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments() instruments {
	meter := otel.Meter(instrumentationName)

	ops, _ := meter.Int64Counter(
		"store_operations",
		metric.WithDescription("Total number of store operations"),
		metric.WithUnit("{operation}"),
	)
	duration, _ := meter.Float64Histogram(
		"store_operation_duration_ms",
		metric.WithDescription("Store operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)

	return instruments{
		tracer:   otel.Tracer(instrumentationName),
		ops:      ops,
		duration: duration,
	}
}

// span wraps one store operation. finish records the outcome.
type span struct {
	inst  instruments
	op    string
	keys  string
	start time.Time
	ctx   context.Context
	span  trace.Span
}

func (i instruments) begin(ctx context.Context, op string, keys ...string) (context.Context, *span) {
	ctx, sp := i.tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.StringSlice("store.keys", keys)),
	)
	return ctx, &span{inst: i, op: op, keys: strings.Join(keys, ","), start: time.Now(), ctx: ctx, span: sp}
}

func (s *span) finish(outcome string, err error) {
	defer s.span.End()

	ms := time.Since(s.start).Seconds() * 1000
	attrs := metric.WithAttributes(
		attribute.String("store.op", s.op),
		attribute.String("store.key", s.keys),
		attribute.String("store.outcome", outcome),
	)
	if s.inst.ops != nil {
		s.inst.ops.Add(s.ctx, 1, attrs)
	}
	if s.inst.duration != nil {
		s.inst.duration.Record(s.ctx, ms, attrs)
	}

	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, outcome)
		return
	}
	s.span.SetStatus(codes.Ok, "")
}
