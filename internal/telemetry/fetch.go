package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const fetchScopeName = "github.com/formfield/taxgen/taxonomy"

// Querier matches the pipeline's fetch dependency.
type Querier interface {
	Query(ctx context.Context, query string) (json.RawMessage, error)
}

// InstrumentedQuerier wraps a Querier with OTel tracing and metrics.
// Use WrapQuerier to create one; it returns the original querier
// unchanged when telemetry is disabled.
type InstrumentedQuerier struct {
	inner   Querier
	tracer  trace.Tracer
	fetches metric.Int64Counter
	dur     metric.Float64Histogram
	errs    metric.Int64Counter
}

// WrapQuerier returns q decorated with OTel instrumentation.
// When telemetry is disabled, q is returned as-is with zero overhead.
func WrapQuerier(q Querier) Querier {
	if !Enabled() {
		return q
	}
	m := Meter(fetchScopeName)
	fetches, _ := m.Int64Counter("taxgen.fetch.requests",
		metric.WithDescription("Total taxonomy fetch requests"),
	)
	dur, _ := m.Float64Histogram("taxgen.fetch.duration",
		metric.WithDescription("Taxonomy fetch duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("taxgen.fetch.errors",
		metric.WithDescription("Total taxonomy fetch failures"),
	)
	return &InstrumentedQuerier{
		inner:   q,
		tracer:  Tracer(fetchScopeName),
		fetches: fetches,
		dur:     dur,
		errs:    errs,
	}
}

// Query delegates to the wrapped querier inside a client span.
func (q *InstrumentedQuerier) Query(ctx context.Context, query string) (json.RawMessage, error) {
	ctx, span := q.tracer.Start(ctx, "taxonomy.Query",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	q.fetches.Add(ctx, 1)
	start := time.Now()

	data, err := q.inner.Query(ctx, query)

	q.dur.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		q.errs.Add(ctx, 1)
	} else {
		span.SetAttributes(attribute.Int("taxgen.data.bytes", len(data)))
	}
	span.End()
	return data, err
}
