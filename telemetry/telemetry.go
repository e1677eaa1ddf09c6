// Package telemetry wraps one generation attempt as an OpenTelemetry
// span and exposes the generation environment's per-run counters
// (inline functions emitted, struct-typed fields emitted, and the
// attempt's outcome) as OTel metric instruments. The generation engine
// itself stays free of any OTel dependency; Recorder is an optional
// wrapper a caller places around generator.Generate.
package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"smithgen.dev/smithgen/ast"
	"smithgen.dev/smithgen/generator"
)

const instrumentationName = "smithgen.dev/smithgen/generator"

// Recorder instruments generation attempts. Uses the global OTel
// providers; configure them via otel.SetMeterProvider /
// otel.SetTracerProvider before constructing a Recorder.
type Recorder struct {
	tracer trace.Tracer

	attempts         metric.Int64Counter
	inlineFuncs      metric.Int64Counter
	structTypedField metric.Int64Counter
	outcomes         metric.Int64Counter
}

// NewRecorder builds a Recorder reading from the global OTel meter and
// tracer providers.
func NewRecorder() (*Recorder, error) {
	meter := otel.Meter(instrumentationName)

	attempts, err := meter.Int64Counter("smithgen.generation_attempts")
	if err != nil {
		return nil, err
	}
	inlineFuncs, err := meter.Int64Counter("smithgen.inline_funcs_emitted")
	if err != nil {
		return nil, err
	}
	structTypedField, err := meter.Int64Counter("smithgen.struct_typed_fields_emitted")
	if err != nil {
		return nil, err
	}
	outcomes, err := meter.Int64Counter("smithgen.generation_outcomes")
	if err != nil {
		return nil, err
	}

	return &Recorder{
		tracer:           otel.Tracer(instrumentationName),
		attempts:         attempts,
		inlineFuncs:      inlineFuncs,
		structTypedField: structTypedField,
		outcomes:         outcomes,
	}, nil
}

// Generate runs g.Generate() inside a span named "smithgen.generate",
// recording the seed length and resulting module count as span
// attributes. It increments the attempts counter, the outcomes counter
// (with an "outcome" attribute), and the inline-function and
// struct-typed-field counters by what the generation environment
// tracked.
func (r *Recorder) Generate(ctx context.Context, g *generator.Generator, seedLen int) (*ast.CompileUnit, error) {
	ctx, span := r.tracer.Start(ctx, "smithgen.generate", trace.WithAttributes(
		attribute.Int("smithgen.seed_len", seedLen),
	))
	defer span.End()

	r.attempts.Add(ctx, 1)

	unit, err := g.Generate()

	outcome := outcomeLabel(err)
	r.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	r.inlineFuncs.Add(ctx, int64(g.Env.InlineFuncsEmitted()))
	r.structTypedField.Add(ctx, int64(g.Env.StructTypedFieldsEmitted()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("smithgen.module_count", len(unit.Modules)))
	span.SetStatus(codes.Ok, "")
	return unit, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, generator.ErrEntropyExhausted):
		return "entropy_exhausted"
	case errors.Is(err, generator.ErrBudgetExceeded):
		return "budget_exceeded"
	default:
		var inv *generator.InvariantViolation
		if errors.As(err, &inv) {
			return "invariant_violation"
		}
		return "error"
	}
}
