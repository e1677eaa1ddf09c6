package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkmetricdata "go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"smithgen.dev/smithgen/config"
	"smithgen.dev/smithgen/generator"
	"smithgen.dev/smithgen/telemetry"
)

func smallConfig() *config.Config {
	return &config.Config{
		Generation: config.Generation{
			NumRunsPerFunc:                   1,
			MaxNumInlineFuncs:                2,
			MaxNumModules:                    1,
			MaxNumFunctionsInModule:          2,
			MaxNumStructsInModule:            2,
			MaxNumFieldsInStruct:             2,
			MaxNumFieldsOfStructType:         2,
			MaxNumStmtsInFunc:                2,
			MaxNumAdditionalOperationsInFunc: 1,
			MaxNumParamsInFunc:               2,
			MaxNumStmtsInBlock:               2,
			MaxNumCallsInScript:              2,
			MaxExprDepth:                     2,
			MaxTypeDepth:                     2,
			GenerationTimeoutSec:             5,
			MaxHexByteStrSize:                8,
		},
	}
}

func setupTestProviders(t *testing.T) (*sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)

	return reader, recorder
}

func TestRecorderGenerateRecordsSpanAndCounters(t *testing.T) {
	reader, spans := setupTestProviders(t)

	rec, err := telemetry.NewRecorder()
	require.NoError(t, err)

	seed := make([]byte, 8192)
	for i := range seed {
		seed[i] = byte(i*31 + 7)
	}
	g := generator.New(smallConfig(), seed)
	unit, err := rec.Generate(context.Background(), g, len(seed))
	require.NoError(t, err)
	require.NotNil(t, unit)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "smithgen.generate", ended[0].Name())

	var rm sdkmetricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	names := metricNames(rm)
	assert.Contains(t, names, "smithgen.generation_attempts")
	assert.Contains(t, names, "smithgen.generation_outcomes")
	assert.Contains(t, names, "smithgen.inline_funcs_emitted")
	assert.Contains(t, names, "smithgen.struct_typed_fields_emitted")
}

func TestRecorderGenerateRecordsErrorOutcome(t *testing.T) {
	_, spans := setupTestProviders(t)

	rec, err := telemetry.NewRecorder()
	require.NoError(t, err)

	g := generator.New(smallConfig(), nil)
	_, err = rec.Generate(context.Background(), g, 0)
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "smithgen.generate", ended[0].Name())
}

func metricNames(rm sdkmetricdata.ResourceMetrics) []string {
	var names []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names = append(names, m.Name)
		}
	}
	return names
}
