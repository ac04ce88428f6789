package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/sqlshim/v1/logger"
)

func newRecordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	return NewWithProvider(tp, logger.NewNop()), rec
}

func TestStartSpanAndRecordError(t *testing.T) {
	tr, rec := newRecordingTracer()

	ctx, parent := tr.StartSpan(context.Background(), "parent")
	_, child := tr.StartSpan(ctx, "child")
	tr.RecordErrorOnSpan(child, errors.New("boom"))
	child.End()
	parent.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "child", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestSetAttributes(t *testing.T) {
	tr, rec := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), "attrs")
	tr.SetAttributes(span, map[string]interface{}{
		"s": "v", "i": 1, "i64": int64(2), "f": 1.5, "b": true, "other": []int{1},
	})
	span.End()

	got := map[attribute.Key]attribute.Value{}
	for _, kv := range rec.Ended()[0].Attributes() {
		got[kv.Key] = kv.Value
	}
	assert.Equal(t, "v", got["s"].AsString())
	assert.Equal(t, int64(1), got["i"].AsInt64())
	assert.Equal(t, int64(2), got["i64"].AsInt64())
	assert.Equal(t, 1.5, got["f"].AsFloat64())
	assert.True(t, got["b"].AsBool())
	assert.Equal(t, "[1]", got["other"].AsString())
}

func TestCarrierRoundTrip(t *testing.T) {
	tr, _ := newRecordingTracer()

	ctx, span := tr.StartSpan(context.Background(), "outbound")
	defer span.End()

	carrier := tr.GetCarrier(ctx)
	require.Contains(t, carrier, "traceparent")

	restored := tr.SetCarrierOnContext(context.Background(), carrier)
	assert.Equal(t, span.SpanContext().TraceID(), traceSpan.SpanContextFromContext(restored).TraceID())
}

func TestShutdownNil(t *testing.T) {
	var tr *Tracer
	assert.NoError(t, tr.Shutdown(context.Background()))
}
