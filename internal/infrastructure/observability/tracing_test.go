package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordingTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestStartSpanRecordsAttributesAndEvents(t *testing.T) {
	recorder := recordingTracer(t)

	ctx, span := StartSpan(context.Background(), "chat-api", "AIHandler.Generate")
	AddSpanAttributes(ctx, attribute.String("chat.id", "chat_abc"))
	AddSpanEvent(ctx, "auto_title_triggered")
	SetSpanStatus(ctx, codes.Ok, "generation successful")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "AIHandler.Generate", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("chat.id", "chat_abc"))
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "auto_title_triggered", ended[0].Events()[0].Name)
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
}

func TestRecordErrorMarksSpanFailed(t *testing.T) {
	recorder := recordingTracer(t)

	ctx, span := StartSpan(context.Background(), "chat-api", "AIHandler.Stream")
	RecordError(ctx, errors.New("upstream unavailable"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "upstream unavailable", ended[0].Status().Description)
	require.NotEmpty(t, ended[0].Events())
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestRecordErrorIgnoresNil(t *testing.T) {
	recorder := recordingTracer(t)

	ctx, span := StartSpan(context.Background(), "chat-api", "AIHandler.Generate")
	RecordError(ctx, nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Empty(t, ended[0].Events())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestTraceIDsFromContext(t *testing.T) {
	recordingTracer(t)

	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))

	ctx, span := StartSpan(context.Background(), "chat-api", "ChatHandler.CreateMessage")
	defer span.End()

	assert.Len(t, GetTraceID(ctx), 32)
	assert.Len(t, GetSpanID(ctx), 16)
}
