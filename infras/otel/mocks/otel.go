// Package mocks provides tracing backends for tests.
package mocks

import (
	"guesthouse/infras/otel"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

// NewOtel discards every span.
func NewOtel() otel.Otel {
	return otel.NewWithProvider(noop.NewTracerProvider())
}

// NewRecorder keeps finished spans in memory for assertions.
func NewRecorder() (otel.Otel, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	return otel.NewWithProvider(provider), recorder
}
