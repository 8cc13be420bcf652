package oteltrace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/modaworks/clothestore/internal/observability"
)

type tracer struct{ t trace.Tracer }

// New returns a tracer backed by the globally configured otel provider. The
// SDK provider and exporter are wired by the process entry point; with none
// set, spans are no-ops.
func New(name string) observability.Tracer {
	if name == "" {
		name = "clothestore"
	}
	return &tracer{t: otel.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
