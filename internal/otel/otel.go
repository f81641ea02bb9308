package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/gqlfixture/internal/eventbus"
	events "github.com/hanpama/gqlfixture/internal/events"
	runid "github.com/hanpama/gqlfixture/internal/runid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("gqlfixture")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer trace.Tracer
	spans  sync.Map // rid -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.ValidationStart) {
		rid, _ := runid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "fixture.validate")
		span.SetAttributes(
			attribute.String("graphql.operation.name", e.OperationName),
			attribute.String("fixture.path", e.Fixture),
		)
		s.spans.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ValidationFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.spans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(
			attribute.Int("fixture.structural_errors", e.StructuralErrors),
			attribute.Int("fixture.type_errors", e.TypeErrors),
		)
		span.End()
	})
}
