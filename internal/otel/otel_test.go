package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/hanpama/gqlfixture/internal/eventbus"
	"github.com/hanpama/gqlfixture/internal/events"
	"github.com/hanpama/gqlfixture/internal/runid"
)

func TestSetup_NoEndpoint(t *testing.T) {
	shutdown, err := Setup("", "gqlfixture")
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestSubscriber_SpanLifecycle(t *testing.T) {
	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)

	sub := &subscriber{tracer: otel.Tracer("test")}
	sub.register()

	ctx, rid := runid.NewContext(context.Background())
	eventbus.Publish(ctx, events.ValidationStart{OperationName: "Q", Fixture: "f.json"})

	if _, ok := sub.spans.Load(rid); !ok {
		t.Fatal("span not opened on ValidationStart")
	}

	eventbus.Publish(ctx, events.ValidationFinish{OperationName: "Q", Fixture: "f.json"})

	if _, ok := sub.spans.Load(rid); ok {
		t.Fatal("span not closed on ValidationFinish")
	}
}

func TestSubscriber_FinishWithoutStart(t *testing.T) {
	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)

	sub := &subscriber{tracer: otel.Tracer("test")}
	sub.register()

	// Must not panic when no span was opened for the run.
	ctx, _ := runid.NewContext(context.Background())
	eventbus.Publish(ctx, events.ValidationFinish{OperationName: "Q"})
}
