package eventbus

import (
	"context"
	"testing"
)

type ping struct{ N int }
type pong struct{ N int }

func TestPublishSubscribe(t *testing.T) {
	Use(New())
	defer Use(nil)

	var got []int
	unsubscribe := Subscribe(func(ctx context.Context, e ping) {
		got = append(got, e.N)
	})

	Publish(context.Background(), ping{N: 1})
	Publish(context.Background(), pong{N: 99}) // different type, not delivered
	Publish(context.Background(), ping{N: 2})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("delivered = %v, want [1 2]", got)
	}

	unsubscribe()
	Publish(context.Background(), ping{N: 3})
	if len(got) != 2 {
		t.Fatalf("event delivered after unsubscribe: %v", got)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	Use(New())
	defer Use(nil)

	a, b := 0, 0
	Subscribe(func(ctx context.Context, e ping) { a += e.N })
	Subscribe(func(ctx context.Context, e ping) { b += e.N })

	Publish(context.Background(), ping{N: 5})
	if a != 5 || b != 5 {
		t.Fatalf("a=%d b=%d, want both 5", a, b)
	}
}

func TestNoBusConfigured(t *testing.T) {
	Use(nil)

	// Both are no-ops without a bus.
	unsubscribe := Subscribe(func(ctx context.Context, e ping) {
		t.Fatal("handler should never run")
	})
	Publish(context.Background(), ping{N: 1})
	unsubscribe()
}
