package runid

import (
	"context"
	"testing"
)

func TestNewContext(t *testing.T) {
	ctx, id := NewContext(context.Background())

	got, ok := FromContext(ctx)
	if !ok || got != id {
		t.Fatalf("FromContext = (%d, %v), want (%d, true)", got, ok, id)
	}
}

func TestFromContext_Absent(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no run ID on a fresh context")
	}
}

func TestNewContext_DistinctIDs(t *testing.T) {
	_, a := NewContext(context.Background())
	_, b := NewContext(context.Background())
	if a == b {
		t.Fatalf("consecutive IDs collided: %d", a)
	}
}
