package vimshottari

import (
	"context"
	"testing"
)

func TestInitOTelGRF(t *testing.T) {
	tp, err := InitOTelGRF()
	if err != nil {
		t.Fatalf("could not build tracer provider: %v", err)
	}
	if tp == nil {
		t.Fatal("no tracer provider")
	}

	// Nothing was traced, shutdown flushes an empty queue
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}
