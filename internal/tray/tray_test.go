package tray

import (
	"context"
	"testing"
	"time"
)

func TestQuitOnDoneQuitsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan struct{})
	go quitOnDone(ctx, func() { close(quit) })

	select {
	case <-quit:
		t.Fatalf("quit called before the context was cancelled")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-quit:
	case <-time.After(time.Second):
		t.Fatalf("quit not called after cancel")
	}
}
