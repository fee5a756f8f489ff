package bus

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

func TestMemoryBusDeliversInOrder(t *testing.T) {
	b := NewMemoryBus()
	var got []string
	if err := b.StartForwarder(context.Background(), func(p []byte) { got = append(got, string(p)) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	for _, msg := range []string{"a", "b", "c"} {
		if err := b.Publish(context.Background(), []byte(msg)); err != nil {
			t.Fatalf("Publish(%s): %v", msg, err)
		}
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("delivery: %v", got)
	}
}

func TestMemoryBusClosed(t *testing.T) {
	b := NewMemoryBus()
	_ = b.Close()
	if err := b.Publish(context.Background(), []byte("x")); !errors.Is(err, ErrClosed) {
		t.Fatalf("publish after close: want=%v got=%v", ErrClosed, err)
	}
	if err := b.StartForwarder(context.Background(), func([]byte) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("forwarder after close: want=%v got=%v", ErrClosed, err)
	}
}

func TestRedisBusRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	b, _, err := NewRedisBus(log, RedisConfig{Addr: addr, Channel: "contract-events-test"})
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan string, 1)
	if err := b.StartForwarder(ctx, func(p []byte) { got <- string(p) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.Publish(ctx, []byte("hello")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case msg := <-got:
		if msg != "hello" {
			t.Fatalf("payload: want=hello got=%s", msg)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for message")
	}
}
