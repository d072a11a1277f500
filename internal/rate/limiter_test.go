package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterWindow(t *testing.T) {
	lim := NewMemory()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lim.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if ok, _ := lim.Allow(ctx, "swap:ip:1.2.3.4", 3, time.Minute); !ok {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	ok, retry := lim.Allow(ctx, "swap:ip:1.2.3.4", 3, time.Minute)
	if ok {
		t.Fatalf("expected fourth request to be limited")
	}
	if retry != time.Minute {
		t.Fatalf("expected retry of one minute, got %s", retry)
	}
	if ok, _ := lim.Allow(ctx, "swap:ip:5.6.7.8", 3, time.Minute); !ok {
		t.Fatalf("other keys should not share the window")
	}

	now = now.Add(61 * time.Second)
	if ok, _ := lim.Allow(ctx, "swap:ip:1.2.3.4", 3, time.Minute); !ok {
		t.Fatalf("expected a fresh window")
	}
}

func TestConnectAcceptsHostPort(t *testing.T) {
	client, err := Connect("localhost:6379")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()
	if client.Options().Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", client.Options().Addr)
	}
	if _, err := Connect("redis://%zz"); err == nil {
		t.Fatalf("expected parse error")
	}
}
