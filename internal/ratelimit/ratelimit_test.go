package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLocalLimiter_Burst(t *testing.T) {
	l := NewLocalLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("request %d: expected allow, got %v, %v", i, ok, err)
		}
	}
	if ok, _ := l.Allow(ctx, "10.0.0.1"); ok {
		t.Error("expected request over the burst to be rejected")
	}
	if ok, _ := l.Allow(ctx, "10.0.0.2"); !ok {
		t.Error("expected a different key to have its own bucket")
	}
}

func TestLocalLimiter_EvictsIdleKeys(t *testing.T) {
	l := NewLocalLimiter(1, time.Millisecond)
	ctx := context.Background()

	l.Allow(ctx, "a")
	time.Sleep(10 * time.Millisecond)
	l.Allow(ctx, "b")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.visitors["a"]; ok {
		t.Error("expected idle key to be evicted")
	}
}

func TestLocalLimiter_SweepsOncePerIdlePeriod(t *testing.T) {
	l := NewLocalLimiter(1, time.Minute)
	ctx := context.Background()

	l.Allow(ctx, "a")
	l.mu.Lock()
	l.visitors["a"].lastSeen = time.Now().Add(-time.Hour)
	l.mu.Unlock()

	l.Allow(ctx, "b")
	l.mu.Lock()
	_, kept := l.visitors["a"]
	l.lastSweep = time.Now().Add(-time.Hour)
	l.mu.Unlock()
	if !kept {
		t.Fatal("expected no sweep before the idle period elapsed")
	}

	l.Allow(ctx, "c")
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.visitors["a"]; ok {
		t.Error("expected idle key to be evicted once the sweep is due")
	}
	if _, ok := l.visitors["b"]; !ok {
		t.Error("expected recently seen key to survive the sweep")
	}
}
