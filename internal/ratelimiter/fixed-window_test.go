package ratelimiter

import (
	"testing"
	"time"
)

func TestFixedWindowLimiter(t *testing.T) {
	start := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	now := start

	rl := NewFixedWindowLimiter(2, 10*time.Second)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d rejected", i+1)
		}
	}

	now = start.Add(4 * time.Second)
	ok, retry := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("third request in window allowed")
	}
	if retry != 6*time.Second {
		t.Errorf("retry after = %s, want 6s", retry)
	}

	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Error("other client throttled")
	}

	now = start.Add(10 * time.Second)
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Error("request after window reset rejected")
	}
}

func TestSweepDropsExpiredClients(t *testing.T) {
	now := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(1, time.Second)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	now = now.Add(2 * time.Second)
	rl.Allow("c")

	if len(rl.clients) != 1 {
		t.Errorf("clients = %d, want 1", len(rl.clients))
	}
}

func TestSweepRunsOncePerWindow(t *testing.T) {
	start := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	now := start
	rl := NewFixedWindowLimiter(1, 10*time.Second)
	rl.now = func() time.Time { return now }

	steps := []struct {
		at   time.Duration
		key  string
		want int
	}{
		{0, "a", 1},
		{4 * time.Second, "b", 2},
		// a has expired and is swept.
		{10 * time.Second, "c", 2},
		// b has expired too, but the last sweep was only 5s ago.
		{15 * time.Second, "d", 3},
		{20 * time.Second, "e", 2},
	}

	for _, s := range steps {
		now = start.Add(s.at)
		rl.Allow(s.key)
		if len(rl.clients) != s.want {
			t.Errorf("after %s at +%s: clients = %d, want %d", s.key, s.at, len(rl.clients), s.want)
		}
	}
}
