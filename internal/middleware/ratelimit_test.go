package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToRate(t *testing.T) {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     3,
		interval: time.Minute,
	}

	for i := 0; i < 3; i++ {
		rl.mu.Lock()
		ok := rl.allow("10.0.0.1")
		rl.mu.Unlock()
		if !ok {
			t.Fatalf("request %d rejected below the limit", i+1)
		}
	}

	rl.mu.Lock()
	ok := rl.allow("10.0.0.1")
	rl.mu.Unlock()
	if ok {
		t.Error("request above the limit was allowed")
	}
}

func TestRateLimiterIsolatesIPs(t *testing.T) {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     1,
		interval: time.Minute,
	}

	rl.mu.Lock()
	first := rl.allow("10.0.0.1")
	second := rl.allow("10.0.0.2")
	rl.mu.Unlock()

	if !first || !second {
		t.Error("distinct IPs must not share a bucket")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     1,
		interval: 10 * time.Millisecond,
	}

	rl.mu.Lock()
	rl.allow("10.0.0.1")
	blocked := rl.allow("10.0.0.1")
	rl.mu.Unlock()
	if blocked {
		t.Fatal("second immediate request should be blocked")
	}

	time.Sleep(25 * time.Millisecond)

	rl.mu.Lock()
	ok := rl.allow("10.0.0.1")
	rl.mu.Unlock()
	if !ok {
		t.Error("bucket should refill after the interval")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     1,
		interval: time.Minute,
	}

	rl.visitors["10.0.0.1"] = &visitor{tokens: 1, lastSeen: time.Now().Add(-10 * time.Minute)}
	rl.visitors["10.0.0.2"] = &visitor{tokens: 1, lastSeen: time.Now()}

	rl.cleanup()

	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("stale visitor should be evicted")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Error("fresh visitor should be kept")
	}
}
