package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_PerClient(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("10.0.0.1") {
		t.Error("first request should pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("expected allow to fail (exhausted tokens)")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("other client should pass")
	}
	if limiter.Clients() != 2 {
		t.Errorf("expected 2 tracked clients, got %d", limiter.Clients())
	}
}

func TestLimiter_EvictsIdleClients(t *testing.T) {
	limiter := NewLimiter(1, 1)
	clock := time.Now()
	limiter.now = func() time.Time { return clock }
	limiter.lastSweep = clock

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		limiter.Allow(ip)
	}
	if limiter.Clients() != 3 {
		t.Fatalf("expected 3 tracked clients, got %d", limiter.Clients())
	}

	clock = clock.Add(clientIdleTTL / 2)
	limiter.Allow("10.0.0.1")

	clock = clock.Add(clientIdleTTL/2 + time.Second)
	if !limiter.Allow("10.0.0.4") {
		t.Error("new client should pass")
	}
	if limiter.Clients() != 2 {
		t.Errorf("expected idle clients evicted leaving 2, got %d", limiter.Clients())
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected with limiting disabled", i)
		}
	}
}

func TestLimiter_Middleware(t *testing.T) {
	limiter := NewLimiter(1, 1)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("192.0.2.1:5000"); code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	// Same host, different port shares the budget
	if code := do("192.0.2.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", code)
	}
	if code := do("192.0.2.2:5000"); code != http.StatusOK {
		t.Errorf("expected 200 for other client, got %d", code)
	}
}

func TestClientIP(t *testing.T) {
	if got := clientIP("192.0.2.1:1234"); got != "192.0.2.1" {
		t.Errorf("expected 192.0.2.1, got %s", got)
	}
	if got := clientIP("[::1]:80"); got != "::1" {
		t.Errorf("expected ::1, got %s", got)
	}
	if got := clientIP("no-port"); got != "no-port" {
		t.Errorf("expected passthrough, got %s", got)
	}
}
