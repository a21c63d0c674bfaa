package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterStore_AllowAndCleanup(t *testing.T) {
	// allow 5 events immediately then the 6th should be rejected
	s := NewLimiterStore(5, 5, 100*time.Millisecond)
	defer s.Stop()

	key := "test@example.com"
	for i := 0; i < 5; i++ {
		if !s.Allow(key) {
			t.Fatalf("expected allow at iteration %d", i)
		}
	}

	if s.Allow(key) {
		t.Fatalf("expected limiter to block after burst consumed")
	}

	// entries idle past the cutoff are evicted
	s.evictIdle(time.Now().Add(time.Second))
	s.mu.Lock()
	_, ok := s.clients[key]
	s.mu.Unlock()
	if ok {
		t.Fatalf("expected idle entry to be evicted")
	}

	// Stop is idempotent
	s.Stop()
}

func TestRateLimit_Middleware(t *testing.T) {
	s := NewLimiterStore(1, 2, time.Minute)
	defer s.Stop()

	var hits int
	h := RateLimit(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))

	do := func(target, remote string) int {
		req := httptest.NewRequest(http.MethodPost, target, nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// Same email from different addresses shares one bucket.
	if code := do("/jwt?email=A@x.com", "10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("first request: got %d", code)
	}
	if code := do("/jwt?email=a@x.com", "10.0.0.2:1000"); code != http.StatusOK {
		t.Fatalf("second request: got %d", code)
	}
	if code := do("/jwt?email=a@x.com", "10.0.0.3:1000"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: want 429, got %d", code)
	}

	// Another email is unaffected.
	if code := do("/jwt?email=b@y.com", "10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("other email: got %d", code)
	}

	if hits != 3 {
		t.Fatalf("handler hits = %d, want 3", hits)
	}
}

func TestRequestKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/jwt", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	if got := requestKey(req); got != "ip:192.0.2.7" {
		t.Fatalf("requestKey = %q", got)
	}
	req = httptest.NewRequest(http.MethodPost, "/jwt?email=%20Me@X.com", nil)
	if got := requestKey(req); got != "email:me@x.com" {
		t.Fatalf("requestKey = %q", got)
	}
}
