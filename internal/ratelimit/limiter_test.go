package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLimiterAllowsWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)
	defer l.Close()

	for i := 0; i < 3; i++ {
		if res := l.Allow("1.2.3.4"); !res.Allowed {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
}

func TestLimiterRejectsOverBurst(t *testing.T) {
	l := NewLimiter(0.001, 2)
	defer l.Close()

	for i := 0; i < 2; i++ {
		if res := l.Allow("5.6.7.8"); !res.Allowed {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
	if res := l.Allow("5.6.7.8"); res.Allowed {
		t.Error("expected the third rapid request to be rejected")
	}
}

func TestLimiterTracksIndependentKeys(t *testing.T) {
	l := NewLimiter(0.001, 1)
	defer l.Close()

	if !l.Allow("a").Allowed {
		t.Fatal("first request for key a should be allowed")
	}
	if !l.Allow("b").Allowed {
		t.Error("key b should have its own independent bucket")
	}
	if l.Allow("a").Allowed {
		t.Error("second rapid request for key a should be rejected")
	}
}

func TestClientKeyPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if got := ClientKey(r); got != "203.0.113.5" {
		t.Errorf("expected first forwarded IP, got %q", got)
	}
}

func TestClientKeyFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:54321"
	if got := ClientKey(r); got != "198.51.100.7" {
		t.Errorf("expected stripped remote addr, got %q", got)
	}
}
