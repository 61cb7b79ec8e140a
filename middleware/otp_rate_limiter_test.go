package middleware

import (
	"testing"
	"time"
)

func TestOTPRateLimiter_FirstRequestAllowed(t *testing.T) {
	l := NewOTPRateLimiter()
	ok, wait, _ := l.CheckPhone("9876543210")
	if !ok || wait != 0 {
		t.Fatalf("first request blocked: ok=%v wait=%v", ok, wait)
	}
}

func TestOTPRateLimiter_ImmediateSecondRequestBlocked(t *testing.T) {
	l := NewOTPRateLimiter()
	l.CheckPhone("9876543210")
	ok, wait, msg := l.CheckPhone("9876543210")
	if ok {
		t.Fatal("second immediate request allowed")
	}
	if wait <= 0 || wait > time.Minute {
		t.Fatalf("unexpected wait: %v", wait)
	}
	if msg == "" {
		t.Fatal("expected a user-facing message")
	}
}

func TestOTPRateLimiter_ResetClearsCounters(t *testing.T) {
	l := NewOTPRateLimiter()
	l.CheckPhone("9876543210")
	l.Reset("9876543210")
	ok, _, _ := l.CheckPhone("9876543210")
	if !ok {
		t.Fatal("request after reset blocked")
	}
}

func TestOTPRateLimiter_IPCap(t *testing.T) {
	l := NewOTPRateLimiter()
	for i := 0; i < 5; i++ {
		ok, _, _ := l.CheckIP("203.0.113.30")
		if !ok {
			t.Fatalf("request %d blocked before cap", i+1)
		}
	}
	ok, wait, _ := l.CheckIP("203.0.113.30")
	if ok {
		t.Fatal("sixth request within window allowed")
	}
	if wait <= 0 {
		t.Fatalf("expected positive wait, got %v", wait)
	}
}

func TestOTPRateLimiter_PhonesIndependent(t *testing.T) {
	l := NewOTPRateLimiter()
	l.CheckPhone("9876543210")
	ok, _, _ := l.CheckPhone("9123456780")
	if !ok {
		t.Fatal("different phone blocked by first phone's counter")
	}
}
