package middleware

import (
	"sync"
	"time"
)

// OTPRateLimiter throttles OTP sends per phone number with a progressive
// backoff ladder, plus a flat per-IP cap. SMS deliveries cost money, so this
// is deliberately stricter than the generic request limiters.

type otpPhoneRecord struct {
	Count       int
	FirstReqAt  time.Time
	LastReqAt   time.Time
	Locked      bool
	LockedUntil time.Time
}

type otpIPRecord struct {
	Count      int
	FirstReqAt time.Time
	LastReqAt  time.Time
}

type OTPRateLimiter struct {
	mu           sync.Mutex
	phoneRecords map[string]*otpPhoneRecord
	ipRecords    map[string]*otpIPRecord
}

func NewOTPRateLimiter() *OTPRateLimiter {
	l := &OTPRateLimiter{
		phoneRecords: make(map[string]*otpPhoneRecord),
		ipRecords:    make(map[string]*otpIPRecord),
	}
	go l.cleanupLoop()
	return l
}

func (l *OTPRateLimiter) cleanupLoop() {
	tick := time.NewTicker(5 * time.Minute)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := time.Now()
		for phone, record := range l.phoneRecords {
			if !record.Locked && now.Sub(record.LastReqAt) > time.Hour {
				delete(l.phoneRecords, phone)
			} else if record.Locked && now.After(record.LockedUntil) {
				delete(l.phoneRecords, phone)
			}
		}
		for ip, record := range l.ipRecords {
			if now.Sub(record.LastReqAt) > 30*time.Minute {
				delete(l.ipRecords, ip)
			}
		}
		l.mu.Unlock()
	}
}

// CheckPhone reports whether the given phone may request another OTP.
// The wait between sends grows with each attempt: 1m, 5m, 10m, then a
// one-hour lock.
func (l *OTPRateLimiter) CheckPhone(phone string) (bool, time.Duration, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	record, exists := l.phoneRecords[phone]
	if !exists {
		l.phoneRecords[phone] = &otpPhoneRecord{Count: 1, FirstReqAt: now, LastReqAt: now}
		return true, 0, ""
	}

	if record.Locked {
		if now.Before(record.LockedUntil) {
			return false, record.LockedUntil.Sub(now), "OTP request limit reached, please try again in an hour"
		}
		record.Locked = false
		record.Count = 1
		record.FirstReqAt = now
		record.LastReqAt = now
		return true, 0, ""
	}

	requiredGap := map[int]time.Duration{
		1: time.Minute,
		2: 5 * time.Minute,
		3: 10 * time.Minute,
	}

	if gap, ok := requiredGap[record.Count]; ok {
		elapsed := now.Sub(record.FirstReqAt)
		if elapsed < gap {
			return false, gap - elapsed, "Please wait before requesting another OTP"
		}
		record.Count++
		record.LastReqAt = now
		return true, 0, ""
	}

	// Fifth request inside the tracked window: lock for an hour.
	record.Locked = true
	record.LockedUntil = now.Add(time.Hour)
	return false, time.Hour, "OTP request limit reached, please try again in an hour"
}

// CheckIP caps OTP sends at 5 per half hour per client IP.
func (l *OTPRateLimiter) CheckIP(ip string) (bool, time.Duration, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	record, exists := l.ipRecords[ip]
	if !exists {
		l.ipRecords[ip] = &otpIPRecord{Count: 1, FirstReqAt: now, LastReqAt: now}
		return true, 0, ""
	}

	elapsed := now.Sub(record.FirstReqAt)
	if elapsed >= 30*time.Minute {
		record.Count = 1
		record.FirstReqAt = now
		record.LastReqAt = now
		return true, 0, ""
	}

	record.Count++
	record.LastReqAt = now
	if record.Count > 5 {
		record.Count--
		return false, 30*time.Minute - elapsed, "Too many OTP requests. Please try again later."
	}
	return true, 0, ""
}

// Reset clears the counters for a phone after successful verification.
func (l *OTPRateLimiter) Reset(phone string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.phoneRecords, phone)
}
