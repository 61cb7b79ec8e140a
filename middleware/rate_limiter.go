package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// In-memory sliding-window rate limiters with trusted-proxy support and
// periodic cleanup. Memory-efficient on purpose; swap for Redis if the service
// ever runs more than one instance.

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

// IPRateLimiter limits requests per client IP within a sliding window.
type IPRateLimiter struct {
	window      time.Duration
	maxReq      int
	mu          sync.Mutex
	state       map[string]timestamps
	cleanupTick time.Duration
	trustedCIDR []string
}

func NewIPRateLimiter(maxReq int, window time.Duration, trustedProxies string) *IPRateLimiter {
	l := &IPRateLimiter{
		window:      window,
		maxReq:      maxReq,
		state:       make(map[string]timestamps),
		cleanupTick: time.Minute,
	}
	if trustedProxies != "" {
		l.trustedCIDR = strings.Split(trustedProxies, ",")
	}
	go l.cleanupLoop()
	return l
}

// clientIPGeneric returns the client IP string. If trustedCIDR is provided,
// X-Forwarded-For / X-Real-IP headers are honored when remote addr is inside
// one of the trusted CIDRs or IPs.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestIP resolves the client IP for handlers that need it directly,
// honoring X-Forwarded-For only behind the configured trusted proxies.
func RequestIP(r *http.Request, trustedProxies string) string {
	var trusted []string
	if trustedProxies != "" {
		trusted = strings.Split(trustedProxies, ",")
	}
	return clientIPGeneric(r, trusted)
}

// Middleware applies per-IP limits and sets rate-limit headers.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, l.trustedCIDR)
		now := nowUnix()
		windowNs := int64(l.window)

		l.mu.Lock()
		arr := l.state[ip]
		cutoff := now - windowNs
		var filtered timestamps
		for _, ts := range arr {
			if ts >= cutoff {
				filtered = append(filtered, ts)
			}
		}
		filtered = append(filtered, now)
		l.state[ip] = filtered
		count := len(filtered)
		l.mu.Unlock()

		remaining := l.maxReq - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.maxReq))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > l.maxReq {
			retryAfter := retryAfterSeconds(filtered, now, windowNs, l.window)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Too many requests, please try again later",
				"data":    map[string]interface{}{"retry_after_seconds": retryAfter},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfterSeconds derives Retry-After from the oldest request in the window.
func retryAfterSeconds(filtered timestamps, now, windowNs int64, window time.Duration) int {
	if len(filtered) == 0 {
		return int(window.Seconds())
	}
	oldest := filtered[0]
	for _, ts := range filtered {
		if ts < oldest {
			oldest = ts
		}
	}
	retryAfterNs := oldest + windowNs - now
	if retryAfterNs > 0 {
		return int(retryAfterNs / 1e9)
	}
	return 1
}

func (l *IPRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := nowUnix()
		cutoff := now - int64(l.window)
		for k, arr := range l.state {
			var filtered timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					filtered = append(filtered, ts)
				}
			}
			if len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		l.mu.Unlock()
	}
}

// WebhookLimiter: sliding window + whitelisted gateway IPs bypass the limit.
type WebhookLimiter struct {
	maxReq    int
	window    time.Duration
	whitelist map[string]bool
	mu        sync.Mutex
	state     map[string]timestamps
}

func NewWebhookLimiter(maxReq int, window time.Duration, whitelist []string) *WebhookLimiter {
	wl := make(map[string]bool)
	for _, ip := range whitelist {
		wl[ip] = true
	}
	return &WebhookLimiter{
		maxReq:    maxReq,
		window:    window,
		whitelist: wl,
		state:     make(map[string]timestamps),
	}
}

func (l *WebhookLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, nil)
		if l.whitelist[ip] {
			next.ServeHTTP(w, r)
			return
		}
		now := nowUnix()
		l.mu.Lock()
		arr := l.state[ip]
		cutoff := now - int64(l.window)
		var filtered timestamps
		for _, ts := range arr {
			if ts >= cutoff {
				filtered = append(filtered, ts)
			}
		}
		filtered = append(filtered, now)
		l.state[ip] = filtered
		count := len(filtered)
		l.mu.Unlock()

		if count > l.maxReq {
			retryAfter := retryAfterSeconds(filtered, now, int64(l.window), l.window)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Too many webhook requests. Please try again later.",
				"data":    map[string]interface{}{"retry_after_seconds": retryAfter},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
