package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava enforces two overlapping quotas, reported together in the
// X-RateLimit-Usage and X-RateLimit-Limit headers as "short,daily" pairs.
const (
	shortWindowLimit = 100
	shortWindow      = 15 * time.Minute
	dailyWindowLimit = 1000
	dailyWindow      = 24 * time.Hour

	// requestSpacing keeps bursts polite even when quota remains.
	requestSpacing = 150 * time.Millisecond
)

// RateLimiter tracks both Strava quota windows and spaces out requests.
type RateLimiter struct {
	mu sync.Mutex

	shortUsage    int
	shortLimit    int
	shortResetsAt time.Time

	dailyUsage    int
	dailyLimit    int
	dailyResetsAt time.Time

	lastRequest time.Time
}

// NewRateLimiter creates a rate limiter preset with Strava's published
// limits. The limits adjust from response headers as requests complete.
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		shortLimit:    shortWindowLimit,
		shortResetsAt: now.Add(shortWindow),
		dailyLimit:    dailyWindowLimit,
		dailyResetsAt: now.Truncate(dailyWindow).Add(dailyWindow),
	}
}

// Wait blocks until a request can be made without exceeding either quota
// window, then records the request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.After(r.shortResetsAt) {
		r.shortUsage = 0
		r.shortResetsAt = now.Add(shortWindow)
	}
	if now.After(r.dailyResetsAt) {
		r.dailyUsage = 0
		r.dailyResetsAt = now.Truncate(dailyWindow).Add(dailyWindow)
	}

	if r.shortUsage >= r.shortLimit {
		if err := r.sleep(ctx, time.Until(r.shortResetsAt)); err != nil {
			return err
		}
		r.shortUsage = 0
		r.shortResetsAt = time.Now().Add(shortWindow)
	}

	if r.dailyUsage >= r.dailyLimit {
		if err := r.sleep(ctx, time.Until(r.dailyResetsAt)); err != nil {
			return err
		}
		r.dailyUsage = 0
		r.dailyResetsAt = time.Now().Truncate(dailyWindow).Add(dailyWindow)
	}

	if since := time.Since(r.lastRequest); since < requestSpacing {
		if err := r.sleep(ctx, requestSpacing-since); err != nil {
			return err
		}
	}

	r.shortUsage++
	r.dailyUsage++
	r.lastRequest = time.Now()

	return nil
}

// sleep waits with the lock released so header updates can land meanwhile.
// Callers must hold the lock.
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders syncs usage and limits from a Strava response.
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.shortUsage = short
		r.dailyUsage = daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.shortLimit = short
		r.dailyLimit = daily
	}
}

// parsePair splits a "short,daily" header value.
func parsePair(v string) (short, daily int, ok bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	short, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	daily, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return short, daily, true
}

// Status returns remaining requests in each window.
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shortLimit - r.shortUsage, r.dailyLimit - r.dailyUsage
}
