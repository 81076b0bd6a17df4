package fitbit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Fitbit rate limit: 150 requests per hour per user, reset on the hour.

// RateLimiter manages the Fitbit API rate limit
type RateLimiter struct {
	mu sync.Mutex

	limit    int
	usage    int
	resetsAt time.Time

	// Minimum interval between requests
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a new rate limiter with Fitbit's limits
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		limit:       150,
		resetsAt:    now.Truncate(time.Hour).Add(time.Hour),
		minInterval: 250 * time.Millisecond,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	// Reset window if expired
	if now.After(r.resetsAt) {
		r.usage = 0
		r.resetsAt = now.Truncate(time.Hour).Add(time.Hour)
	}

	// Check hourly limit
	if r.usage >= r.limit {
		waitTime := time.Until(r.resetsAt)
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			return ctx.Err()
		}
		r.mu.Lock()
		r.usage = 0
		r.resetsAt = time.Now().Truncate(time.Hour).Add(time.Hour)
	}

	// Enforce minimum interval between requests
	elapsed := time.Since(r.lastRequest)
	if elapsed < r.minInterval {
		waitTime := r.minInterval - elapsed
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			return ctx.Err()
		}
		r.mu.Lock()
	}

	r.usage++
	r.lastRequest = time.Now()

	return nil
}

// UpdateFromHeaders updates rate limit state from Fitbit response headers
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit := h.Get("Fitbit-Rate-Limit-Limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			r.limit = n
		}
	}
	if remaining := h.Get("Fitbit-Rate-Limit-Remaining"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil {
			r.usage = r.limit - n
		}
	}
	// Reset header is seconds until the window rolls over
	if reset := h.Get("Fitbit-Rate-Limit-Reset"); reset != "" {
		if secs, err := strconv.Atoi(reset); err == nil {
			r.resetsAt = time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
}

// Status returns remaining requests in the current window
func (r *RateLimiter) Status() (remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit - r.usage
}

// Usage returns the current usage count
func (r *RateLimiter) Usage() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usage
}
