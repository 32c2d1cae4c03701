package events

import (
	"sync"
	"time"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

// eventRateLimiter enforces a rolling daily request quota.
type eventRateLimiter struct {
	mu         sync.Mutex
	requests   []time.Time
	limit      int
	windowSize time.Duration
	now        func() time.Time
}

func newEventRateLimiter(dailyLimit int) *eventRateLimiter {
	return &eventRateLimiter{
		requests:   make([]time.Time, 0),
		limit:      dailyLimit,
		windowSize: 24 * time.Hour,
		now:        time.Now,
	}
}

func (r *eventRateLimiter) Allow() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	// Drop requests older than the window
	cutoff := now.Add(-r.windowSize)
	valid := r.requests[:0]
	for _, reqTime := range r.requests {
		if reqTime.After(cutoff) {
			valid = append(valid, reqTime)
		}
	}
	r.requests = valid

	if len(r.requests) >= r.limit {
		return domain.ErrRateLimitExceeded
	}

	r.requests = append(r.requests, now)
	return nil
}
