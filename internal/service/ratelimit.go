package service

import (
	"sync"

	"github.com/google/uuid"
)

// MaxDailyCurrencyChanges caps how often a user may change their preferred
// currency per day.
const MaxDailyCurrencyChanges = 5

// RateLimiter counts currency-change requests per user for the current day.
// Counts live in memory; they must be consistent within a day but need not
// survive a restart. The scheduler calls Reset at midnight.
type RateLimiter struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int
	limit  int
}

func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		counts: make(map[uuid.UUID]int),
		limit:  limit,
	}
}

// Limited reports whether the user has reached the daily quota.
func (l *RateLimiter) Limited(userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[userID] >= l.limit
}

// Increment records one successful currency change for the user.
func (l *RateLimiter) Increment(userID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[userID]++
}

// Reset clears all counters, starting a new day.
func (l *RateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts = make(map[uuid.UUID]int)
}
