// Package cache keeps the coaching text generated for each analysis attempt
// until the user confirms they want it narrated.
package cache

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Attempt is the cached payload keyed by attempt id.
type Attempt struct {
	PersonaID    string
	CoachingText string
	CreatedAt    time.Time
}

// AttemptCache is a concurrency-safe attempt store with age-based eviction,
// so abandoned attempts don't accumulate for the life of the process.
type AttemptCache struct {
	mu       sync.Mutex
	attempts map[string]Attempt

	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	log      *logrus.Logger
}

// Fallbacks when the configuration leaves the eviction knobs unset. A zero
// interval would panic time.NewTicker in Start.
const (
	defaultEvictionInterval = 10 * time.Minute
	defaultMaxAge           = time.Hour
)

// NewAttemptCache creates an attempt cache whose entries expire after maxAge.
// Eviction runs every interval once Start is called. Non-positive values fall
// back to defaults.
func NewAttemptCache(interval, maxAge time.Duration, log *logrus.Logger) *AttemptCache {
	if interval <= 0 {
		interval = defaultEvictionInterval
	}
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	return &AttemptCache{
		attempts: make(map[string]Attempt),
		interval: interval,
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
		log:      log,
	}
}

// Put stores the coaching text for an attempt.
func (c *AttemptCache) Put(attemptID, personaID, coachingText string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts[attemptID] = Attempt{
		PersonaID:    personaID,
		CoachingText: coachingText,
		CreatedAt:    time.Now(),
	}
}

// Get returns the cached attempt, if present.
func (c *AttemptCache) Get(attemptID string) (Attempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.attempts[attemptID]
	return a, ok
}

// Len returns the number of cached attempts.
func (c *AttemptCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.attempts)
}

// Start begins periodic eviction of expired attempts.
func (c *AttemptCache) Start() {
	ticker := time.NewTicker(c.interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				c.evictExpired(time.Now())
			case <-c.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	c.log.Infof("Attempt cache eviction started (interval: %s, max age: %s)", c.interval, c.maxAge)
}

// Stop halts the eviction goroutine. Safe to call more than once.
func (c *AttemptCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

// evictExpired removes attempts older than maxAge.
func (c *AttemptCache) evictExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for id, a := range c.attempts {
		if now.Sub(a.CreatedAt) > c.maxAge {
			delete(c.attempts, id)
			evicted++
		}
	}

	if evicted > 0 {
		c.log.Infof("Evicted %d expired attempts (%d remaining)", evicted, len(c.attempts))
	}
}
