package telemetry

import (
	"sync"
	"time"
)

// Throttle is a token bucket measured against simulation time, so a headless
// run that outpaces the wall clock is limited the same way as a live one.
type Throttle struct {
	maxTokens  int
	window     time.Duration
	tokens     int
	lastRefill time.Duration
	mu         sync.Mutex
}

// NewThrottle allows at most maxPerWindow snapshots per window.
// A non-positive maxPerWindow disables throttling.
func NewThrottle(maxPerWindow int, window time.Duration) *Throttle {
	return &Throttle{
		maxTokens: maxPerWindow,
		window:    window,
		tokens:    maxPerWindow,
	}
}

// Allow reports whether a snapshot at simulation time at may be published
func (t *Throttle) Allow(at time.Duration) bool {
	if t.maxTokens <= 0 {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := at - t.lastRefill
	switch {
	case elapsed < 0:
		// simulation restarted; start a fresh bucket
		t.tokens = t.maxTokens
		t.lastRefill = at
	case t.tokens >= t.maxTokens:
		t.lastRefill = at
	case elapsed > 0:
		windowsPassed := float64(elapsed) / float64(t.window)
		tokensToAdd := int(float64(t.maxTokens) * windowsPassed)

		if tokensToAdd > 0 {
			t.tokens += tokensToAdd
			if t.tokens > t.maxTokens {
				t.tokens = t.maxTokens
			}
			t.lastRefill = at
		}
	}

	if t.tokens > 0 {
		t.tokens--
		return true
	}
	return false
}
