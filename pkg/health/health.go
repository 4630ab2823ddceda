// Package health exposes liveness and readiness probes for a running flight
// simulation. Readiness aggregates component checks such as tick progress and
// the telemetry circuit breaker.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Status values reported per component and overall
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// ReadinessTimeout bounds one readiness evaluation
const ReadinessTimeout = 5 * time.Second

// Check is one component health probe
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// Report is the aggregated readiness result
type Report struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
}

// ComponentStatus is the result of a single check
type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker holds registered checks and serves the probe endpoints
type Checker struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewChecker creates an empty checker
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// AddCheck registers a check, replacing any with the same name
func (c *Checker) AddCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// RemoveCheck unregisters a check by name
func (c *Checker) RemoveCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Names returns the registered check names in sorted order
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes every check. The report is healthy only if all pass.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	report := Report{
		Status:     StatusHealthy,
		Components: make(map[string]ComponentStatus, len(c.checks)),
	}
	for name, check := range c.checks {
		if err := check.Check(ctx); err != nil {
			report.Status = StatusUnhealthy
			report.Components[name] = ComponentStatus{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		report.Components[name] = ComponentStatus{Status: StatusHealthy}
	}
	return report
}

// LivenessHandler answers 200 while the process can serve requests
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs all checks and answers 200 or 503
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
	defer cancel()

	report := c.Run(ctx)

	w.Header().Set("Content-Type", "application/json")
	if report.Status == StatusHealthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(report)
}

// Handler returns a mux serving /health and /ready
func (c *Checker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", c.LivenessHandler)
	mux.HandleFunc("/ready", c.ReadinessHandler)
	return mux
}

// ProgressCheck fails when the simulation tick stops advancing for longer
// than maxStall of wall time
type ProgressCheck struct {
	tick     func() uint64
	maxStall time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastTick uint64
	lastSeen time.Time
}

// NewProgressCheck watches tick for progress
func NewProgressCheck(tick func() uint64, maxStall time.Duration) *ProgressCheck {
	return newProgressCheck(tick, maxStall, time.Now)
}

func newProgressCheck(tick func() uint64, maxStall time.Duration, now func() time.Time) *ProgressCheck {
	return &ProgressCheck{
		tick:     tick,
		maxStall: maxStall,
		now:      now,
		lastTick: tick(),
		lastSeen: now(),
	}
}

// Name returns "simulation"
func (p *ProgressCheck) Name() string {
	return "simulation"
}

// Check reports a stall when the tick is unchanged past maxStall
func (p *ProgressCheck) Check(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if tick := p.tick(); tick != p.lastTick {
		p.lastTick = tick
		p.lastSeen = now
		return nil
	}
	if stalled := now.Sub(p.lastSeen); stalled > p.maxStall {
		return fmt.Errorf("simulation stalled at tick %d for %s", p.lastTick, stalled.Round(time.Millisecond))
	}
	return nil
}

// BreakerCheck fails while a circuit breaker is open
type BreakerCheck struct {
	name  string
	state func() gobreaker.State
}

// NewBreakerCheck reports the breaker state returned by state
func NewBreakerCheck(name string, state func() gobreaker.State) *BreakerCheck {
	return &BreakerCheck{name: name, state: state}
}

// Name returns the check name
func (b *BreakerCheck) Name() string {
	return b.name
}

// Check fails when the breaker is open
func (b *BreakerCheck) Check(ctx context.Context) error {
	if st := b.state(); st == gobreaker.StateOpen {
		return fmt.Errorf("circuit breaker %s", st)
	}
	return nil
}
