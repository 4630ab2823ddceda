package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"

	"github.com/taricsa/tiny-pilots-sub006/pkg/config"
	"github.com/taricsa/tiny-pilots-sub006/pkg/logging"
)

// Publisher sends snapshots to a Sink through a circuit breaker.
// When the sink keeps failing the breaker opens and snapshots are dropped
// until the breaker timeout elapses.
type Publisher struct {
	breaker    *gobreaker.CircuitBreaker
	sink       Sink
	throttle   *Throttle
	logger     *logging.Logger
	everyTicks uint64

	published atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// Stats counts publisher outcomes
type Stats struct {
	Published uint64
	Dropped   uint64
	Failed    uint64
}

// NewPublisher creates a Publisher with breaker and throttle settings from cfg
func NewPublisher(cfg config.TelemetryConfig, sink Sink, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.NewLogger()
	}
	maxFailures := uint32(cfg.BreakerMaxFailures)
	if maxFailures == 0 {
		maxFailures = 1
	}

	settings := gobreaker.Settings{
		Name:        "telemetry-sink",
		MaxRequests: uint32(cfg.BreakerMaxRequests),
		Interval:    seconds(cfg.BreakerIntervalSeconds),
		Timeout:     seconds(cfg.BreakerTimeoutSeconds),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	everyTicks := uint64(1)
	if cfg.EveryTicks > 0 {
		everyTicks = uint64(cfg.EveryTicks)
	}

	return &Publisher{
		breaker:    gobreaker.NewCircuitBreaker(settings),
		sink:       sink,
		throttle:   NewThrottle(cfg.MaxPerSecond, time.Second),
		logger:     logger,
		everyTicks: everyTicks,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Due reports whether the given tick should produce a snapshot
func (p *Publisher) Due(tick uint64) bool {
	return tick%p.everyTicks == 0
}

// Publish writes snap through the breaker. Throttled snapshots are dropped
// silently; an open breaker returns an error wrapping ErrSinkUnavailable.
func (p *Publisher) Publish(ctx context.Context, snap Snapshot) error {
	if !p.throttle.Allow(seconds(snap.SimTime)) {
		p.dropped.Add(1)
		return nil
	}

	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.sink.Write(ctx, snap)
	})
	if err != nil {
		p.failed.Add(1)
		p.logger.LogWithContext(ctx, slog.LevelDebug, "telemetry publish failed",
			"error", err,
			"state", p.breaker.State().String(),
			"tick", snap.Tick,
		)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
		}
		return fmt.Errorf("circuit breaker: %w", err)
	}

	p.published.Add(1)
	return nil
}

// PublishWithRetry retries a failed publish with linear backoff. It bypasses
// the throttle and is meant for the final snapshot of a run.
func (p *Publisher) PublishWithRetry(ctx context.Context, snap Snapshot, attempts int, baseDelay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		_, err = p.breaker.Execute(func() (interface{}, error) {
			return nil, p.sink.Write(ctx, snap)
		})
		if err == nil {
			p.published.Add(1)
			return nil
		}
		p.failed.Add(1)

		if p.breaker.State() == gobreaker.StateOpen {
			p.logger.LogWithContext(ctx, slog.LevelWarn, "circuit breaker is open, skipping retries",
				"attempt", attempt+1,
				"max_attempts", attempts,
			)
			return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
		}
		if attempt == attempts-1 {
			break
		}

		delay := time.Duration(attempt+1) * baseDelay
		p.logger.LogWithContext(ctx, slog.LevelWarn, "telemetry publish failed, retrying",
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", attempts, err)
}

// State returns the breaker state
func (p *Publisher) State() gobreaker.State {
	return p.breaker.State()
}

// Stats returns publish counters
func (p *Publisher) Stats() Stats {
	return Stats{
		Published: p.published.Load(),
		Dropped:   p.dropped.Load(),
		Failed:    p.failed.Load(),
	}
}

// Close closes the sink
func (p *Publisher) Close() error {
	return p.sink.Close()
}
