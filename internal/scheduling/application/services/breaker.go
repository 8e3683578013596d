package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/pipisou/garage/internal/scheduling/domain"
	"github.com/pipisou/garage/pkg/observability"
)

// BreakerConfig tunes the circuit breakers around collaborator lookups.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

func newBreaker[T any](name string, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A missing row is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Gauge(observability.MetricBreakerState, float64(to), observability.T("breaker", name))
		},
	})
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(domain.ErrLookupUnavailable, err)
	}
	return err
}

// GuardedAvailability wraps an AvailabilityProvider in a circuit breaker.
type GuardedAvailability struct {
	next    domain.AvailabilityProvider
	breaker *gobreaker.CircuitBreaker[*domain.Availability]
}

func NewGuardedAvailability(next domain.AvailabilityProvider, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *GuardedAvailability {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &GuardedAvailability{
		next:    next,
		breaker: newBreaker[*domain.Availability]("availability", cfg, logger, metrics),
	}
}

func (g *GuardedAvailability) Availability(ctx context.Context, mechanicID uuid.UUID) (*domain.Availability, error) {
	a, err := g.breaker.Execute(func() (*domain.Availability, error) {
		return g.next.Availability(ctx, mechanicID)
	})
	return a, breakerError(err)
}

// GuardedRequirements wraps a RequirementProvider in a circuit breaker.
type GuardedRequirements struct {
	next    domain.RequirementProvider
	breaker *gobreaker.CircuitBreaker[*domain.TaskRequirement]
}

func NewGuardedRequirements(next domain.RequirementProvider, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *GuardedRequirements {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &GuardedRequirements{
		next:    next,
		breaker: newBreaker[*domain.TaskRequirement]("task_catalog", cfg, logger, metrics),
	}
}

func (g *GuardedRequirements) Requirement(ctx context.Context, taskID uuid.UUID) (*domain.TaskRequirement, error) {
	r, err := g.breaker.Execute(func() (*domain.TaskRequirement, error) {
		return g.next.Requirement(ctx, taskID)
	})
	return r, breakerError(err)
}
