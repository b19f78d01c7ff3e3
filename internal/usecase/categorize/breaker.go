package categorize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain/category"
)

// BreakerConfig tunes the circuit breaker around the primary categorizer.
type BreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial call.
	OpenTimeout time.Duration
}

// BreakerCategorizer stops calling a failing categorizer for a while.
// While open, calls fail fast with gobreaker.ErrOpenState.
type BreakerCategorizer struct {
	inner category.Categorizer
	cb    *gobreaker.CircuitBreaker[category.Resolution]
}

// NewBreaker wraps inner with a circuit breaker.
func NewBreaker(inner category.Categorizer, cfg BreakerConfig, logger *zap.Logger) *BreakerCategorizer {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[category.Resolution](gobreaker.Settings{
		Name:        "categorizer",
		MaxRequests: 1,
		Timeout:     timeout,
		// A caller that went away says nothing about the model's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerCategorizer{inner: inner, cb: cb}
}

// Categorize implements category.Categorizer.
func (b *BreakerCategorizer) Categorize(ctx context.Context, query string) (category.Resolution, error) {
	res, err := b.cb.Execute(func() (category.Resolution, error) {
		return b.inner.Categorize(ctx, query)
	})
	if err != nil {
		return category.Resolution{}, fmt.Errorf("categorizer breaker: %w", err)
	}
	return res, nil
}
