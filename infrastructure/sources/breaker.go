package sources

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/aggregates"
	appErrors "atlas-backend/pkg/errors"
)

var errBudgetTooSmall = errors.New("sub-budget below source cost")

// BreakerConfig holds circuit breaker settings for a source
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the settings applied to every wrapped
// source unless overridden
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BreakerSource wraps a source with a circuit breaker so a failing
// collaborator stops being consulted instead of eating budget on every
// query. An open breaker reads as a source failure, which the engine
// already treats as non-fatal.
type BreakerSource struct {
	inner   ports.ExternalSource
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// WrapWithBreaker wraps a source with a circuit breaker
func WrapWithBreaker(inner ports.ExternalSource, cfg BreakerConfig, logger *zap.Logger) *BreakerSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Source circuit breaker state changed",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerSource{
		inner:   inner,
		breaker: cb,
		logger:  logger,
	}
}

var _ ports.ExternalSource = (*BreakerSource)(nil)

// Name identifies the wrapped source
func (s *BreakerSource) Name() string {
	return s.inner.Name()
}

// Invoke consults the wrapped source through the breaker
func (s *BreakerSource) Invoke(ctx context.Context, qc *aggregates.QueryContext, subBudget float64) (*aggregates.SourceResult, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.inner.Invoke(ctx, qc, subBudget)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, appErrors.NewExternalError(s.inner.Name(), err)
		}
		return nil, err
	}
	return out.(*aggregates.SourceResult), nil
}
