package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/aggregates"
	appErrors "atlas-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakySource struct {
	name    string
	fail    bool
	invoked int
}

func (s *flakySource) Name() string { return s.name }

func (s *flakySource) Invoke(ctx context.Context, qc *aggregates.QueryContext, subBudget float64) (*aggregates.SourceResult, error) {
	s.invoked++
	if s.fail {
		return nil, errors.New("upstream failure")
	}
	return &aggregates.SourceResult{EnergyCost: 1, RelevanceScore: 0.5}, nil
}

var _ ports.ExternalSource = (*flakySource)(nil)

func TestBreakerSource_Invoke_PassesThroughOnSuccess(t *testing.T) {
	// Arrange
	inner := &flakySource{name: "curated"}
	src := WrapWithBreaker(inner, DefaultBreakerConfig(), zap.NewNop())

	// Act
	res, err := src.Invoke(context.Background(), &aggregates.QueryContext{}, 100)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.EnergyCost)
	assert.Equal(t, "curated", src.Name())
}

func TestBreakerSource_Invoke_OpensAfterRepeatedFailures(t *testing.T) {
	// Arrange
	inner := &flakySource{name: "flaky", fail: true}
	cfg := BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
	src := WrapWithBreaker(inner, cfg, zap.NewNop())
	ctx := context.Background()

	// Act: drive the breaker past its failure threshold
	for i := 0; i < 3; i++ {
		_, err := src.Invoke(ctx, &aggregates.QueryContext{}, 100)
		require.Error(t, err)
	}
	invokedBefore := inner.invoked
	_, err := src.Invoke(ctx, &aggregates.QueryContext{}, 100)

	// Assert: the open breaker rejects without consulting the source
	assert.True(t, appErrors.IsExternal(err))
	assert.Equal(t, invokedBefore, inner.invoked)
}

func TestBreakerSource_Invoke_InnerErrorSurfaced(t *testing.T) {
	// Arrange
	inner := &flakySource{name: "flaky", fail: true}
	src := WrapWithBreaker(inner, DefaultBreakerConfig(), zap.NewNop())

	// Act: a single failure is the inner error, not an open-circuit error
	_, err := src.Invoke(context.Background(), &aggregates.QueryContext{}, 100)

	// Assert
	assert.EqualError(t, err, "upstream failure")
}
