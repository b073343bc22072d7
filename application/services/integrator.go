package services

import (
	"context"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/aggregates"
	"atlas-backend/domain/energy"
	"atlas-backend/pkg/observability"

	"go.uber.org/zap"
)

// ExternalSourceIntegrator consults pluggable knowledge sources under a
// sub-budget carved from the request ledger. A failing source is logged
// and skipped; the remaining sources still run with whatever budget is
// left.
type ExternalSourceIntegrator struct {
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewExternalSourceIntegrator creates an integrator
func NewExternalSourceIntegrator(metrics *observability.Metrics, logger *zap.Logger) *ExternalSourceIntegrator {
	return &ExternalSourceIntegrator{metrics: metrics, logger: logger}
}

// Integrate invokes each source in the order given. The sub-budget per
// source is an even share of the remaining budget, bounded by the
// allocator cap so no single source starves the ones after it. Sources
// report their actual cost and the ledger debits what they report.
func (i *ExternalSourceIntegrator) Integrate(
	ctx context.Context,
	sources []ports.ExternalSource,
	qc *aggregates.QueryContext,
	ledger *energy.Ledger,
	alloc *energy.Allocator,
) []aggregates.ExternalResult {
	results := []aggregates.ExternalResult{}

	for idx, src := range sources {
		if ledger.Exhausted() || ctx.Err() != nil {
			break
		}

		pending := len(sources) - idx
		share := ledger.Remaining() / float64(pending)
		subBudget := alloc.Cap(share, ledger)

		res, err := src.Invoke(ctx, qc, subBudget)
		if err != nil {
			i.logger.Warn("External source failed, skipping",
				zap.String("source", src.Name()),
				zap.Error(err),
			)
			i.metrics.CountSourceFailure(src.Name())
			continue
		}
		if res == nil {
			continue
		}

		debited := ledger.SpendUpTo(res.EnergyCost)
		results = append(results, aggregates.ExternalResult{
			SourceName:     src.Name(),
			ContentHash:    res.ContentHash,
			ContentPreview: res.ContentPreview,
			EnergyCost:     debited,
			RelevanceScore: clamp01(res.RelevanceScore),
		})
	}

	return results
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
