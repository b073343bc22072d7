package handlers

import (
	"context"

	"go.uber.org/zap"

	"atlas-backend/application/queries"
	"atlas-backend/application/queries/bus"
	"atlas-backend/application/services"
	"atlas-backend/domain/energy"
	appErrors "atlas-backend/pkg/errors"
)

// GraphQueryHandler handles GraphQuery by running the full retrieval
// pipeline through the orchestrator
type GraphQueryHandler struct {
	orchestrator *services.QueryOrchestrator
	logger       *zap.Logger
}

// NewGraphQueryHandler creates a new GraphQueryHandler
func NewGraphQueryHandler(orchestrator *services.QueryOrchestrator, logger *zap.Logger) *GraphQueryHandler {
	return &GraphQueryHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Handle executes the graph query
func (h *GraphQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	graphQuery, ok := query.(queries.GraphQuery)
	if !ok {
		return nil, appErrors.NewValidationError("invalid query type for GraphQueryHandler")
	}

	strategy, err := energy.ParseStrategy(graphQuery.Strategy)
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error())
	}

	result, err := h.orchestrator.Execute(ctx, services.QueryRequest{
		SeedIDs:      graphQuery.SeedIDs,
		TotalBudget:  graphQuery.TotalBudget,
		Strategy:     strategy,
		ContextDepth: graphQuery.ContextDepth,
		Sources:      graphQuery.Sources,
		Intent:       graphQuery.Intent,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
