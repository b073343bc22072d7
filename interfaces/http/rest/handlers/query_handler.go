package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"atlas-backend/application/queries"
	querybus "atlas-backend/application/queries/bus"
	"atlas-backend/pkg/common"
	appErrors "atlas-backend/pkg/errors"
)

// QueryHandler handles retrieval query HTTP requests
type QueryHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// QueryRequest represents the request body for a graph query
type QueryRequest struct {
	SeedIDs      []string `json:"seed_ids"`
	TotalBudget  float64  `json:"total_budget"`
	Strategy     string   `json:"strategy,omitempty"`
	ContextDepth int      `json:"context_depth,omitempty"`
	Sources      []string `json:"sources,omitempty"`
	Intent       string   `json:"intent,omitempty"`
}

// Execute handles POST /query
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body: "+err.Error())
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GraphQuery{
		SeedIDs:      req.SeedIDs,
		TotalBudget:  req.TotalBudget,
		Strategy:     req.Strategy,
		ContextDepth: req.ContextDepth,
		Sources:      req.Sources,
		Intent:       req.Intent,
	})
	if err != nil {
		if !appErrors.IsValidation(err) {
			h.logger.Error("Query execution failed", zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
