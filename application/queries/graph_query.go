package queries

import (
	appErrors "atlas-backend/pkg/errors"
)

// GraphQuery runs a budget-accounted retrieval over the node graph.
// Strategy and intent are free-form here; the orchestrator rejects
// values it does not recognize.
type GraphQuery struct {
	SeedIDs      []string `json:"seed_ids"`
	TotalBudget  float64  `json:"total_budget"`
	Strategy     string   `json:"strategy,omitempty"`
	ContextDepth int      `json:"context_depth,omitempty"`
	Sources      []string `json:"sources,omitempty"`
	Intent       string   `json:"intent,omitempty"`
}

// Validate validates the GraphQuery
func (q GraphQuery) Validate() error {
	if len(q.SeedIDs) == 0 {
		return appErrors.NewValidationError("at least one seed ID is required")
	}
	return nil
}
