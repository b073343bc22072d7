package queries

import (
	appErrors "atlas-backend/pkg/errors"
)

// ListChildrenQuery retrieves the children of a node in insertion order
type ListChildrenQuery struct {
	NodeID string `json:"node_id"`
}

// Validate validates the ListChildrenQuery
func (q ListChildrenQuery) Validate() error {
	if q.NodeID == "" {
		return appErrors.NewValidationError("node ID is required")
	}
	return nil
}

// ChildrenView is the read model returned for child listings
type ChildrenView struct {
	NodeID   string     `json:"node_id"`
	Children []NodeView `json:"children"`
}
