package queries

import (
	"time"

	appErrors "atlas-backend/pkg/errors"
)

// GetNodeQuery retrieves a single node by id
type GetNodeQuery struct {
	NodeID string `json:"node_id"`
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	if q.NodeID == "" {
		return appErrors.NewValidationError("node ID is required")
	}
	return nil
}

// NodeView is the read model returned for node lookups
type NodeView struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Name      string                 `json:"name"`
	Content   string                 `json:"content"`
	ParentID  string                 `json:"parent_id,omitempty"`
	Children  []string               `json:"children"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Structure map[string]interface{} `json:"structure,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}
