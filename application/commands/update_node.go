package commands

import (
	appErrors "atlas-backend/pkg/errors"
)

// UpdateNodeCommand applies a partial update to an existing node. Nil
// fields are left untouched; the node id and children never change.
type UpdateNodeCommand struct {
	NodeID   string                 `json:"node_id"`
	Content  *string                `json:"content,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Validate validates the UpdateNodeCommand
func (c UpdateNodeCommand) Validate() error {
	if c.NodeID == "" {
		return appErrors.NewValidationError("node ID is required")
	}
	if c.Content == nil && c.Metadata == nil {
		return appErrors.NewValidationError("nothing to update")
	}
	return nil
}
