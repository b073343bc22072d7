package commands

import (
	appErrors "atlas-backend/pkg/errors"
)

// DeleteNodeCommand removes a node and cascades to all descendants
type DeleteNodeCommand struct {
	NodeID string `json:"node_id"`
}

// Validate validates the DeleteNodeCommand
func (c DeleteNodeCommand) Validate() error {
	if c.NodeID == "" {
		return appErrors.NewValidationError("node ID is required")
	}
	return nil
}
