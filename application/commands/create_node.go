package commands

import (
	"atlas-backend/pkg/utils"
)

// CreateNodeCommand represents the command to create a new node. The
// node id is not part of the command: identity is derived from type,
// name, and content when the store admits the node.
type CreateNodeCommand struct {
	Type     string                 `json:"type" validate:"required,min=1,max=64"`
	Name     string                 `json:"name" validate:"required,min=1,max=200"`
	Content  string                 `json:"content" validate:"max=50000"`
	ParentID string                 `json:"parent_id,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Validate validates the CreateNodeCommand
func (c CreateNodeCommand) Validate() error {
	return utils.ValidateStruct(c)
}
