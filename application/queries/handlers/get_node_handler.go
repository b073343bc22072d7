package handlers

import (
	"context"

	"go.uber.org/zap"

	"atlas-backend/application/queries"
	"atlas-backend/application/queries/bus"
	"atlas-backend/application/services"
	"atlas-backend/domain/core/entities"
	appErrors "atlas-backend/pkg/errors"
)

// GetNodeHandler handles GetNodeQuery
type GetNodeHandler struct {
	nodes  *services.NodeService
	logger *zap.Logger
}

// NewGetNodeHandler creates a new GetNodeHandler
func NewGetNodeHandler(nodes *services.NodeService, logger *zap.Logger) *GetNodeHandler {
	return &GetNodeHandler{
		nodes:  nodes,
		logger: logger,
	}
}

// Handle executes the get node query
func (h *GetNodeHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	getQuery, ok := query.(queries.GetNodeQuery)
	if !ok {
		return nil, appErrors.NewValidationError("invalid query type for GetNodeHandler")
	}

	node, err := h.nodes.Get(ctx, getQuery.NodeID)
	if err != nil {
		return nil, err
	}

	return NodeToView(node), nil
}

// NodeToView converts a node entity into its read model
func NodeToView(node *entities.Node) queries.NodeView {
	return queries.NodeView{
		ID:        node.ID().String(),
		Type:      node.Type(),
		Name:      node.Name(),
		Content:   node.Content(),
		ParentID:  node.ParentID(),
		Children:  node.ChildIDs(),
		Metadata:  node.Metadata().ToInterfaceMap(),
		Structure: node.StructureInfo().ToInterfaceMap(),
		CreatedAt: node.CreatedAt(),
		UpdatedAt: node.UpdatedAt(),
	}
}
