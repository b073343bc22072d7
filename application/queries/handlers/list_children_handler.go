package handlers

import (
	"context"

	"go.uber.org/zap"

	"atlas-backend/application/queries"
	"atlas-backend/application/queries/bus"
	"atlas-backend/application/services"
	appErrors "atlas-backend/pkg/errors"
)

// ListChildrenHandler handles ListChildrenQuery
type ListChildrenHandler struct {
	nodes  *services.NodeService
	logger *zap.Logger
}

// NewListChildrenHandler creates a new ListChildrenHandler
func NewListChildrenHandler(nodes *services.NodeService, logger *zap.Logger) *ListChildrenHandler {
	return &ListChildrenHandler{
		nodes:  nodes,
		logger: logger,
	}
}

// Handle executes the list children query
func (h *ListChildrenHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	listQuery, ok := query.(queries.ListChildrenQuery)
	if !ok {
		return nil, appErrors.NewValidationError("invalid query type for ListChildrenHandler")
	}

	children, err := h.nodes.Children(ctx, listQuery.NodeID)
	if err != nil {
		return nil, err
	}

	view := queries.ChildrenView{
		NodeID:   listQuery.NodeID,
		Children: make([]queries.NodeView, 0, len(children)),
	}
	for _, child := range children {
		view.Children = append(view.Children, NodeToView(child))
	}
	return view, nil
}
