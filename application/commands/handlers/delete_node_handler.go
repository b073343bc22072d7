package handlers

import (
	"context"

	"go.uber.org/zap"

	"atlas-backend/application/commands"
	"atlas-backend/application/commands/bus"
	"atlas-backend/application/services"
	appErrors "atlas-backend/pkg/errors"
)

// DeleteNodeHandler handles DeleteNodeCommand
type DeleteNodeHandler struct {
	nodes  *services.NodeService
	logger *zap.Logger
}

// NewDeleteNodeHandler creates a new DeleteNodeHandler
func NewDeleteNodeHandler(nodes *services.NodeService, logger *zap.Logger) *DeleteNodeHandler {
	return &DeleteNodeHandler{
		nodes:  nodes,
		logger: logger,
	}
}

// Handle executes the delete node command
func (h *DeleteNodeHandler) Handle(ctx context.Context, cmd bus.Command) error {
	deleteCmd, ok := cmd.(commands.DeleteNodeCommand)
	if !ok {
		return appErrors.NewValidationError("invalid command type for DeleteNodeHandler")
	}

	removed, err := h.nodes.Delete(ctx, deleteCmd.NodeID)
	if err != nil {
		return err
	}

	h.logger.Info("node deleted",
		zap.String("node_id", deleteCmd.NodeID),
		zap.Int("removed", removed),
	)
	return nil
}
