package handlers

import (
	"context"

	"go.uber.org/zap"

	"atlas-backend/application/commands"
	"atlas-backend/application/commands/bus"
	"atlas-backend/application/services"
	"atlas-backend/domain/core/valueobjects"
	appErrors "atlas-backend/pkg/errors"
)

// UpdateNodeHandler handles UpdateNodeCommand
type UpdateNodeHandler struct {
	nodes  *services.NodeService
	logger *zap.Logger
}

// NewUpdateNodeHandler creates a new UpdateNodeHandler
func NewUpdateNodeHandler(nodes *services.NodeService, logger *zap.Logger) *UpdateNodeHandler {
	return &UpdateNodeHandler{
		nodes:  nodes,
		logger: logger,
	}
}

// Handle executes the update node command
func (h *UpdateNodeHandler) Handle(ctx context.Context, cmd bus.Command) error {
	updateCmd, ok := cmd.(commands.UpdateNodeCommand)
	if !ok {
		return appErrors.NewValidationError("invalid command type for UpdateNodeHandler")
	}

	in := services.UpdateNodeInput{Content: updateCmd.Content}
	if updateCmd.Metadata != nil {
		metadata, err := valueobjects.MetadataFrom(updateCmd.Metadata)
		if err != nil {
			return appErrors.Wrap(err, "invalid metadata")
		}
		in.Metadata = metadata
	}

	if _, err := h.nodes.Update(ctx, updateCmd.NodeID, in); err != nil {
		return err
	}

	h.logger.Info("node updated", zap.String("node_id", updateCmd.NodeID))
	return nil
}
