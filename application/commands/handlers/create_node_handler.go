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

// CreateNodeHandler handles CreateNodeCommand
type CreateNodeHandler struct {
	nodes  *services.NodeService
	logger *zap.Logger
}

// NewCreateNodeHandler creates a new CreateNodeHandler
func NewCreateNodeHandler(nodes *services.NodeService, logger *zap.Logger) *CreateNodeHandler {
	return &CreateNodeHandler{
		nodes:  nodes,
		logger: logger,
	}
}

// Handle executes the create node command
func (h *CreateNodeHandler) Handle(ctx context.Context, cmd bus.Command) error {
	createCmd, ok := cmd.(commands.CreateNodeCommand)
	if !ok {
		return appErrors.NewValidationError("invalid command type for CreateNodeHandler")
	}

	metadata, err := valueobjects.MetadataFrom(createCmd.Metadata)
	if err != nil {
		return appErrors.Wrap(err, "invalid metadata")
	}

	node, err := h.nodes.Create(ctx, services.CreateNodeInput{
		Type:     createCmd.Type,
		Name:     createCmd.Name,
		Content:  createCmd.Content,
		ParentID: createCmd.ParentID,
		Metadata: metadata,
	})
	if err != nil {
		return err
	}

	h.logger.Info("node created",
		zap.String("node_id", node.ID().String()),
		zap.String("type", node.Type()),
	)
	return nil
}
