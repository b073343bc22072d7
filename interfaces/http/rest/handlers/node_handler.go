package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"atlas-backend/application/commands"
	"atlas-backend/application/commands/bus"
	"atlas-backend/application/queries"
	querybus "atlas-backend/application/queries/bus"
	"atlas-backend/domain/core/valueobjects"
	"atlas-backend/pkg/common"
	appErrors "atlas-backend/pkg/errors"
	"atlas-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateNodeRequest represents the request body for creating a node
type CreateNodeRequest struct {
	Type     string                 `json:"type" validate:"required,min=1,max=64"`
	Name     string                 `json:"name" validate:"required,min=1,max=200"`
	Content  string                 `json:"content"`
	ParentID string                 `json:"parent_id,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateNodeRequest represents the request body for updating a node
type UpdateNodeRequest struct {
	Content  *string                `json:"content,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// CreateNodeResponse represents the response for creating a node. The
// id is derived from type, name, and content, so the caller learns it
// here without a follow-up read.
type CreateNodeResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// CreateNode handles POST /nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	cmd := commands.CreateNodeCommand{
		Type:     req.Type,
		Name:     req.Name,
		Content:  req.Content,
		ParentID: req.ParentID,
		Metadata: req.Metadata,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to create node", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	nodeID := valueobjects.NewNodeID(req.Type, req.Name, req.Content)
	common.RespondJSON(w, http.StatusCreated, CreateNodeResponse{
		ID:      nodeID.String(),
		Message: "node created",
	})
}

// GetNode handles GET /nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{NodeID: nodeID})
	if err != nil {
		if !appErrors.IsNotFound(err) {
			h.logger.Error("Failed to get node", zap.String("nodeID", nodeID), zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// UpdateNode handles PUT /nodes/{nodeID}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	var req UpdateNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body: "+err.Error())
		return
	}

	cmd := commands.UpdateNodeCommand{
		NodeID:   nodeID,
		Content:  req.Content,
		Metadata: req.Metadata,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		if !appErrors.IsNotFound(err) {
			h.logger.Error("Failed to update node", zap.String("nodeID", nodeID), zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":      nodeID,
		"message": "node updated",
	})
}

// DeleteNode handles DELETE /nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	cmd := commands.DeleteNodeCommand{NodeID: nodeID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		if !appErrors.IsNotFound(err) {
			h.logger.Error("Failed to delete node", zap.String("nodeID", nodeID), zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListChildren handles GET /nodes/{nodeID}/children
func (h *NodeHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	result, err := h.queryBus.Ask(r.Context(), queries.ListChildrenQuery{NodeID: nodeID})
	if err != nil {
		if !appErrors.IsNotFound(err) {
			h.logger.Error("Failed to list children", zap.String("nodeID", nodeID), zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
