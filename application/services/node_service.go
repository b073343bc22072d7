package services

import (
	"context"
	"sync"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/validators"
	"atlas-backend/domain/core/valueobjects"
	pkgerrors "atlas-backend/pkg/errors"

	"go.uber.org/zap"
)

// NodeService is the node store: durable keyed node records plus the
// in-memory parent-to-children index every traversal runs against. The
// index mirrors the persisted children lists and can be rebuilt from a
// full scan at any time.
type NodeService struct {
	repo      ports.NodeRepository
	validator *validators.NodeValidator
	logger    *zap.Logger

	mu sync.RWMutex
	// children holds an entry for every known node id, so it doubles as
	// an existence set for cheap child lookups
	children map[string][]string
}

// CreateNodeInput carries the fields for a node creation
type CreateNodeInput struct {
	Type     string
	Name     string
	Content  string
	ParentID string
	Metadata valueobjects.Metadata
}

// UpdateNodeInput carries a partial update; nil fields stay untouched
type UpdateNodeInput struct {
	Content  *string
	Metadata valueobjects.Metadata
}

// NewNodeService creates a node service over the given repository
func NewNodeService(repo ports.NodeRepository, validator *validators.NodeValidator, logger *zap.Logger) *NodeService {
	return &NodeService{
		repo:      repo,
		validator: validator,
		logger:    logger,
		children:  make(map[string][]string),
	}
}

// RebuildIndex performs the cold rebuild of the parent index from a full
// node scan. Called once at startup; the index is not itself durable.
func (s *NodeService) RebuildIndex(ctx context.Context) error {
	nodes, err := s.repo.Scan(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "index rebuild scan failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.children = make(map[string][]string, len(nodes))
	for _, node := range nodes {
		s.children[node.ID().String()] = node.ChildIDs()
	}

	s.logger.Info("Rebuilt node index", zap.Int("nodes", len(nodes)))
	return nil
}

// Create inserts a node, deriving its id from type, name, and content.
// Re-creating an identical node is an idempotent no-op returning the
// stored node; an id collision with differing content is a conflict.
func (s *NodeService) Create(ctx context.Context, in CreateNodeInput) (*entities.Node, error) {
	if err := s.validator.ValidateNew(in.Type, in.Name, in.Content); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateMetadataSize(len(in.Metadata)); err != nil {
		return nil, err
	}

	node, err := entities.NewNode(in.Type, in.Name, in.Content, in.Metadata)
	if err != nil {
		return nil, err
	}
	id := node.ID().String()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil && !pkgerrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		if existing.Content() == in.Content {
			// Same type, name, and content hash to the same id: dedup.
			return existing, nil
		}
		return nil, pkgerrors.NewDuplicateError(id)
	}

	var parent *entities.Node
	if in.ParentID != "" {
		parent, err = s.repo.FindByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		node.SetParentID(in.ParentID)
		node.SetStructureValue(entities.StructureDepth,
			valueobjects.NumberValue(float64(parent.Depth()+1)))
	} else {
		node.SetStructureValue(entities.StructureDepth, valueobjects.NumberValue(0))
	}
	node.SetStructureValue(entities.StructureChildCount, valueobjects.NumberValue(0))

	if err := s.repo.Save(ctx, node); err != nil {
		return nil, err
	}

	if parent != nil {
		parent.AddChild(id)
		if err := s.repo.Save(ctx, parent); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.children[id] = []string{}
	if parent != nil {
		s.children[in.ParentID] = parent.ChildIDs()
	}
	s.mu.Unlock()

	s.logger.Debug("Created node",
		zap.String("nodeID", id),
		zap.String("type", in.Type),
		zap.String("parentID", in.ParentID),
	)
	return node, nil
}

// Get returns a node by id
func (s *NodeService) Get(ctx context.Context, id string) (*entities.Node, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("node id cannot be empty")
	}
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update. The id stays unchanged regardless of
// content changes, and the children list is untouched.
func (s *NodeService) Update(ctx context.Context, id string, in UpdateNodeInput) (*entities.Node, error) {
	node, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Content != nil {
		if err := s.validator.ValidateContent(*in.Content); err != nil {
			return nil, err
		}
		node.UpdateContent(*in.Content)
	}
	if in.Metadata != nil {
		if err := s.validator.ValidateMetadataSize(len(in.Metadata)); err != nil {
			return nil, err
		}
		node.ReplaceMetadata(in.Metadata)
	}

	if err := s.repo.Save(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// Delete removes a node and every descendant, unlinking the subtree from
// its former parent. Returns how many nodes were removed.
func (s *NodeService) Delete(ctx context.Context, id string) (int, error) {
	node, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}

	// Collect the subtree depth-first before touching anything, so a
	// partial failure never leaves an unvisited branch.
	order, err := s.collectSubtree(ctx, node)
	if err != nil {
		return 0, err
	}

	removed := 0
	// Delete leaves first
	for i := len(order) - 1; i >= 0; i-- {
		if err := s.repo.Delete(ctx, order[i].ID().String()); err != nil {
			if pkgerrors.IsNotFound(err) {
				continue
			}
			return removed, err
		}
		removed++
	}

	if node.ParentID() != "" {
		parent, err := s.repo.FindByID(ctx, node.ParentID())
		if err == nil {
			parent.RemoveChild(id)
			if err := s.repo.Save(ctx, parent); err != nil {
				return removed, err
			}
			s.mu.Lock()
			s.children[node.ParentID()] = parent.ChildIDs()
			s.mu.Unlock()
		} else if !pkgerrors.IsNotFound(err) {
			return removed, err
		}
	}

	s.mu.Lock()
	for _, n := range order {
		delete(s.children, n.ID().String())
	}
	s.mu.Unlock()

	s.logger.Debug("Deleted node subtree",
		zap.String("nodeID", id),
		zap.Int("removed", removed),
	)
	return removed, nil
}

// collectSubtree walks the node and its descendants depth-first
func (s *NodeService) collectSubtree(ctx context.Context, root *entities.Node) ([]*entities.Node, error) {
	order := []*entities.Node{root}
	for _, childID := range root.ChildIDs() {
		child, err := s.repo.FindByID(ctx, childID)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		sub, err := s.collectSubtree(ctx, child)
		if err != nil {
			return nil, err
		}
		order = append(order, sub...)
	}
	return order, nil
}

// Children returns a node's direct children in insertion order. A node
// with no children yields an empty list, not an error.
func (s *NodeService) Children(ctx context.Context, id string) ([]*entities.Node, error) {
	s.mu.RLock()
	childIDs, indexed := s.children[id]
	s.mu.RUnlock()

	if !indexed {
		// Index misses fall back to the record itself, which also
		// surfaces NotFound for missing nodes.
		node, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		childIDs = node.ChildIDs()
	}

	out := make([]*entities.Node, 0, len(childIDs))
	for _, childID := range childIDs {
		child, err := s.repo.FindByID(ctx, childID)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}
