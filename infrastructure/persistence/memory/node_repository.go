// Package memory provides the in-process node store used in development
// and tests. Records are deep-copied on the way in and out so callers
// can never mutate stored state through a shared pointer.
package memory

import (
	"context"
	"sync"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/entities"
	appErrors "atlas-backend/pkg/errors"
)

// NodeRepository is a mutex-guarded map keyed by node id
type NodeRepository struct {
	mu    sync.RWMutex
	nodes map[string]*entities.Node
}

// NewNodeRepository creates an empty in-memory node repository
func NewNodeRepository() *NodeRepository {
	return &NodeRepository{
		nodes: make(map[string]*entities.Node),
	}
}

var _ ports.NodeRepository = (*NodeRepository)(nil)

// Save creates or replaces the record for the node's id
func (r *NodeRepository) Save(ctx context.Context, node *entities.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored, err := copyNode(node)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[node.ID().String()] = stored
	return nil
}

// FindByID returns the node or a NotFound error
func (r *NodeRepository) FindByID(ctx context.Context, id string) (*entities.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	stored, ok := r.nodes[id]
	r.mu.RUnlock()

	if !ok {
		return nil, appErrors.NewNotFoundError("node " + id)
	}
	return copyNode(stored)
}

// Delete removes a single node record. Deleting a missing id is not an
// error; cascade deletion retries are idempotent that way.
func (r *NodeRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.nodes, id)
	return nil
}

// Scan returns a snapshot of every stored node
func (r *NodeRepository) Scan(ctx context.Context) ([]*entities.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Node, 0, len(r.nodes))
	for _, stored := range r.nodes {
		node, err := copyNode(stored)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

// Len reports the number of stored nodes
func (r *NodeRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

func copyNode(node *entities.Node) (*entities.Node, error) {
	copied, err := entities.ReconstructNode(
		node.ID(),
		node.Type(),
		node.Name(),
		node.Content(),
		node.ParentID(),
		node.ChildIDs(),
		node.Metadata().Clone(),
		node.StructureInfo().Clone(),
		node.CreatedAt(),
		node.UpdatedAt(),
	)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to copy node record")
	}
	return copied, nil
}
