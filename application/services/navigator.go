package services

import (
	"context"

	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/energy"
	pkgerrors "atlas-backend/pkg/errors"

	"go.uber.org/zap"
)

// SubgraphNavigator materializes a bounded subgraph from a set of seed
// node ids. Every node it admits is paid for from the request ledger
// before inclusion, so an empty or partial result is a normal outcome,
// never a failure.
type SubgraphNavigator struct {
	store  *NodeService
	logger *zap.Logger
}

// NewSubgraphNavigator creates a navigator over the node store
func NewSubgraphNavigator(store *NodeService, logger *zap.Logger) *SubgraphNavigator {
	return &SubgraphNavigator{store: store, logger: logger}
}

// Navigate walks the seeds in the order given, expanding children up to
// the allocator's fan-out limit while contextDepth allows. Seeds that no
// longer exist are skipped; storage failures abort the walk and return
// whatever was gathered.
func (n *SubgraphNavigator) Navigate(
	ctx context.Context,
	seedIDs []string,
	ledger *energy.Ledger,
	contextDepth int,
	strategy energy.Strategy,
	alloc *energy.Allocator,
) ([]*entities.Node, error) {
	seen := make(map[string]bool)
	var out []*entities.Node
	err := n.visit(ctx, seedIDs, ledger, contextDepth, strategy, alloc, seen, &out)
	return out, err
}

func (n *SubgraphNavigator) visit(
	ctx context.Context,
	ids []string,
	ledger *energy.Ledger,
	depth int,
	strategy energy.Strategy,
	alloc *energy.Allocator,
	seen map[string]bool,
	out *[]*entities.Node,
) error {
	for _, id := range ids {
		if ledger.Exhausted() || ctx.Err() != nil {
			return nil
		}
		if seen[id] {
			continue
		}

		node, err := n.store.Get(ctx, id)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				n.logger.Debug("Skipping missing node during navigation",
					zap.String("nodeID", id))
				continue
			}
			return err
		}

		cost := alloc.NodeCost(energy.OpNavigate, node.DeclaredCost(), depth, strategy)
		if !ledger.Spend(cost) {
			// Cannot afford this node: it stays out of the result and
			// this branch stops expanding.
			n.logger.Debug("Budget exhausted during navigation",
				zap.String("nodeID", id),
				zap.Float64("cost", cost),
				zap.Float64("remaining", ledger.Remaining()),
			)
			continue
		}

		seen[id] = true
		*out = append(*out, node)

		if depth > 0 {
			childIDs := node.ChildIDs()
			if limit := alloc.FanOut(); len(childIDs) > limit {
				childIDs = childIDs[:limit]
			}
			if err := n.visit(ctx, childIDs, ledger, depth-1, strategy, alloc, seen, out); err != nil {
				return err
			}
		}
	}
	return nil
}
