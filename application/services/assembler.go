package services

import (
	"context"

	"atlas-backend/domain/core/aggregates"
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/energy"

	"go.uber.org/zap"
)

// ContextAssembler flattens a navigated subgraph into the rankable
// context structure handed to scoring and to external sources. Assembly
// meters its own energy use separately from navigation.
type ContextAssembler struct {
	logger *zap.Logger
}

// NewContextAssembler creates an assembler
func NewContextAssembler(logger *zap.Logger) *ContextAssembler {
	return &ContextAssembler{logger: logger}
}

// Assemble emits one summary per navigated node, debiting the ledger a
// fraction of each node's navigation cost, and links parent-child pairs
// whose endpoints are both materialized. Relationship edges are free:
// both ends were already paid for.
func (a *ContextAssembler) Assemble(
	ctx context.Context,
	nodes []*entities.Node,
	ledger *energy.Ledger,
	alloc *energy.Allocator,
) *aggregates.QueryContext {
	qc := &aggregates.QueryContext{
		Nodes:         []aggregates.NodeSummary{},
		Relationships: []aggregates.Relationship{},
	}

	inSet := make(map[string]*entities.Node, len(nodes))
	for _, node := range nodes {
		inSet[node.ID().String()] = node
	}

	for _, node := range nodes {
		if ledger.Exhausted() || ctx.Err() != nil {
			break
		}

		qc.Nodes = append(qc.Nodes, aggregates.SummarizeNode(node))
		qc.EnergyUsed += ledger.SpendUpTo(alloc.AssembleCost(node.DeclaredCost()))

		emitted := 0
		for _, childID := range node.ChildIDs() {
			if emitted >= alloc.FanOut() {
				break
			}
			child, ok := inSet[childID]
			if !ok {
				continue
			}
			qc.Relationships = append(qc.Relationships, aggregates.Relationship{
				SourceID: node.ID().String(),
				TargetID: childID,
				Kind:     aggregates.RelationChild,
				Cost:     child.DeclaredCost(),
			})
			emitted++
		}
	}

	a.logger.Debug("Assembled query context",
		zap.Int("nodes", len(qc.Nodes)),
		zap.Int("relationships", len(qc.Relationships)),
		zap.Float64("energyUsed", qc.EnergyUsed),
	)
	return qc
}
