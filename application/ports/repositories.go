// Package ports defines the interfaces the application layer depends on.
// Infrastructure provides the implementations; the engine never imports
// a concrete backend.
package ports

import (
	"context"

	"atlas-backend/domain/core/aggregates"
	"atlas-backend/domain/core/entities"
)

// NodeRepository provides durable key-value storage of node records.
// Implementations must give single-node atomicity: a concurrent reader
// observes either the pre- or post-mutation state of a node, never a
// torn write. Whole-store atomicity is not required.
type NodeRepository interface {
	// Save creates or replaces the record for the node's id
	Save(ctx context.Context, node *entities.Node) error

	// FindByID returns the node or a NotFound error
	FindByID(ctx context.Context, id string) (*entities.Node, error)

	// Delete removes a single node record
	Delete(ctx context.Context, id string) error

	// Scan streams every node record. The parent-to-children index is
	// rebuilt from this alone, so the index itself need not be durable.
	Scan(ctx context.Context) ([]*entities.Node, error)
}

// ExternalSource is a pluggable knowledge collaborator consulted during
// integration. Sources must report their actual energy cost; the engine
// debits what they report.
type ExternalSource interface {
	// Name identifies the source in configuration and results
	Name() string

	// Invoke queries the source with the assembled context under a
	// sub-budget. Implementations may block on I/O and should honor ctx.
	Invoke(ctx context.Context, qc *aggregates.QueryContext, subBudget float64) (*aggregates.SourceResult, error)
}

// SourceRegistry resolves configured source names to implementations
type SourceRegistry interface {
	// Resolve returns the sources for the given names, skipping unknown
	// names rather than failing
	Resolve(names []string) []ExternalSource

	// Names lists every registered source name
	Names() []string
}

// SourcePolicy is the advisory source-selection strategy applied when a
// request names no sources of its own
type SourcePolicy interface {
	Select(intent string, strategy string, available []string) []string
}

// Cache provides read-through caching for query results
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Delete(ctx context.Context, key string) error
}
