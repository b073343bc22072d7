package aggregates

import (
	"atlas-backend/domain/core/entities"
)

// NodeSummary is the flat, rankable projection of a node inside a query
// context
type NodeSummary struct {
	ID            string                 `json:"id"`
	Type          string                 `json:"type"`
	Name          string                 `json:"name"`
	Content       string                 `json:"content"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	StructureInfo map[string]interface{} `json:"structure_info,omitempty"`
}

// SummarizeNode projects a node entity into a summary
func SummarizeNode(n *entities.Node) NodeSummary {
	return NodeSummary{
		ID:            n.ID().String(),
		Type:          n.Type(),
		Name:          n.Name(),
		Content:       n.Content(),
		Metadata:      n.Metadata().ToInterfaceMap(),
		StructureInfo: n.StructureInfo().ToInterfaceMap(),
	}
}

// Relationship is a materialized edge between two context nodes
type Relationship struct {
	SourceID string  `json:"source"`
	TargetID string  `json:"target"`
	Kind     string  `json:"kind"`
	Cost     float64 `json:"cost,omitempty"`
}

// RelationChild links a parent summary to one of its children
const RelationChild = "child"

// QueryContext is the assembled, flattened view of a navigated subgraph.
// It is ephemeral; nothing here is persisted.
type QueryContext struct {
	Nodes         []NodeSummary  `json:"nodes"`
	Relationships []Relationship `json:"relationships"`

	// EnergyUsed is what assembly itself debited, tracked apart from
	// navigation for efficiency reporting
	EnergyUsed float64 `json:"energy_used"`
}

// NodeIDs returns the ids of the context nodes in order
func (c *QueryContext) NodeIDs() []string {
	ids := make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// SourceResult is what an external source reports back for one invocation
type SourceResult struct {
	ContentHash    string  `json:"content_hash"`
	ContentPreview string  `json:"content_preview"`
	EnergyCost     float64 `json:"energy_cost"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ExternalResult is a source result attributed to the source that
// produced it
type ExternalResult struct {
	SourceName     string  `json:"source"`
	ContentHash    string  `json:"content_hash"`
	ContentPreview string  `json:"content_preview,omitempty"`
	EnergyCost     float64 `json:"energy_cost"`
	RelevanceScore float64 `json:"relevance_score"`
}

// QueryResult is the scored outcome of one orchestrated retrieval. A
// result smaller than requested is still a success; budget exhaustion is
// encoded here, never raised as an error.
type QueryResult struct {
	RequestID            string           `json:"request_id"`
	Nodes                []NodeSummary    `json:"nodes"`
	Relationships        []Relationship   `json:"relationships"`
	ExternalIntegrations []ExternalResult `json:"external_integrations"`
	EnergyUsed           float64          `json:"energy_used"`
	EnergyEfficiency     float64          `json:"energy_efficiency"`
	ConfidenceScore      float64          `json:"confidence_score"`
}
