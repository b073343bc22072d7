package entities

import (
	"time"

	"atlas-backend/domain/core/valueobjects"
	pkgerrors "atlas-backend/pkg/errors"
)

// Structure-info keys maintained by the store
const (
	StructureDepth      = "depth"
	StructureChildCount = "child_count"
)

// TransformationCostKey is the metadata entry a node may use to declare
// how much energy navigating it costs. Absent or non-numeric means the
// allocator's base navigation cost applies.
const TransformationCostKey = "transformation_cost"

// Node is the main entity: an attributed knowledge unit with an optional
// parent and ordered children. Identity is content-derived, so a node's id
// never changes across updates.
type Node struct {
	// Private fields ensure encapsulation
	id        valueobjects.NodeID
	nodeType  string
	name      string
	content   string
	parentID  string // empty means root
	children  []string
	metadata  valueobjects.Metadata
	structure valueobjects.Metadata
	createdAt time.Time
	updatedAt time.Time
}

// NewNode creates a new node with its id derived from type, name, and content
func NewNode(nodeType, name, content string, metadata valueobjects.Metadata) (*Node, error) {
	if nodeType == "" {
		return nil, pkgerrors.NewValidationError("node type cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("node name cannot be empty")
	}
	if metadata == nil {
		metadata = valueobjects.Metadata{}
	}

	now := time.Now()
	return &Node{
		id:        valueobjects.NewNodeID(nodeType, name, content),
		nodeType:  nodeType,
		name:      name,
		content:   content,
		children:  []string{},
		metadata:  metadata,
		structure: valueobjects.Metadata{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructNode rebuilds a node from repository data with preserved
// timestamps and links
func ReconstructNode(
	id valueobjects.NodeID,
	nodeType, name, content, parentID string,
	children []string,
	metadata, structure valueobjects.Metadata,
	createdAt, updatedAt time.Time,
) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node id cannot be empty")
	}
	if nodeType == "" {
		return nil, pkgerrors.NewValidationError("node type cannot be empty")
	}
	if children == nil {
		children = []string{}
	}
	if metadata == nil {
		metadata = valueobjects.Metadata{}
	}
	if structure == nil {
		structure = valueobjects.Metadata{}
	}

	return &Node{
		id:        id,
		nodeType:  nodeType,
		name:      name,
		content:   content,
		parentID:  parentID,
		children:  children,
		metadata:  metadata,
		structure: structure,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Type returns the node's type tag
func (n *Node) Type() string {
	return n.nodeType
}

// Name returns the node's name
func (n *Node) Name() string {
	return n.name
}

// Content returns the node's content
func (n *Node) Content() string {
	return n.content
}

// ParentID returns the parent's id, empty for a root node
func (n *Node) ParentID() string {
	return n.parentID
}

// IsRoot reports whether the node has no parent
func (n *Node) IsRoot() bool {
	return n.parentID == ""
}

// SetParentID links the node under a parent
func (n *Node) SetParentID(parentID string) {
	n.parentID = parentID
	n.updatedAt = time.Now()
}

// ClearParent makes the node a root
func (n *Node) ClearParent() {
	n.parentID = ""
	n.updatedAt = time.Now()
}

// UpdateContent replaces the node's content. The id stays stable for the
// node's lifetime even though it was derived from the original content.
func (n *Node) UpdateContent(content string) {
	if content == n.content {
		return
	}
	n.content = content
	n.updatedAt = time.Now()
}

// ReplaceMetadata swaps the whole metadata map
func (n *Node) ReplaceMetadata(metadata valueobjects.Metadata) {
	if metadata == nil {
		metadata = valueobjects.Metadata{}
	}
	n.metadata = metadata
	n.updatedAt = time.Now()
}

// AddChild registers a child id, preserving insertion order. Duplicates
// are ignored.
func (n *Node) AddChild(childID string) {
	for _, c := range n.children {
		if c == childID {
			return
		}
	}
	n.children = append(n.children, childID)
	n.structure[StructureChildCount] = valueobjects.NumberValue(float64(len(n.children)))
	n.updatedAt = time.Now()
}

// RemoveChild unlinks a child id
func (n *Node) RemoveChild(childID string) bool {
	for i, c := range n.children {
		if c == childID {
			n.children = append(n.children[:i], n.children[i+1:]...)
			n.structure[StructureChildCount] = valueobjects.NumberValue(float64(len(n.children)))
			n.updatedAt = time.Now()
			return true
		}
	}
	return false
}

// ChildIDs returns the child ids in insertion order
func (n *Node) ChildIDs() []string {
	// Return a copy to maintain encapsulation
	ids := make([]string, len(n.children))
	copy(ids, n.children)
	return ids
}

// ChildCount returns the number of direct children
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Metadata returns a copy of the metadata map
func (n *Node) Metadata() valueobjects.Metadata {
	return n.metadata.Clone()
}

// StructureInfo returns a copy of the structure map
func (n *Node) StructureInfo() valueobjects.Metadata {
	return n.structure.Clone()
}

// SetStructureValue records a structural attribute (depth, counts)
func (n *Node) SetStructureValue(key string, value valueobjects.MetaValue) {
	n.structure[key] = value
}

// DeclaredCost returns the node's declared transformation cost, or 0 when
// the node declares none
func (n *Node) DeclaredCost() float64 {
	cost, ok := n.metadata.Number(TransformationCostKey)
	if !ok || cost < 0 {
		return 0
	}
	return cost
}

// Depth returns the node's recorded depth in the hierarchy
func (n *Node) Depth() int {
	d, ok := n.structure.Number(StructureDepth)
	if !ok {
		return 0
	}
	return int(d)
}

// CreatedAt returns when the node was created
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns when the node was last updated
func (n *Node) UpdatedAt() time.Time {
	return n.updatedAt
}
