package valueobjects

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// NodeID is a value object representing a unique node identifier.
// IDs are derived deterministically from the node's type, name, and content,
// so creating the same node twice yields the same identity. This is the
// dedup mechanism for the whole store.
type NodeID struct {
	value string
}

// idSeparator keeps "a"+"bc" and "ab"+"c" from hashing to the same id.
const idSeparator = "\x1f"

// NewNodeID derives a NodeID from the node's type, name, and content
func NewNodeID(nodeType, name, content string) NodeID {
	sum := sha256.Sum256([]byte(nodeType + idSeparator + name + idSeparator + content))
	return NodeID{value: hex.EncodeToString(sum[:16])}
}

// NewNodeIDFromString creates a NodeID from an existing string
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	return NodeID{value: id}, nil
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("NodeID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
