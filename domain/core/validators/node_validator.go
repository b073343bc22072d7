package validators

import (
	"fmt"

	"atlas-backend/domain/config"
	pkgerrors "atlas-backend/pkg/errors"
)

// NodeValidator enforces node-level business rules against the domain
// configuration before anything touches the store
type NodeValidator struct {
	cfg *config.DomainConfig
}

// NewNodeValidator creates a validator with the given configuration
func NewNodeValidator(cfg *config.DomainConfig) *NodeValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &NodeValidator{cfg: cfg}
}

// ValidateNew checks the fields of a node about to be created
func (v *NodeValidator) ValidateNew(nodeType, name, content string) error {
	if nodeType == "" {
		return pkgerrors.NewValidationError("node type cannot be empty")
	}
	if len(nodeType) > v.cfg.MaxTypeLength {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("node type exceeds %d characters", v.cfg.MaxTypeLength))
	}
	if name == "" {
		return pkgerrors.NewValidationError("node name cannot be empty")
	}
	if len(name) > v.cfg.MaxNameLength {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("node name exceeds %d characters", v.cfg.MaxNameLength))
	}
	return v.ValidateContent(content)
}

// ValidateContent checks content constraints, shared by create and update
func (v *NodeValidator) ValidateContent(content string) error {
	if content == "" && !v.cfg.AllowEmptyContent {
		return pkgerrors.NewValidationError("node content cannot be empty")
	}
	if len(content) > v.cfg.MaxContentLength {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("node content exceeds %d characters", v.cfg.MaxContentLength))
	}
	return nil
}

// ValidateMetadataSize bounds the metadata map
func (v *NodeValidator) ValidateMetadataSize(keys int) error {
	if keys > v.cfg.MaxMetadataKeys {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("metadata exceeds %d keys", v.cfg.MaxMetadataKeys))
	}
	return nil
}
