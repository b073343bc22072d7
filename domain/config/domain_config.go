package config

// DomainConfig holds configurable business rules and constraints
type DomainConfig struct {
	// Node constraints
	MaxTypeLength    int
	MaxNameLength    int
	MaxContentLength int
	MaxMetadataKeys  int
	MaxChildrenPerNode int

	// Query constraints
	MaxSeedNodes    int
	MaxContextDepth int

	// Validation settings
	AllowEmptyContent bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxTypeLength:      64,
		MaxNameLength:      200,
		MaxContentLength:   50000,
		MaxMetadataKeys:    100,
		MaxChildrenPerNode: 1000,

		MaxSeedNodes:    100,
		MaxContextDepth: 10,

		AllowEmptyContent: true,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	cfg := DefaultDomainConfig()

	// More restrictive limits for production
	cfg.MaxContentLength = 20000
	cfg.MaxChildrenPerNode = 500
	cfg.MaxSeedNodes = 50
	cfg.AllowEmptyContent = false

	return cfg
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}
