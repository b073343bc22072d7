package energy

import "fmt"

// OperationKind names the budgeted engine operations
type OperationKind string

const (
	OpNavigate          OperationKind = "navigate"
	OpAssembleContext   OperationKind = "assemble_context"
	OpIntegrateExternal OperationKind = "integrate_external"
)

// Strategy is a named policy scaling resource costs
type Strategy string

const (
	StrategyMinimal       Strategy = "minimal"
	StrategyBalanced      Strategy = "balanced"
	StrategyComprehensive Strategy = "comprehensive"
	StrategyOptimized     Strategy = "optimized"
)

// ParseStrategy validates a strategy name, defaulting empty to balanced
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyMinimal, StrategyBalanced, StrategyComprehensive, StrategyOptimized:
		return Strategy(s), nil
	case "":
		return StrategyBalanced, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Multiplier returns the strategy's cost scaling factor
func (s Strategy) Multiplier() float64 {
	switch s {
	case StrategyMinimal:
		return 0.5
	case StrategyComprehensive:
		return 1.5
	case StrategyOptimized:
		return 0.8
	default:
		return 1.0
	}
}

// Tuning holds the tunable cost constants behind the allocator. The
// zero value is unusable; start from DefaultTuning.
type Tuning struct {
	NavigateCost  float64 `yaml:"navigate_cost"`
	AssembleCost  float64 `yaml:"assemble_cost"`
	IntegrateCost float64 `yaml:"integrate_cost"`

	// DepthFactor is the per-level surcharge in the depth multiplier
	DepthFactor float64 `yaml:"depth_factor"`

	// CapFraction bounds how much of the remaining budget a single
	// sub-operation may commit
	CapFraction float64 `yaml:"cap_fraction"`

	// ChildFanOut limits how many children of a node the navigator
	// expands per level
	ChildFanOut int `yaml:"child_fan_out"`

	// AssembleFraction is the per-node context-extraction cost relative
	// to the node's navigation cost
	AssembleFraction float64 `yaml:"assemble_fraction"`
}

// DefaultTuning returns the stock cost constants
func DefaultTuning() Tuning {
	return Tuning{
		NavigateCost:     50,
		AssembleCost:     100,
		IntegrateCost:    75,
		DepthFactor:      0.2,
		CapFraction:      0.8,
		ChildFanOut:      5,
		AssembleFraction: 0.1,
	}
}

// Validate rejects tunings that would break budget accounting
func (t Tuning) Validate() error {
	if t.NavigateCost <= 0 || t.AssembleCost <= 0 || t.IntegrateCost <= 0 {
		return fmt.Errorf("base costs must be positive")
	}
	if t.DepthFactor < 0 {
		return fmt.Errorf("depth factor cannot be negative")
	}
	if t.CapFraction <= 0 || t.CapFraction > 1 {
		return fmt.Errorf("cap fraction must be in (0,1]")
	}
	if t.ChildFanOut < 0 {
		return fmt.Errorf("child fan-out cannot be negative")
	}
	if t.AssembleFraction <= 0 || t.AssembleFraction > 1 {
		return fmt.Errorf("assemble fraction must be in (0,1]")
	}
	return nil
}

// Allocator maps operations and strategies to energy costs. It is pure
// computation over its tuning; it never mutates a ledger itself.
type Allocator struct {
	tuning Tuning
}

// NewAllocator creates an allocator over the given tuning
func NewAllocator(tuning Tuning) *Allocator {
	return &Allocator{tuning: tuning}
}

// Tuning returns the allocator's tuning constants
func (a *Allocator) Tuning() Tuning {
	return a.tuning
}

// BaseCost returns the untuned base cost for an operation
func (a *Allocator) BaseCost(op OperationKind) float64 {
	switch op {
	case OpNavigate:
		return a.tuning.NavigateCost
	case OpAssembleContext:
		return a.tuning.AssembleCost
	case OpIntegrateExternal:
		return a.tuning.IntegrateCost
	}
	return 0
}

// DepthMultiplier scales cost by traversal depth
func (a *Allocator) DepthMultiplier(depth int) float64 {
	if depth < 0 {
		depth = 0
	}
	return 1.0 + a.tuning.DepthFactor*float64(depth)
}

// Cost computes the energy cost of an operation at a given context depth
// under a strategy
func (a *Allocator) Cost(op OperationKind, depth int, strategy Strategy) float64 {
	return a.BaseCost(op) * a.DepthMultiplier(depth) * strategy.Multiplier()
}

// NodeCost computes a per-node cost, using the node's declared
// transformation cost in place of the base cost when one is declared
func (a *Allocator) NodeCost(op OperationKind, declared float64, depth int, strategy Strategy) float64 {
	base := declared
	if base <= 0 {
		base = a.BaseCost(op)
	}
	return base * a.DepthMultiplier(depth) * strategy.Multiplier()
}

// AssembleCost computes the per-node context-extraction cost. Extraction
// is an order of magnitude cheaper than navigating the same node.
func (a *Allocator) AssembleCost(declared float64) float64 {
	base := declared
	if base <= 0 {
		base = a.tuning.NavigateCost
	}
	return a.tuning.AssembleFraction * base
}

// Cap bounds a requested sub-budget so no single sub-operation commits
// more than the configured fraction of what remains, preserving headroom
// for later stages.
func (a *Allocator) Cap(requested float64, ledger *Ledger) float64 {
	limit := ledger.Remaining() * a.tuning.CapFraction
	if requested < limit {
		return requested
	}
	return limit
}

// FanOut returns the navigator's per-node child expansion limit
func (a *Allocator) FanOut() int {
	return a.tuning.ChildFanOut
}
