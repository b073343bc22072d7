package sources

import (
	"atlas-backend/application/ports"
	"atlas-backend/domain/energy"
)

// Well-known source names the default policy reasons about. Sources
// outside this set are only consulted when a request names them or the
// comprehensive strategy sweeps them in.
const (
	SourceBroad   = "broad"
	SourceCurated = "curated"
	SourceExpert  = "expert"
)

// DefaultSourcePolicy maps query intent to a source set. It is advisory:
// a request that names its own sources never reaches the policy.
type DefaultSourcePolicy struct{}

// NewDefaultSourcePolicy creates the built-in intent policy
func NewDefaultSourcePolicy() *DefaultSourcePolicy {
	return &DefaultSourcePolicy{}
}

var _ ports.SourcePolicy = (*DefaultSourcePolicy)(nil)

// Select picks sources for the intent. Integration and synthesis favor
// wide recall, validation and optimization favor precision. The
// comprehensive strategy adds every remaining available source.
func (p *DefaultSourcePolicy) Select(intent string, strategy string, available []string) []string {
	var picked []string
	switch intent {
	case "integration", "synthesis":
		picked = filterAvailable([]string{SourceBroad, SourceCurated}, available)
	case "validation", "optimization":
		picked = filterAvailable([]string{SourceExpert}, available)
	default:
		picked = nil
	}

	if energy.Strategy(strategy) == energy.StrategyComprehensive {
		seen := make(map[string]struct{}, len(picked))
		for _, name := range picked {
			seen[name] = struct{}{}
		}
		for _, name := range available {
			if _, ok := seen[name]; !ok {
				picked = append(picked, name)
			}
		}
	}
	return picked
}

func filterAvailable(want, available []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, name := range available {
		have[name] = struct{}{}
	}
	out := make([]string, 0, len(want))
	for _, name := range want {
		if _, ok := have[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
