package memloc

import "fmt"

// Stats aggregates per-function counters for caller heuristics and pass
// reporting. Precision losses (capped expansions) surface here and nowhere
// else: they are never errors.
type Stats struct {
	Loads            int
	Stores           int
	Locations        int
	ImmutableLoads   bool
	CappedExpansions int
}

// CollectStats snapshots the counters of a populated vault. Expansion-cap
// counts are picked up when the policy exposes them.
func CollectStats(v *Vault, te TypeExpansion) Stats {
	s := Stats{
		Loads:          v.NumLoads,
		Stores:         v.NumStores,
		Locations:      v.Len(),
		ImmutableLoads: v.ImmutableLoadsFound,
	}
	if c, ok := te.(interface{ CappedCount() int }); ok {
		s.CappedExpansions = c.CappedCount()
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("locations: %d loads: %d stores: %d immutable: %v capped: %d",
		s.Locations, s.Loads, s.Stores, s.ImmutableLoads, s.CappedExpansions)
}
