package memloc

import (
	"github.com/sirkon/memloc/ir"
)

// Vault is the append-only registry of the locations discovered in one
// function: each location gets a stable dense index on first insertion, so
// the indices can serve as a bit-vector axis for dataflow. The vault is
// populated by one enumeration sweep and read-only afterwards.
type Vault struct {
	locations []Location
	index     map[Location]int
	bases     map[ir.Value]Location

	// NumLoads and NumStores count enumerated memory operations;
	// ImmutableLoadsFound reports whether any load's base walk stopped at
	// an immutable projection. Caller heuristics only.
	NumLoads            int
	NumStores           int
	ImmutableLoadsFound bool
}

// NewVault creates an empty vault.
func NewVault() *Vault {
	return &Vault{
		index: make(map[Location]int),
		bases: make(map[ir.Value]Location),
	}
}

// Len returns the number of registered locations.
func (v *Vault) Len() int { return len(v.locations) }

// At returns the location with the given dense index.
func (v *Vault) At(i int) Location { return v.locations[i] }

// Locations returns the registered locations in index order. The slice is
// owned by the vault.
func (v *Vault) Locations() []Location { return v.locations }

// IndexOf returns the dense index of loc.
func (v *Vault) IndexOf(loc Location) (int, bool) {
	i, ok := v.index[loc]
	return i, ok
}

// ForBase returns the un-expanded location recorded for the memory operand
// addr during enumeration.
func (v *Vault) ForBase(addr ir.Value) (Location, bool) {
	l, ok := v.bases[addr]
	return l, ok
}

// add registers loc. First-seen wins; duplicates reuse the earlier index.
func (v *Vault) add(loc Location) int {
	if i, ok := v.index[loc]; ok {
		return i
	}
	i := len(v.locations)
	v.locations = append(v.locations, loc)
	v.index[loc] = i
	return i
}

// EnumerateLocation registers the leaf locations accessed through the
// memory operand mem: it walks mem to its base, rebuilds the projection
// path, expands the resulting location and inserts every leaf. Reports
// whether the base walk stopped at an immutable projection.
//
// Operands whose base cannot be related by projections alone yield an
// invalid location and are skipped; the caller stays conservative about
// them.
func EnumerateLocation(v *Vault, te TypeExpansion, mem ir.Value, stopAtImmutable bool) bool {
	base, immutable := BaseAddressOrObject(mem, stopAtImmutable)
	loc := NewLocation(base, pathFromBase(base, mem))
	if !loc.IsValid() {
		return immutable
	}
	if _, ok := v.bases[mem]; !ok {
		v.bases[mem] = loc
	}
	for _, leaf := range ExpandLocation(loc, te) {
		v.add(leaf)
	}
	return immutable
}

// EnumerateLocations sweeps every memory operation of fn in deterministic
// block/instruction order and registers all accessed leaf locations.
func EnumerateLocations(fn *ir.Function, te TypeExpansion, stopAtImmutable bool) *Vault {
	v := NewVault()
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instrs {
			switch i := instr.(type) {
			case *ir.Load:
				if EnumerateLocation(v, te, i.X, stopAtImmutable) {
					v.ImmutableLoadsFound = true
				}
				v.NumLoads++
			case *ir.Store:
				EnumerateLocation(v, te, i.Addr, stopAtImmutable)
				v.NumStores++
			}
		}
	}
	return v
}
