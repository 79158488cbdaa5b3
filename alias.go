package memloc

import (
	"fmt"

	"github.com/sirkon/memloc/ir"
)

// AliasResult is the base-level aliasing lattice.
type AliasResult uint8

const (
	// NoAlias: provably disjoint storage.
	NoAlias AliasResult = iota
	// MayAlias: disjointness cannot be proven.
	MayAlias
	// MustAlias: provably identical storage.
	MustAlias
)

func (r AliasResult) String() string {
	switch r {
	case NoAlias:
		return "no-alias"
	case MayAlias:
		return "may-alias"
	case MustAlias:
		return "must-alias"
	default:
		return fmt.Sprintf("alias-result-invalid(%d)", uint8(r))
	}
}

// AliasAnalysis is the external oracle for base-level judgments. The model
// only ever narrows its answers with path reasoning; it never invents
// aliasing facts of its own.
//
// Implementations must keep the lattice sound: MustAlias implies MayAlias,
// and NoAlias must be a proof, not a guess.
type AliasAnalysis interface {
	Alias(a, b ir.Value) AliasResult
}

// IsMayAlias reports whether the two locations may name overlapping
// storage. With a shared base the paths decide: overlap unless a symmetric
// path difference proves disjoint fields. Distinct bases delegate to the
// oracle first.
func (l Location) IsMayAlias(o Location, aa AliasAnalysis) bool {
	if aa.Alias(l.base, o.base) == NoAlias {
		return false
	}
	// One path a prefix of the other (or equal) means containment.
	return !l.HasNonEmptySymmetricPathDifference(o.Base)
}

// IsMustAlias reports whether the two locations provably name the same
// storage: bases proven identical and structurally identical paths.
func (l Location) IsMustAlias(o Location, aa AliasAnalysis) bool {
	if l.base != o.base && aa.Alias(l.base, o.base) != MustAlias {
		return false
	}
	return l.HasIdenticalProjectionPath(o.Base)
}
