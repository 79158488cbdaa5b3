// Package aa provides the baseline base-level alias oracle used by the
// tests: identical values must-alias, values from provably distinct
// allocation partitions no-alias, everything else may-alias. The library
// itself consumes only the memloc.AliasAnalysis interface.
package aa

import (
	"github.com/sirkon/memloc"
	"github.com/sirkon/memloc/ir"
)

// Oracle is the baseline partition-based oracle.
type Oracle struct{}

// New creates the oracle.
func New() *Oracle { return &Oracle{} }

// Alias judges base-level aliasing.
func (o *Oracle) Alias(a, b ir.Value) memloc.AliasResult {
	if a == b {
		return memloc.MustAlias
	}
	// Each allocation is its own partition; two distinct partitions never
	// overlap, and no other value can point into a fresh allocation's
	// partition before it escapes.
	if partitioned(a) && partitioned(b) {
		return memloc.NoAlias
	}
	return memloc.MayAlias
}

// partitioned reports whether v names storage with a known-exclusive
// partition: a fresh allocation or a distinct global.
func partitioned(v ir.Value) bool {
	switch v.(type) {
	case *ir.Alloc, *ir.Global:
		return true
	default:
		return false
	}
}
