package memloc

import (
	"go/types"

	"github.com/sirkon/memloc/ir"
	"github.com/sirkon/memloc/projpath"
)

// TypeExpansion is the external decomposition policy: the immediate
// projection steps of an aggregate, and how deep decomposition may go.
type TypeExpansion interface {
	Children(t types.Type) []projpath.Step
	MaxDepth() int
}

// Location names addressable storage: a base plus the path to the accessed
// sub-object. Location is comparable and keys maps directly.
type Location struct {
	Base
}

// NewLocation builds a location from a base value and a path.
func NewLocation(base ir.Value, path projpath.Path) Location {
	return Location{Base: NewBase(base, path)}
}

// LocationFor names the whole object behind base: an empty path rooted at
// the base's object layout.
func LocationFor(base ir.Value) Location {
	return NewLocation(base, projpath.Of(ir.ObjectType(base)))
}

// SentinelLocation builds an Empty or Tombstone sentinel location.
func SentinelLocation(k KeyKind) Location {
	return Location{Base: SentinelBase(k)}
}

// TypeAt returns the most derived type reached by following the path from
// the base's layout.
func (l Location) TypeAt() types.Type {
	return l.path.MostDerivedType()
}

// NextLevelLocations returns the immediate child locations for the type at
// this location: one per struct field, per tuple/array element, or the
// single referenced-storage child. Leaves yield nothing.
func (l Location) NextLevelLocations(te TypeExpansion) []Location {
	steps := te.Children(l.TypeAt())
	if len(steps) == 0 {
		return nil
	}
	kids := make([]Location, len(steps))
	for i, s := range steps {
		kids[i] = NewLocation(l.base, l.path.Append(s))
	}
	return kids
}

// ExpandLocation decomposes l into the flat list of leaf locations it
// covers. The result is a partition: pairwise non-aliasing children whose
// union is exactly l. Where the policy caps decomposition the capped
// location itself is the leaf.
func ExpandLocation(l Location, te TypeExpansion) []Location {
	var out []Location
	expandLocation(l, te, 0, &out)
	return out
}

func expandLocation(l Location, te TypeExpansion, depth int, out *[]Location) {
	if depth < te.MaxDepth() {
		if kids := l.NextLevelLocations(te); len(kids) > 0 {
			for _, k := range kids {
				expandLocation(k, te, depth+1, out)
			}
			return
		}
	}
	*out = append(*out, l)
}

// BaseAddressOrObject walks backward through address projections to the
// ultimate base of v. With stopAtImmutable set the walk stops early at a
// projection marked immutable and reports the stop: such a projection
// bounds all possible mutators, so the caller may seed an independent
// analysis from it.
func BaseAddressOrObject(v ir.Value, stopAtImmutable bool) (ir.Value, bool) {
	for {
		switch i := v.(type) {
		case *ir.FieldAddr:
			v = i.X
		case *ir.IndexAddr:
			v = i.X
		case *ir.RefFieldAddr:
			if stopAtImmutable && i.Immutable {
				return v, true
			}
			v = i.Ref
		default:
			return v, false
		}
	}
}

// pathFromBase rebuilds the projection path from base to the derived
// address addr. Returns the absent path when addr is not reachable from
// base through projections alone; callers treat that conservatively.
func pathFromBase(base, addr ir.Value) projpath.Path {
	var rev []projpath.Step
	v := addr
	for v != base {
		switch i := v.(type) {
		case *ir.FieldAddr:
			rev = append(rev, projpath.FieldOf(i.Field))
			v = i.X
		case *ir.IndexAddr:
			rev = append(rev, projpath.IndexOf(i.Index))
			v = i.X
		case *ir.RefFieldAddr:
			rev = append(rev, projpath.FieldOf(i.Field))
			v = i.Ref
		default:
			return projpath.Path{}
		}
	}
	p := projpath.Of(ir.ObjectType(base))
	for i := len(rev) - 1; i >= 0; i-- {
		p = p.Append(rev[i])
	}
	return p
}
