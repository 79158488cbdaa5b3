package memloc

import (
	"strings"

	"github.com/sirkon/rbtree"
)

// reduceNode is a node of the projection tree rooted at the location being
// reduced, indexed by its path spine.
type reduceNode struct {
	spine   string
	loc     Location
	kids    []*reduceNode
	present bool
}

// Cmp orders nodes by path spine. Ordering only serves deterministic
// lookup; it carries no structural meaning.
func (n *reduceNode) Cmp(o *reduceNode) int {
	return strings.Compare(n.spine, o.spine)
}

// ReduceLocations is the inverse of ExpandLocation: it merges a flat list
// of locations derived from base back into the smallest covering list,
// folding every complete sibling group into its parent. Locations that do
// not belong to base's projection tree pass through untouched, so a list
// with missing siblings reduces as far as it can and no further.
func ReduceLocations(base Location, te TypeExpansion, locs []Location) []Location {
	if len(locs) < 2 {
		return locs
	}

	// Rebuild the projection tree of base, indexed by spine.
	index := rbtree.New[*reduceNode]()
	root := &reduceNode{spine: base.Path().String(), loc: base}
	index.InsertReturn(root)
	order := []*reduceNode{root}

	frontier := []*reduceNode{root}
	for depth := 0; depth < te.MaxDepth() && len(frontier) > 0; depth++ {
		var next []*reduceNode
		for _, n := range frontier {
			for _, k := range n.loc.NextLevelLocations(te) {
				kn := &reduceNode{spine: k.Path().String(), loc: k}
				index.InsertReturn(kn)
				n.kids = append(n.kids, kn)
				order = append(order, kn)
				next = append(next, kn)
			}
		}
		frontier = next
	}

	var passthrough []Location
	for _, l := range locs {
		if l.BaseValue() != base.BaseValue() || !l.Path().IsSet() {
			passthrough = append(passthrough, l)
			continue
		}
		n := index.Search(&reduceNode{spine: l.Path().String()})
		if n == nil {
			passthrough = append(passthrough, l)
			continue
		}
		n.present = true
	}

	// The order slice lists parents before their children, so a backward
	// walk folds bottom-up: every complete sibling group collapses before
	// its parent's own group is examined.
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		if len(n.kids) == 0 || n.present {
			continue
		}
		complete := true
		for _, k := range n.kids {
			if !k.present {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for _, k := range n.kids {
			k.present = false
		}
		n.present = true
	}

	var out []Location
	for _, n := range order {
		if n.present {
			out = append(out, n.loc)
		}
	}
	return append(out, passthrough...)
}
