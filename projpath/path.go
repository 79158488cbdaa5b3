package projpath

import (
	"fmt"
	"go/types"
	"hash/fnv"
	"strconv"
	"strings"
)

// Path is an immutable projection path rooted at a type.
//
// The zero Path is absent (not rooted anywhere). A present path of length
// zero names the whole root object.
type Path struct {
	root  types.Type
	spine string
}

// Of returns the empty path rooted at t.
func Of(t types.Type) Path {
	if t == nil {
		panic("projpath: nil root type")
	}
	return Path{root: t}
}

// Make builds a path rooted at t with the given steps.
func Make(t types.Type, steps ...Step) Path {
	p := Of(t)
	for _, s := range steps {
		p = p.Append(s)
	}
	return p
}

// IsSet reports whether the path is present.
func (p Path) IsSet() bool { return p.root != nil }

// Root returns the type the path is rooted at.
func (p Path) Root() types.Type { return p.root }

// Len returns the number of steps.
func (p Path) Len() int {
	if p.spine == "" {
		return 0
	}
	return strings.Count(p.spine, ".") + 1
}

// Append returns a copy of p with s appended.
func (p Path) Append(s Step) Path {
	p.mustBeSet()
	if p.spine == "" {
		return Path{root: p.root, spine: s.String()}
	}
	return Path{root: p.root, spine: p.spine + "." + s.String()}
}

// Concat returns a copy of p extended with all steps of q.
func (p Path) Concat(q Path) Path {
	p.mustBeSet()
	if !q.IsSet() || q.spine == "" {
		return p
	}
	if p.spine == "" {
		return Path{root: p.root, spine: q.spine}
	}
	return Path{root: p.root, spine: p.spine + "." + q.spine}
}

// PopLast returns a copy of p with the last step removed.
// The path must be present and non-empty.
func (p Path) PopLast() Path {
	p.mustBeSet()
	if p.spine == "" {
		panic("projpath: PopLast on an empty path")
	}
	i := strings.LastIndexByte(p.spine, '.')
	if i < 0 {
		return Path{root: p.root}
	}
	return Path{root: p.root, spine: p.spine[:i]}
}

// Last returns the final step of a non-empty path.
func (p Path) Last() Step {
	p.mustBeSet()
	if p.spine == "" {
		panic("projpath: Last on an empty path")
	}
	i := strings.LastIndexByte(p.spine, '.')
	return parseStep(p.spine[i+1:])
}

// HasPrefix reports whether q is a (possibly equal) step prefix of p.
func (p Path) HasPrefix(q Path) bool {
	p.mustBeSet()
	q.mustBeSet()
	if q.spine == "" {
		return true
	}
	if p.spine == q.spine {
		return true
	}
	return strings.HasPrefix(p.spine, q.spine+".")
}

// RemovePrefix returns the suffix of p after q. The returned path is rooted
// at the type q leads to. q must be an actual prefix of p.
func (p Path) RemovePrefix(q Path) Path {
	if !p.HasPrefix(q) {
		panic("projpath: RemovePrefix with a non-prefix argument")
	}
	root := q.MostDerivedType()
	if p.spine == q.spine {
		return Path{root: root}
	}
	rest := p.spine
	if q.spine != "" {
		rest = p.spine[len(q.spine)+1:]
	}
	return Path{root: root, spine: rest}
}

// Equal reports structural step equality. Roots are not compared: two paths
// with identical steps name the same relative sub-object.
func (p Path) Equal(q Path) bool {
	return p.IsSet() && q.IsSet() && p.spine == q.spine
}

// HasNonEmptySymmetricDifference reports whether the two paths diverge at
// some step, i.e. name disjoint sub-objects of a common base. Paths where
// one is a prefix of the other (or equal) have no such divergence.
func (p Path) HasNonEmptySymmetricDifference(q Path) bool {
	p.mustBeSet()
	q.mustBeSet()
	a, b := p.spine, q.spine
	if len(a) > len(b) {
		a, b = b, a
	}
	// a is the shorter spine; a prefix relation means no divergence.
	if a == "" || a == b || strings.HasPrefix(b, a+".") {
		return false
	}
	return true
}

// Steps decodes the path into its step sequence.
func (p Path) Steps() []Step {
	p.mustBeSet()
	if p.spine == "" {
		return nil
	}
	toks := strings.Split(p.spine, ".")
	steps := make([]Step, len(toks))
	for i, tok := range toks {
		steps[i] = parseStep(tok)
	}
	return steps
}

// MostDerivedType returns the type the path leads to, starting from the
// root and following every step.
func (p Path) MostDerivedType() types.Type {
	p.mustBeSet()
	t := p.root
	for _, s := range p.Steps() {
		t = typeAfter(t, s)
	}
	return t
}

// Hash returns a hash of the step structure, consistent with Equal.
func (p Path) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(p.spine))
	return h.Sum64()
}

// String renders the spine. An absent path renders as "<none>".
func (p Path) String() string {
	if !p.IsSet() {
		return "<none>"
	}
	return p.spine
}

func (p Path) mustBeSet() {
	if !p.IsSet() {
		panic("projpath: operation on an absent path")
	}
}

func parseStep(tok string) Step {
	if tok == "d" {
		return Step{Kind: Deref}
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil {
		panic(fmt.Sprintf("projpath: malformed spine token %q", tok))
	}
	return Step{Kind: Kind(tok[0]), Index: n}
}
