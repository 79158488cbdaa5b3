package projpath

import (
	"fmt"
	"go/types"
)

// Kind discriminates projection step kinds.
//
// Kind bytes are part of the spine encoding. The byte space deliberately
// leaves room for further kinds (case discriminators in particular) without
// re-encoding existing paths.
type Kind byte

const (
	// Field selects a struct field by index.
	Field Kind = 'f'
	// Index selects a tuple or array element by index.
	Index Kind = 'i'
	// Deref descends into referenced/boxed storage.
	Deref Kind = 'd'
)

func (k Kind) String() string {
	switch k {
	case Field:
		return "field"
	case Index:
		return "index"
	case Deref:
		return "deref"
	default:
		return fmt.Sprintf("kind-invalid(%c)", byte(k))
	}
}

// Step is a single projection selector.
type Step struct {
	Kind  Kind
	Index int
}

// FieldOf is a shorthand constructor for a struct field step.
func FieldOf(i int) Step { return Step{Kind: Field, Index: i} }

// IndexOf is a shorthand constructor for a tuple/array element step.
func IndexOf(i int) Step { return Step{Kind: Index, Index: i} }

// DerefStep is the single referenced-storage step.
func DerefStep() Step { return Step{Kind: Deref} }

func (s Step) String() string {
	if s.Kind == Deref {
		return "d"
	}
	return fmt.Sprintf("%c%d", byte(s.Kind), s.Index)
}

// typeAfter returns the type reached by applying s to t.
// It panics on a step that does not fit the type: such a step means the
// path was built against a different type, which is a caller defect.
func typeAfter(t types.Type, s Step) types.Type {
	switch s.Kind {
	case Field:
		st, ok := t.Underlying().(*types.Struct)
		if !ok {
			panic(fmt.Sprintf("projpath: field step %s applied to non-struct %s", s, t))
		}
		if s.Index < 0 || s.Index >= st.NumFields() {
			panic(fmt.Sprintf("projpath: field step %s out of range for %s", s, t))
		}
		return st.Field(s.Index).Type()
	case Index:
		switch u := t.Underlying().(type) {
		case *types.Tuple:
			if s.Index < 0 || s.Index >= u.Len() {
				panic(fmt.Sprintf("projpath: index step %s out of range for %s", s, t))
			}
			return u.At(s.Index).Type()
		case *types.Array:
			return u.Elem()
		default:
			panic(fmt.Sprintf("projpath: index step %s applied to %s", s, t))
		}
	case Deref:
		p, ok := t.Underlying().(*types.Pointer)
		if !ok {
			panic(fmt.Sprintf("projpath: deref step applied to non-reference %s", t))
		}
		return p.Elem()
	default:
		panic(fmt.Sprintf("projpath: unknown step kind %q", byte(s.Kind)))
	}
}
