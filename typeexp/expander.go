package typeexp

import (
	"go/types"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/sirkon/memloc/projpath"
)

// Expander serves immediate-children queries under a Limits policy.
// Not safe for concurrent use; the passes run single-threaded.
type Expander struct {
	limits Limits

	// cache maps types.Type to []projpath.Step.
	cache  typeutil.Map
	capped int
}

// NewExpander creates an expander with the given policy.
func NewExpander(limits Limits) *Expander {
	return &Expander{limits: limits}
}

// Limits returns the active policy.
func (e *Expander) Limits() Limits { return e.limits }

// MaxDepth returns the decomposition depth cap.
func (e *Expander) MaxDepth() int { return e.limits.MaxDepth }

// CappedCount reports how many distinct types were kept opaque because of
// the width caps. Pass statistics only.
func (e *Expander) CappedCount() int { return e.capped }

// Children returns the immediate projection steps of t: one per struct
// field, one per tuple element, one per array element, or the single
// referenced-storage step. A nil result means t is a leaf under the policy.
func (e *Expander) Children(t types.Type) []projpath.Step {
	if hit, ok := e.cache.At(t).([]projpath.Step); ok {
		return hit
	}

	steps := e.children(t)
	e.cache.Set(t, steps)
	return steps
}

func (e *Expander) children(t types.Type) []projpath.Step {
	switch u := t.Underlying().(type) {
	case *types.Struct:
		if u.NumFields() == 0 {
			return nil
		}
		if u.NumFields() > e.limits.MaxFields {
			e.capped++
			return nil
		}
		steps := make([]projpath.Step, u.NumFields())
		for i := range steps {
			steps[i] = projpath.FieldOf(i)
		}
		return steps
	case *types.Tuple:
		if u.Len() == 0 {
			return nil
		}
		if u.Len() > e.limits.MaxFields {
			e.capped++
			return nil
		}
		steps := make([]projpath.Step, u.Len())
		for i := range steps {
			steps[i] = projpath.IndexOf(i)
		}
		return steps
	case *types.Array:
		n := int(u.Len())
		if n == 0 {
			return nil
		}
		if n > e.limits.MaxArrayLen {
			e.capped++
			return nil
		}
		steps := make([]projpath.Step, n)
		for i := range steps {
			steps[i] = projpath.IndexOf(i)
		}
		return steps
	case *types.Pointer:
		if e.limits.Indirect != IndirectExpand {
			return nil
		}
		return []projpath.Step{projpath.DerefStep()}
	default:
		return nil
	}
}
