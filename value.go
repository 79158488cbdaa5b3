package memloc

import (
	"github.com/sirkon/memloc/ir"
	"github.com/sirkon/memloc/projpath"
)

// Value names (a part of) a produced value: a base plus the path selecting
// the meant sub-object. A covering value carries no payload at all: it
// means "resolve lazily by merging per-predecessor values", and is
// introduced at control-flow joins where predecessors disagree.
type Value struct {
	Base
	covering bool
}

// NewValue builds a concrete value.
func NewValue(base ir.Value, path projpath.Path) Value {
	return Value{Base: NewBase(base, path)}
}

// ValueFor names the whole value v: an empty path rooted at v's type.
func ValueFor(v ir.Value) Value {
	return NewValue(v, projpath.Of(v.Type()))
}

// CoveringValue builds the lazily-resolved merge placeholder.
func CoveringValue() Value {
	return Value{covering: true}
}

// SentinelValue builds an Empty or Tombstone sentinel value.
func SentinelValue(k KeyKind) Value {
	return Value{Base: SentinelBase(k)}
}

// IsCoveringValue reports whether this is the merge placeholder.
func (v Value) IsCoveringValue() bool { return v.covering }

// IsValid reports whether the value is initialized. Covering values are
// always valid.
func (v Value) IsValid() bool {
	if v.covering {
		return true
	}
	return v.Base.IsValid()
}

// Equal extends the base contract: covering values equal each other and
// nothing else.
func (v Value) Equal(o Value) bool {
	if v.covering && o.covering {
		return true
	}
	if v.covering != o.covering {
		return false
	}
	return v.Base.Equal(o.Base)
}

// Hash is consistent with Equal.
func (v Value) Hash() uint64 {
	if v.covering {
		return 0x1
	}
	return v.Base.Hash() << 1
}

// StripLastLevelProjection pops the last path component. The path must be
// present and non-empty.
func (v *Value) StripLastLevelProjection() {
	if !v.path.IsSet() {
		panic("memloc: StripLastLevelProjection on a pathless value")
	}
	v.path = v.path.PopLast()
}

func (v Value) String() string {
	if v.covering {
		return "<covering>"
	}
	return v.Base.String()
}

// Materialize synthesizes the IR value this Value represents, anchored at
// the given point.
//
// A covering value yields nil: the caller must resolve it through
// per-predecessor reduction first. An undef base is returned unchanged.
// Otherwise the path is extracted from the base right after the base's
// definition; under explicit-ownership IR a non-empty extraction is routed
// through borrowedExtract so the result gets an independent lifetime and
// the base copy is consumed on every path.
func (v Value) Materialize(at *ir.Builder) ir.Value {
	if v.covering {
		return nil
	}
	if ir.IsUndef(v.base) {
		return v.base
	}
	if at.Function().Ownership && v.path.Len() > 0 {
		return borrowedExtract(at, v.base, v.path)
	}
	return extractPath(ir.InsertAfter(v.base, at), v.base, v.path)
}

// borrowedExtract is the one scoped-ownership helper: borrow the base for
// the extraction, copy the extracted result so it survives the scope, end
// the borrow, and consume the no-longer-needed base at the anchor point.
// Keeping the whole choreography in one place guarantees the copy/destroy
// pairing cannot be skipped on any exit path.
func borrowedExtract(at *ir.Builder, base ir.Value, p projpath.Path) ir.Value {
	b := ir.InsertAfter(base, at)
	borrow := b.BeginBorrow(base)
	res := extractPath(b, borrow, p)
	res = b.Copy(res)
	b.EndBorrow(borrow)
	at.Destroy(base)
	return res
}

// extractPath emits the extraction chain for every step of p applied to v.
func extractPath(b *ir.Builder, v ir.Value, p projpath.Path) ir.Value {
	for _, s := range p.Steps() {
		switch s.Kind {
		case projpath.Field:
			v = b.FieldExtract(v, s.Index)
		case projpath.Index:
			v = b.TupleExtract(v, s.Index)
		case projpath.Deref:
			v = b.Load(v)
		}
	}
	return v
}

// NextLevelValues mirrors Location.NextLevelLocations on the value side.
func (v Value) NextLevelValues(te TypeExpansion) []Value {
	steps := te.Children(v.path.MostDerivedType())
	if len(steps) == 0 {
		return nil
	}
	kids := make([]Value, len(steps))
	for i, s := range steps {
		kids[i] = NewValue(v.base, v.path.Append(s))
	}
	return kids
}

// ExpandValue decomposes v into the field values it contains, without
// requiring real storage behind them.
func ExpandValue(v Value, te TypeExpansion) []Value {
	var out []Value
	expandValue(v, te, 0, &out)
	return out
}

func expandValue(v Value, te TypeExpansion, depth int, out *[]Value) {
	if depth < te.MaxDepth() {
		if kids := v.NextLevelValues(te); len(kids) > 0 {
			for _, k := range kids {
				expandValue(k, te, depth+1, out)
			}
			return
		}
	}
	*out = append(*out, v)
}

// LocationValueMap tracks the known value per expanded location.
type LocationValueMap map[Location]Value

// ReduceValues resolves the single value held by loc from the known values
// of its expanded children and synthesizes the materialized result at the
// anchor point. It returns nil while any child is unknown or still
// covering; that is an expected no-information outcome, not an error.
func ReduceValues(loc Location, te TypeExpansion, values LocationValueMap, at *ir.Builder) ir.Value {
	if !reduceInner(loc, te, values, at, 0) {
		return nil
	}
	v := values[loc]
	return v.Materialize(at)
}

// reduceInner resolves loc bottom-up: grandchildren first, then children,
// folding complete groups into parent values. On success values[loc] holds
// a concrete value and the child entries are consumed. Descent is bounded
// by the policy's depth cap, mirroring expansion: a depth-capped node with
// no known value is unresolved, so recursive layouts terminate with the
// no-information outcome.
func reduceInner(loc Location, te TypeExpansion, values LocationValueMap, at *ir.Builder, depth int) bool {
	if v, ok := values[loc]; ok {
		return !v.IsCoveringValue()
	}
	if depth >= te.MaxDepth() {
		return false
	}
	kids := loc.NextLevelLocations(te)
	if len(kids) == 0 {
		return false
	}
	for _, k := range kids {
		if !reduceInner(k, te, values, at, depth+1) {
			return false
		}
	}

	if parent, ok := commonParentValue(kids, values); ok {
		// Every child is the matching first-level projection of one and
		// the same value: the parent value already exists, nothing to
		// synthesize.
		values[loc] = parent
	} else {
		elems := make([]ir.Value, 0, len(kids))
		for _, k := range kids {
			kv := values[k]
			elems = append(elems, kv.Materialize(at))
		}
		agg := at.Aggregate(loc.TypeAt(), elems)
		values[loc] = ValueFor(agg)
	}
	for _, k := range kids {
		delete(values, k)
	}
	return true
}

// commonParentValue detects the lossless case: all child values share one
// base, each claims exactly its own location's last-level projection, and
// stripping that projection leaves the same parent value everywhere.
func commonParentValue(kids []Location, values LocationValueMap) (Value, bool) {
	var want Value
	for i, k := range kids {
		v := values[k]
		if v.IsCoveringValue() || !v.Path().IsSet() || v.Path().Len() == 0 {
			return Value{}, false
		}
		if v.Path().Last() != k.Path().Last() {
			return Value{}, false
		}
		stripped := v
		stripped.StripLastLevelProjection()
		if i == 0 {
			want = stripped
			continue
		}
		if !stripped.Equal(want) {
			return Value{}, false
		}
	}
	return want, true
}
