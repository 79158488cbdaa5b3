package memloc_test

import (
	"go/types"
	"testing"

	"github.com/sirkon/memloc"
	"github.com/sirkon/memloc/ir"
	"github.com/sirkon/memloc/projpath"
)

func TestValueTableBasics(t *testing.T) {
	fn := ir.NewFunction("f")
	x := fn.AddParam("x", types.Typ[types.Int])
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", pairType())

	tbl := memloc.NewValueTable()
	loc := memloc.LocationFor(s)
	if _, ok := tbl.Get(loc); ok {
		t.Fatal("empty table must not know any location")
	}

	tbl.Set(loc, memloc.ValueFor(x))
	if tbl.Len() != 1 {
		t.Fatalf("1 tracked location expected, got %d", tbl.Len())
	}
	got, ok := tbl.Get(loc)
	if !ok || !got.Equal(memloc.ValueFor(x)) {
		t.Fatalf("tracked value lost: %v, %v", got, ok)
	}

	tbl.Forget(loc)
	if _, ok := tbl.Get(loc); ok {
		t.Fatal("forgotten location is still tracked")
	}
}

func TestValueTableClone(t *testing.T) {
	fn := ir.NewFunction("f")
	x := fn.AddParam("x", types.Typ[types.Int])
	y := fn.AddParam("y", types.Typ[types.Int])
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", pairType())
	loc := memloc.LocationFor(s)

	tbl := memloc.NewValueTable()
	tbl.Set(loc, memloc.ValueFor(x))

	cp := tbl.Clone()
	cp.Set(loc, memloc.ValueFor(y))

	got, _ := tbl.Get(loc)
	if !got.Equal(memloc.ValueFor(x)) {
		t.Fatal("writing through a clone leaked into the original")
	}
}

func TestValueTableMergeFrom(t *testing.T) {
	fn := ir.NewFunction("f")
	x := fn.AddParam("x", types.Typ[types.Int])
	y := fn.AddParam("y", types.Typ[types.Int])
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", pairType())
	root := ir.ObjectType(s)

	agree := memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0)))
	differ := memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(1)))
	onlyHere := memloc.LocationFor(b.Alloc("t", pairType()))

	left := memloc.NewValueTable()
	left.Set(agree, memloc.ValueFor(x))
	left.Set(differ, memloc.ValueFor(x))
	left.Set(onlyHere, memloc.ValueFor(x))

	right := memloc.NewValueTable()
	right.Set(agree, memloc.ValueFor(x))
	right.Set(differ, memloc.ValueFor(y))

	left.MergeFrom(right)

	if got, ok := left.Get(agree); !ok || !got.Equal(memloc.ValueFor(x)) {
		t.Fatal("agreeing location must survive the merge intact")
	}
	if got, ok := left.Get(differ); !ok || !got.IsCoveringValue() {
		t.Fatal("disagreeing location must degrade to a covering value")
	}
	if _, ok := left.Get(onlyHere); ok {
		t.Fatal("location unknown to one predecessor must be dropped")
	}
}

func TestValueTableCoveringResolution(t *testing.T) {
	// The full covering lifecycle: a join degrades a field to covering, a
	// later store resolves it, and reduce recovers a whole-object value.
	fn := ir.NewFunction("f")
	x := fn.AddParam("x", types.Typ[types.Int])
	y := fn.AddParam("y", types.Typ[types.Int])
	z := fn.AddParam("z", types.Typ[types.Int])
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", pairType())
	root := ir.ObjectType(s)

	f0 := memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0)))
	f1 := memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(1)))

	tbl := memloc.NewValueTable()
	tbl.Set(f0, memloc.ValueFor(x))
	tbl.Set(f1, memloc.ValueFor(y))
	other := tbl.Clone()
	other.Set(f1, memloc.ValueFor(z))
	tbl.MergeFrom(other)

	e := testExpander()
	whole := memloc.LocationFor(s)
	if got := memloc.ReduceValues(whole, e, tbl.Clone().Values(), b); got != nil {
		t.Fatalf("reduce over a covering child must fail, got %v", got)
	}

	// The second field resolves, reduce succeeds.
	tbl.Set(f1, memloc.ValueFor(y))
	got := memloc.ReduceValues(whole, e, tbl.Values(), b)
	agg, ok := got.(*ir.Aggregate)
	if !ok {
		t.Fatalf("aggregate expected, got %T", got)
	}
	if agg.Elems[0] != ir.Value(x) || agg.Elems[1] != ir.Value(y) {
		t.Fatalf("wrong aggregate elements: %v", agg.Elems)
	}
}
