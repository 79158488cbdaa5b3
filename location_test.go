package memloc_test

import (
	"go/types"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/sirkon/memloc"
	"github.com/sirkon/memloc/internal/aa"
	"github.com/sirkon/memloc/ir"
	"github.com/sirkon/memloc/projpath"
	"github.com/sirkon/memloc/typeexp"
)

func TestExpandLocationFlat(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", pairType())
	root := ir.ObjectType(s)

	whole := memloc.NewLocation(s, projpath.Of(root))
	leaves := memloc.ExpandLocation(whole, testExpander())

	want := []memloc.Location{
		memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0))),
		memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(1))),
	}
	deepequal.SideBySide(t, "expanded leaves", want, leaves)

	// Leaves are a partition: pairwise non-aliasing.
	oracle := aa.New()
	for i := range leaves {
		for j := range leaves {
			if i != j && leaves[i].IsMayAlias(leaves[j], oracle) {
				t.Fatalf("leaves %d and %d overlap", i, j)
			}
		}
	}
}

func TestExpandLocationNested(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", nestedType())
	root := ir.ObjectType(s)

	leaves := memloc.ExpandLocation(memloc.LocationFor(s), testExpander())

	want := []memloc.Location{
		memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0), projpath.FieldOf(0))),
		memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0), projpath.FieldOf(1))),
		memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(1))),
	}
	deepequal.SideBySide(t, "nested leaves", want, leaves)
}

func TestExpandLeafIsItsOwnLeaf(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", types.Typ[types.Int])

	loc := memloc.LocationFor(s)
	leaves := memloc.ExpandLocation(loc, testExpander())
	if len(leaves) != 1 || !leaves[0].Equal(loc.Base) {
		t.Fatalf("a leaf location expands to itself, got %v", leaves)
	}
}

func TestExpandRespectsCaps(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", pairType())

	// A policy with a width cap below the struct's field count keeps the
	// whole object a single leaf.
	e := typeexp.NewExpander(typeexp.Limits{MaxFields: 1, MaxDepth: 8, MaxArrayLen: 4, Indirect: typeexp.IndirectOpaque})
	loc := memloc.LocationFor(s)
	leaves := memloc.ExpandLocation(loc, e)
	if len(leaves) != 1 || !leaves[0].Equal(loc.Base) {
		t.Fatalf("capped type must stay a single leaf, got %v", leaves)
	}
	if e.CappedCount() != 1 {
		t.Fatalf("cap must be counted, got %d", e.CappedCount())
	}
}

func TestExpandRecursiveTypeDepthCapped(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", nodeType())

	e := typeexp.NewExpander(typeexp.Limits{MaxFields: 8, MaxDepth: 3, MaxArrayLen: 4, Indirect: typeexp.IndirectExpand})
	leaves := memloc.ExpandLocation(memloc.LocationFor(s), e)

	got := make([]string, len(leaves))
	for i, l := range leaves {
		got[i] = l.Path().String()
	}
	want := []string{"f0.d.f0", "f0.d.f1", "f1"}
	deepequal.SideBySide(t, "recursive leaves", want, got)

	// The depth-capped leaf still carries the recursive pointer type.
	if _, ok := leaves[0].TypeAt().Underlying().(*types.Pointer); !ok {
		t.Fatalf("capped leaf must stay the pointer, got %s", leaves[0].TypeAt())
	}
}

func TestReduceIsInverseOfExpand(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", nestedType())

	e := testExpander()
	whole := memloc.LocationFor(s)
	leaves := memloc.ExpandLocation(whole, e)

	got := memloc.ReduceLocations(whole, e, leaves)
	if len(got) != 1 || !got[0].Equal(whole.Base) {
		t.Fatalf("reduce(expand(L)) must be [L], got %v", got)
	}
}

func TestReducePartialSiblings(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", nestedType())
	root := ir.ObjectType(s)

	e := testExpander()
	whole := memloc.LocationFor(s)

	// Only the inner pair is complete; the outer z field is missing, so
	// the fold stops at the pair.
	in := []memloc.Location{
		memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0), projpath.FieldOf(0))),
		memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0), projpath.FieldOf(1))),
	}
	got := memloc.ReduceLocations(whole, e, in)

	want := []memloc.Location{
		memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0))),
	}
	deepequal.SideBySide(t, "partial reduce", want, got)
}

func TestReduceKeepsForeignLocations(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", pairType())
	other := b.Alloc("other", pairType())

	e := testExpander()
	whole := memloc.LocationFor(s)
	foreign := memloc.NewLocation(other, projpath.Make(ir.ObjectType(other), projpath.FieldOf(0)))

	in := append(memloc.ExpandLocation(whole, e), foreign)
	got := memloc.ReduceLocations(whole, e, in)

	want := []memloc.Location{whole, foreign}
	deepequal.SideBySide(t, "reduce with foreign", want, got)
}

func TestGetBaseAddressOrObject(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", nestedType())
	inner := b.FieldAddr(s, 0)
	leaf := b.FieldAddr(inner, 1)

	base, stopped := memloc.BaseAddressOrObject(leaf, false)
	if base != ir.Value(s) || stopped {
		t.Fatalf("base walk must land on the allocation, got %s", base)
	}

	// Immutable reference projection stops the walk early.
	obj := fn.AddParam("obj", pairType())
	frozen := b.RefFieldAddr(obj, 0, true)
	derived := b.Load(frozen)
	_ = derived

	got, stopped := memloc.BaseAddressOrObject(frozen, true)
	if got != ir.Value(frozen) || !stopped {
		t.Fatal("walk must stop at the immutable projection")
	}

	got, stopped = memloc.BaseAddressOrObject(frozen, false)
	if got != ir.Value(obj) || stopped {
		t.Fatal("without the stop the walk reaches the object")
	}
}

func TestLocationTypeAt(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", nestedType())
	root := ir.ObjectType(s)

	loc := memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0), projpath.FieldOf(1)))
	if loc.TypeAt() != types.Typ[types.Int] {
		t.Fatalf("TypeAt must follow the path, got %s", loc.TypeAt())
	}
}
