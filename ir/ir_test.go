package ir

import (
	"go/token"
	"go/types"
	"testing"
)

func pair() *types.Struct {
	intT := types.Typ[types.Int]
	return types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, nil, "x", intT, false),
		types.NewField(token.NoPos, nil, "y", intT, false),
	}, nil)
}

func TestBuilderTypesAndOrder(t *testing.T) {
	fn := NewFunction("f")
	blk := fn.NewBlock("entry")
	b := NewBuilder(blk)

	s := b.Alloc("s", pair())
	x := b.FieldAddr(s, 0)
	v := b.Load(x)
	b.Store(x, v)

	if got := Pointee(s.Type()); got != pair() && !types.Identical(got, pair()) {
		t.Fatalf("alloc must yield an address of the allocated type, got %s", s.Type())
	}
	if x.Type().String() != "*int" {
		t.Fatalf("field address type: got %s", x.Type())
	}
	if v.Type() != types.Typ[types.Int] {
		t.Fatalf("load type: got %s", v.Type())
	}

	want := []Instruction{s, x, v, blk.Instrs[3]}
	for i, in := range blk.Instrs {
		if in != want[i] {
			t.Fatalf("instruction order broken at %d", i)
		}
	}
}

func TestBuilderBeforeKeepsValues(t *testing.T) {
	fn := NewFunction("f")
	blk := fn.NewBlock("entry")
	b := NewBuilder(blk)

	s := b.Alloc("s", pair())
	x := b.FieldAddr(s, 1)
	ld := b.Load(x)

	ins := NewBuilderBefore(ld)
	ex := ins.FieldExtract(ins.Load(s), 1)

	// The pre-existing instructions keep their identity and order.
	if blk.posOf(Instruction(s)) != 0 || blk.posOf(x) != 1 {
		t.Fatal("insertion must not move earlier instructions")
	}
	if blk.posOf(ld) != 4 {
		t.Fatalf("load must follow the inserted pair, at %d", blk.posOf(ld))
	}
	if ex.Type() != types.Typ[types.Int] {
		t.Fatalf("extract type: got %s", ex.Type())
	}
}

func TestDeterministicIDs(t *testing.T) {
	build := func() []int {
		fn := NewFunction("f")
		p := fn.AddParam("p", types.NewPointer(pair()))
		b := NewBuilder(fn.NewBlock("entry"))
		a := b.FieldAddr(p, 0)
		l := b.Load(a)
		return []int{p.ID(), a.ID(), l.ID()}
	}

	first := build()
	second := build()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("IDs must be stable across identical runs: %v vs %v", first, second)
		}
	}
}

func TestInsertAfterValue(t *testing.T) {
	fn := NewFunction("f")
	p := fn.AddParam("p", types.NewPointer(pair()))
	blk := fn.NewBlock("entry")
	b := NewBuilder(blk)
	a := b.FieldAddr(p, 0)
	b.Load(a)

	after := InsertAfter(a, b)
	cp := after.Load(a)
	if blk.posOf(cp) != 1 {
		t.Fatalf("InsertAfter must land right past the definition, at %d", blk.posOf(cp))
	}

	entry := InsertAfter(p, b)
	ld := entry.Load(p)
	if blk.posOf(ld) != 0 {
		t.Fatalf("parameters are available from entry, insertion at %d", blk.posOf(ld))
	}
}
