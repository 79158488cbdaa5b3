package ir

import (
	"fmt"
	"go/types"
)

// Builder inserts instructions at a program point: right before a fixed
// anchor instruction, or at the end of the block when the anchor is nil.
// Anchoring on an instruction instead of an index keeps the point valid
// when other builders insert earlier in the same block; insertion only
// ever appends at the point and never invalidates existing values.
type Builder struct {
	blk    *Block
	before Instruction
}

// NewBuilder returns a builder appending at the end of blk.
func NewBuilder(blk *Block) *Builder {
	return &Builder{blk: blk}
}

// NewBuilderBefore returns a builder inserting right before in.
func NewBuilderBefore(in Instruction) *Builder {
	blk := in.Parent()
	if blk.posOf(in) < 0 {
		panic("ir: instruction is not in its parent block")
	}
	return &Builder{blk: blk, before: in}
}

// InsertAfter returns a builder positioned right after the definition of v.
// Values without a defining instruction (parameters, globals, undefs) are
// available from function entry, so the builder points at the start of the
// entry block of at's function.
func InsertAfter(v Value, at *Builder) *Builder {
	if in, ok := v.(Instruction); ok {
		blk := in.Parent()
		pos := blk.posOf(in)
		if pos < 0 {
			panic("ir: defining instruction is not in its parent block")
		}
		if pos+1 < len(blk.Instrs) {
			return &Builder{blk: blk, before: blk.Instrs[pos+1]}
		}
		return &Builder{blk: blk}
	}
	entry := at.Function().Entry()
	if entry == nil {
		panic("ir: InsertAfter in a bodyless function")
	}
	if len(entry.Instrs) > 0 {
		return &Builder{blk: entry, before: entry.Instrs[0]}
	}
	return &Builder{blk: entry}
}

// Function returns the function the builder inserts into.
func (b *Builder) Function() *Function { return b.blk.fn }

// Block returns the block the builder inserts into.
func (b *Builder) Block() *Block { return b.blk }

func (b *Builder) emit(in Instruction) {
	pos := len(b.blk.Instrs)
	if b.before != nil {
		pos = b.blk.posOf(b.before)
		if pos < 0 {
			panic("ir: anchor instruction left its block")
		}
	}
	b.blk.insertAt(pos, in)
}

func (b *Builder) newID() int { return b.blk.fn.newID() }

// Alloc emits storage allocation for an object of type elem and returns its
// address.
func (b *Builder) Alloc(name string, elem types.Type) *Alloc {
	a := &Alloc{Allocated: elem}
	a.id = b.newID()
	a.name = name
	a.typ = types.NewPointer(elem)
	b.emit(a)
	return a
}

// FieldAddr emits a struct field address projection.
func (b *Builder) FieldAddr(x Value, field int) *FieldAddr {
	st := structOf(Pointee(x.Type()))
	if st == nil {
		panic(fmt.Sprintf("ir: field_addr of non-struct address %s", x.Type()))
	}
	i := &FieldAddr{X: x, Field: field}
	i.id = b.newID()
	i.typ = types.NewPointer(st.Field(field).Type())
	b.emit(i)
	return i
}

// IndexAddr emits a tuple/array element address projection.
func (b *Builder) IndexAddr(x Value, index int) *IndexAddr {
	var elem types.Type
	switch u := Pointee(x.Type()).Underlying().(type) {
	case *types.Tuple:
		elem = u.At(index).Type()
	case *types.Array:
		elem = u.Elem()
	default:
		panic(fmt.Sprintf("ir: index_addr of %s", x.Type()))
	}
	i := &IndexAddr{X: x, Index: index}
	i.id = b.newID()
	i.typ = types.NewPointer(elem)
	b.emit(i)
	return i
}

// RefFieldAddr emits a field storage projection out of a reference object.
func (b *Builder) RefFieldAddr(ref Value, field int, immutable bool) *RefFieldAddr {
	st := structOf(ObjectType(ref))
	if st == nil {
		panic(fmt.Sprintf("ir: ref_field_addr of %s", ref.Type()))
	}
	i := &RefFieldAddr{Ref: ref, Field: field, Immutable: immutable}
	i.id = b.newID()
	i.typ = types.NewPointer(st.Field(field).Type())
	b.emit(i)
	return i
}

// Load emits a load from addr.
func (b *Builder) Load(addr Value) *Load {
	elem := Pointee(addr.Type())
	if elem == nil {
		panic(fmt.Sprintf("ir: load from non-address %s", addr.Type()))
	}
	i := &Load{X: addr}
	i.id = b.newID()
	i.typ = elem
	b.emit(i)
	return i
}

// Store emits a store of val to addr.
func (b *Builder) Store(addr, val Value) *Store {
	if Pointee(addr.Type()) == nil {
		panic(fmt.Sprintf("ir: store to non-address %s", addr.Type()))
	}
	i := &Store{Addr: addr, Val: val}
	b.emit(i)
	return i
}

// FieldExtract emits extraction of a struct field from a struct value.
func (b *Builder) FieldExtract(x Value, field int) *FieldExtract {
	st := structOf(x.Type())
	if st == nil {
		panic(fmt.Sprintf("ir: field_extract of %s", x.Type()))
	}
	i := &FieldExtract{X: x, Field: field}
	i.id = b.newID()
	i.typ = st.Field(field).Type()
	b.emit(i)
	return i
}

// TupleExtract emits extraction of a tuple element.
func (b *Builder) TupleExtract(x Value, index int) *TupleExtract {
	tup, ok := x.Type().Underlying().(*types.Tuple)
	if !ok {
		panic(fmt.Sprintf("ir: tuple_extract of %s", x.Type()))
	}
	i := &TupleExtract{X: x, Index: index}
	i.id = b.newID()
	i.typ = tup.At(index).Type()
	b.emit(i)
	return i
}

// Aggregate emits assembly of a value of type t from elems.
func (b *Builder) Aggregate(t types.Type, elems []Value) *Aggregate {
	i := &Aggregate{Elems: elems}
	i.id = b.newID()
	i.typ = t
	b.emit(i)
	return i
}

// BeginBorrow opens a guaranteed scope over x.
func (b *Builder) BeginBorrow(x Value) *BeginBorrow {
	i := &BeginBorrow{X: x}
	i.id = b.newID()
	i.typ = x.Type()
	b.emit(i)
	return i
}

// EndBorrow closes the scope opened by BeginBorrow.
func (b *Builder) EndBorrow(x Value) *EndBorrow {
	i := &EndBorrow{X: x}
	b.emit(i)
	return i
}

// Copy yields an independently owned copy of x.
func (b *Builder) Copy(x Value) *Copy {
	i := &Copy{X: x}
	i.id = b.newID()
	i.typ = x.Type()
	b.emit(i)
	return i
}

// Destroy ends the lifetime of x.
func (b *Builder) Destroy(x Value) *Destroy {
	i := &Destroy{X: x}
	b.emit(i)
	return i
}

func structOf(t types.Type) *types.Struct {
	if t == nil {
		return nil
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	return st
}
