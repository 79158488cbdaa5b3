package ir

import (
	"fmt"
	"go/types"
)

// Instruction is a node in a block's instruction list.
type Instruction interface {
	Parent() *Block
	Operands() []Value
	String() string

	isInstr()
	setBlock(b *Block)
}

type instrBase struct {
	blk *Block
}

func (i *instrBase) Parent() *Block    { return i.blk }
func (i *instrBase) isInstr()          {}
func (i *instrBase) setBlock(b *Block) { i.blk = b }

// Alloc yields the address of a fresh object of type Allocated.
type Alloc struct {
	valueBase
	instrBase
	Allocated types.Type
}

func (a *Alloc) Operands() []Value { return nil }

func (a *Alloc) String() string {
	return fmt.Sprintf("%s = alloc %s", a.valueBase.String(), a.Allocated)
}

// FieldAddr projects the address of a struct field out of a struct address.
type FieldAddr struct {
	valueBase
	instrBase
	X     Value
	Field int
}

func (i *FieldAddr) Operands() []Value { return []Value{i.X} }

func (i *FieldAddr) String() string {
	return fmt.Sprintf("%s = field_addr %s, %d", i.valueBase.String(), i.X, i.Field)
}

// IndexAddr projects the address of a tuple or array element.
type IndexAddr struct {
	valueBase
	instrBase
	X     Value
	Index int
}

func (i *IndexAddr) Operands() []Value { return []Value{i.X} }

func (i *IndexAddr) String() string {
	return fmt.Sprintf("%s = index_addr %s, %d", i.valueBase.String(), i.X, i.Index)
}

// RefFieldAddr projects field storage out of a reference object.
// An Immutable projection marks storage that cannot be written after the
// referenced object escaped its initializer.
type RefFieldAddr struct {
	valueBase
	instrBase
	Ref       Value
	Field     int
	Immutable bool
}

func (i *RefFieldAddr) Operands() []Value { return []Value{i.Ref} }

func (i *RefFieldAddr) String() string {
	s := fmt.Sprintf("%s = ref_field_addr %s, %d", i.valueBase.String(), i.Ref, i.Field)
	if i.Immutable {
		s += " immutable"
	}
	return s
}

// Load reads the object at address X.
type Load struct {
	valueBase
	instrBase
	X Value
}

func (i *Load) Operands() []Value { return []Value{i.X} }

func (i *Load) String() string {
	return fmt.Sprintf("%s = load %s", i.valueBase.String(), i.X)
}

// Store writes Val to the object at address Addr. It produces no value.
type Store struct {
	instrBase
	Addr Value
	Val  Value
}

func (i *Store) Operands() []Value { return []Value{i.Addr, i.Val} }

func (i *Store) String() string {
	return fmt.Sprintf("store %s, %s", i.Addr, i.Val)
}

// FieldExtract takes a struct field out of a struct value.
type FieldExtract struct {
	valueBase
	instrBase
	X     Value
	Field int
}

func (i *FieldExtract) Operands() []Value { return []Value{i.X} }

func (i *FieldExtract) String() string {
	return fmt.Sprintf("%s = field_extract %s, %d", i.valueBase.String(), i.X, i.Field)
}

// TupleExtract takes an element out of a tuple value.
type TupleExtract struct {
	valueBase
	instrBase
	X     Value
	Index int
}

func (i *TupleExtract) Operands() []Value { return []Value{i.X} }

func (i *TupleExtract) String() string {
	return fmt.Sprintf("%s = tuple_extract %s, %d", i.valueBase.String(), i.X, i.Index)
}

// Aggregate assembles a value of an aggregate type from element values.
type Aggregate struct {
	valueBase
	instrBase
	Elems []Value
}

func (i *Aggregate) Operands() []Value { return i.Elems }

func (i *Aggregate) String() string {
	s := fmt.Sprintf("%s = aggregate %s", i.valueBase.String(), i.typ)
	for _, e := range i.Elems {
		s += ", " + e.String()
	}
	return s
}

// BeginBorrow opens a guaranteed scope over X.
type BeginBorrow struct {
	valueBase
	instrBase
	X Value
}

func (i *BeginBorrow) Operands() []Value { return []Value{i.X} }

func (i *BeginBorrow) String() string {
	return fmt.Sprintf("%s = begin_borrow %s", i.valueBase.String(), i.X)
}

// EndBorrow closes the borrow scope opened for X.
type EndBorrow struct {
	instrBase
	X Value
}

func (i *EndBorrow) Operands() []Value { return []Value{i.X} }

func (i *EndBorrow) String() string {
	return fmt.Sprintf("end_borrow %s", i.X)
}

// Copy yields an independently owned copy of X.
type Copy struct {
	valueBase
	instrBase
	X Value
}

func (i *Copy) Operands() []Value { return []Value{i.X} }

func (i *Copy) String() string {
	return fmt.Sprintf("%s = copy %s", i.valueBase.String(), i.X)
}

// Destroy ends the lifetime of the owned value X.
type Destroy struct {
	instrBase
	X Value
}

func (i *Destroy) Operands() []Value { return []Value{i.X} }

func (i *Destroy) String() string {
	return fmt.Sprintf("destroy %s", i.X)
}
