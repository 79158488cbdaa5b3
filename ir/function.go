package ir

import (
	"fmt"
	"go/types"
	"strings"
)

// Function is an ordered list of blocks. Blocks and their instructions are
// always iterated in creation order, which keeps every derived numbering
// (value IDs, enumeration indices) stable across runs.
type Function struct {
	Name string
	// Ownership marks explicit-ownership form: materialized extractions
	// must be wrapped into borrow scopes and copied out.
	Ownership bool
	Params    []*Param
	Blocks    []*Block

	nextID int
}

// NewFunction creates an empty function.
func NewFunction(name string) *Function {
	return &Function{Name: name}
}

// AddParam appends a parameter. Address-typed parameters are allowed.
func (f *Function) AddParam(name string, t types.Type) *Param {
	p := &Param{fn: f}
	p.id = f.newID()
	p.name = name
	p.typ = t
	f.Params = append(f.Params, p)
	return p
}

// NewBlock appends an empty block.
func (f *Function) NewBlock(name string) *Block {
	b := &Block{fn: f, Name: name, Index: len(f.Blocks)}
	f.Blocks = append(f.Blocks, b)
	return b
}

// Entry returns the first block, or nil for a bodyless function.
func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

func (f *Function) newID() int {
	f.nextID++
	return f.nextID
}

func (f *Function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func @%s", f.Name)
	if f.Ownership {
		sb.WriteString(" owned")
	}
	sb.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", p, p.Type())
	}
	sb.WriteString(") {\n")
	for _, b := range f.Blocks {
		fmt.Fprintf(&sb, "%s:\n", b.Name)
		for _, in := range b.Instrs {
			fmt.Fprintf(&sb, "  %s\n", in)
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Block is an ordered instruction list.
type Block struct {
	fn     *Function
	Name   string
	Index  int
	Instrs []Instruction
}

// Parent returns the owning function.
func (b *Block) Parent() *Function { return b.fn }

func (b *Block) insertAt(pos int, in Instruction) {
	if pos < 0 || pos > len(b.Instrs) {
		panic(fmt.Sprintf("ir: insert position %d out of range", pos))
	}
	b.Instrs = append(b.Instrs, nil)
	copy(b.Instrs[pos+1:], b.Instrs[pos:])
	b.Instrs[pos] = in
	in.setBlock(b)
}

// posOf locates an instruction inside the block.
func (b *Block) posOf(in Instruction) int {
	for i, x := range b.Instrs {
		if x == in {
			return i
		}
	}
	return -1
}
