package ir

import (
	"fmt"
	"go/types"
)

// Value is an SSA value: a parameter, a global, an undef sentinel, or the
// result of an instruction. Values are compared by identity.
type Value interface {
	// ID is a dense, deterministic numbering within the owning function.
	// Free-standing values (globals, undefs) draw from a separate counter.
	ID() int
	Name() string
	Type() types.Type
	String() string

	isValue()
}

type valueBase struct {
	id   int
	name string
	typ  types.Type
}

func (v *valueBase) ID() int          { return v.id }
func (v *valueBase) Name() string     { return v.name }
func (v *valueBase) Type() types.Type { return v.typ }
func (v *valueBase) isValue()         {}

func (v *valueBase) String() string {
	if v.name != "" {
		return "%" + v.name
	}
	return fmt.Sprintf("%%v%d", v.id)
}

// Param is a function parameter.
type Param struct {
	valueBase
	fn *Function
}

// Parent returns the owning function.
func (p *Param) Parent() *Function { return p.fn }

// Global names module-level storage. Its value is the storage address.
type Global struct {
	valueBase
}

// NewGlobal creates a global holding an object of type elem.
// The value's type is the address of elem.
func NewGlobal(name string, elem types.Type) *Global {
	g := &Global{}
	g.id = nextFreeID()
	g.name = name
	g.typ = types.NewPointer(elem)
	return g
}

func (g *Global) String() string { return "@" + g.name }

// Undef is the "undefined" value sentinel of the given type.
type Undef struct {
	valueBase
}

// UndefOf returns a fresh undef of type t.
func UndefOf(t types.Type) *Undef {
	u := &Undef{}
	u.id = nextFreeID()
	u.typ = t
	return u
}

// IsUndef reports whether v is an undef sentinel.
func IsUndef(v Value) bool {
	_, ok := v.(*Undef)
	return ok
}

func (u *Undef) String() string { return "undef" }

// freeIDs numbers values that live outside any function.
var freeIDs int

func nextFreeID() int {
	freeIDs++
	return freeIDs
}

// Pointee returns the object type behind an address-typed value, or nil if
// t is not an address.
func Pointee(t types.Type) types.Type {
	p, ok := t.Underlying().(*types.Pointer)
	if !ok {
		return nil
	}
	return p.Elem()
}

// ObjectType returns the object layout a base value gives access to: the
// pointee for address-typed bases, the type itself for object references.
func ObjectType(v Value) types.Type {
	if elem := Pointee(v.Type()); elem != nil {
		return elem
	}
	return v.Type()
}
