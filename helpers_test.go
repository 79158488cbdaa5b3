package memloc_test

import (
	"fmt"
	"go/token"
	"go/types"

	"github.com/sirkon/memloc/typeexp"
)

func fieldsOf(fields ...types.Type) []*types.Var {
	vars := make([]*types.Var, len(fields))
	for i, ft := range fields {
		vars[i] = types.NewField(token.NoPos, nil, fmt.Sprintf("f%d", i), ft, false)
	}
	return vars
}

// pairType is struct{x, y int}, the canonical two-field aggregate of the
// scenarios.
func pairType() *types.Struct {
	intT := types.Typ[types.Int]
	return types.NewStruct(fieldsOf(intT, intT), nil)
}

// nestedType is struct{p struct{x, y int}; z int}.
func nestedType() *types.Struct {
	return types.NewStruct(fieldsOf(pairType(), types.Typ[types.Int]), nil)
}

// doublePtr is **int.
func doublePtr() *types.Pointer {
	return types.NewPointer(types.NewPointer(types.Typ[types.Int]))
}

// nodeType is a self-referential list node: type node struct{ next *node; v int }.
func nodeType() types.Type {
	obj := types.NewTypeName(token.NoPos, nil, "node", nil)
	named := types.NewNamed(obj, nil, nil)
	st := types.NewStruct([]*types.Var{
		types.NewField(token.NoPos, nil, "next", types.NewPointer(named), false),
		types.NewField(token.NoPos, nil, "v", types.Typ[types.Int], false),
	}, nil)
	named.SetUnderlying(st)
	return named
}

func testExpander() *typeexp.Expander {
	return typeexp.NewExpander(typeexp.DefaultLimits())
}
