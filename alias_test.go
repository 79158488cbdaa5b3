package memloc_test

import (
	"go/types"
	"testing"

	"github.com/sirkon/memloc"
	"github.com/sirkon/memloc/internal/aa"
	"github.com/sirkon/memloc/ir"
	"github.com/sirkon/memloc/projpath"
)

func TestAliasQueries(t *testing.T) {
	fn := ir.NewFunction("f")
	b := ir.NewBuilder(fn.NewBlock("entry"))
	s := b.Alloc("s", pairType())
	other := b.Alloc("other", pairType())
	root := ir.ObjectType(s)

	whole := memloc.NewLocation(s, projpath.Of(root))
	fx := memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0)))
	fx2 := memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(0)))
	fy := memloc.NewLocation(s, projpath.Make(root, projpath.FieldOf(1)))
	elsewhere := memloc.NewLocation(other, projpath.Make(ir.ObjectType(other), projpath.FieldOf(0)))

	oracle := aa.New()

	tests := []struct {
		name     string
		a, b     memloc.Location
		may, mst bool
	}{
		{"same field", fx, fx2, true, true},
		{"disjoint fields", fx, fy, false, false},
		{"whole vs field", whole, fx, true, false},
		{"distinct allocations", fx, elsewhere, false, false},
		{"whole vs itself", whole, whole, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsMayAlias(tt.b, oracle); got != tt.may {
				t.Fatalf("IsMayAlias = %v, want %v", got, tt.may)
			}
			if got := tt.a.IsMustAlias(tt.b, oracle); got != tt.mst {
				t.Fatalf("IsMustAlias = %v, want %v", got, tt.mst)
			}
			// Soundness: must-alias implies may-alias.
			if tt.a.IsMustAlias(tt.b, oracle) && !tt.a.IsMayAlias(tt.b, oracle) {
				t.Fatal("IsMustAlias must imply IsMayAlias")
			}
		})
	}
}

func TestAliasUnknownBasesStayConservative(t *testing.T) {
	fn := ir.NewFunction("f")
	p := fn.AddParam("p", types.NewPointer(pairType()))
	q := fn.AddParam("q", p.Type())
	root := ir.ObjectType(p)

	a := memloc.NewLocation(p, projpath.Make(root, projpath.FieldOf(0)))
	b := memloc.NewLocation(q, projpath.Make(ir.ObjectType(q), projpath.FieldOf(0)))

	oracle := aa.New()
	if !a.IsMayAlias(b, oracle) {
		t.Fatal("two address parameters may alias")
	}
	if a.IsMustAlias(b, oracle) {
		t.Fatal("distinct parameters are not proven identical")
	}
}
