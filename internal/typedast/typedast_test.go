package typedast

import (
	"testing"

	"github.com/sunholo/corelang/internal/types"
)

func TestExprNodesImplementExpr(t *testing.T) {
	intTy := &types.Con{Name: "Int", K: types.Star{}}
	nodes := []Expr{
		Var{Name: "x", Node: Node{Type: intTy}},
		Lit{Value: 1, Node: Node{Type: intTy}},
		App{Func: Var{Name: "f"}, Args: nil, Node: Node{Type: intTy}},
		Lambda{Params: []string{"x"}, Body: Var{Name: "x"}, Node: Node{Type: intTy}},
		Let{Name: "x", Bound: Lit{Value: 1}, Body: Var{Name: "x"}, Node: Node{Type: intTy}},
		If{Cond: Lit{Value: true}, Then: Lit{Value: 1}, Else: Lit{Value: 2}, Node: Node{Type: intTy}},
		Match{Scrutinee: Var{Name: "x"}, Node: Node{Type: intTy}},
		MakeStruct{TyCon: "Point", Node: Node{Type: intTy}},
		TyAnno{Expr: Var{Name: "x"}, Node: Node{Type: intTy}},
		SeqIO{Side: Var{Name: "s"}, Main: Var{Name: "m"}, Node: Node{Type: intTy}},
	}
	for _, n := range nodes {
		if n.String() == "" {
			t.Errorf("expected non-empty String() for %T", n)
		}
	}
}

func TestPatternNodesImplementPattern(t *testing.T) {
	intTy := &types.Con{Name: "Int", K: types.Star{}}
	pats := []Pattern{
		VarPattern{Name: "x", Type: intTy},
		StructPattern{TyCon: "Point", Fields: []FieldPattern{{Name: "x", Pattern: VarPattern{Name: "x"}}}},
		UnionPattern{Variant: "Some", Sub: VarPattern{Name: "x"}},
	}
	for _, p := range pats {
		if p.String() == "" {
			t.Errorf("expected non-empty String() for %T", p)
		}
	}
}
