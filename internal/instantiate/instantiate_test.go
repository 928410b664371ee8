package instantiate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

func intTy() types.TypeNode  { return &types.Con{Name: "Int", K: types.Star{}} }
func boolTy() types.TypeNode { return &types.Con{Name: "Bool", K: types.Star{}} }

// identity : forall a. a -> a = \x -> x
func identityGlobal() *GlobalValue {
	a := &types.Var{Name: "a", K: types.Star{}}
	fnTy := types.Arrow(a, a)
	body := typedast.Lambda{
		Node:       typedast.Node{Type: fnTy},
		Params:     []string{"x"},
		ParamTypes: []types.TypeNode{a},
		Body:       typedast.Var{Node: typedast.Node{Type: a}, Name: "x"},
	}
	return &GlobalValue{
		Scheme: types.NewScheme([]string{"a"}, nil, nil, fnTy),
		Simple: body,
	}
}

func TestInstantiatedNameIsDeterministic(t *testing.T) {
	generic := names.Local("identity")
	n1 := InstantiatedName(generic, intTy())
	n2 := InstantiatedName(generic, intTy())
	if n1.String() != n2.String() {
		t.Fatalf("expected deterministic instantiated name, got %q and %q", n1, n2)
	}
	n3 := InstantiatedName(generic, boolTy())
	if n1.String() == n3.String() {
		t.Fatalf("expected distinct names for distinct types, both got %q", n1)
	}
}

func TestRunSpecializesSimpleGlobalFromEntryPoint(t *testing.T) {
	globals := map[string]*GlobalValue{
		"main": {
			Scheme: types.Monomorphic(intTy()),
			Simple: typedast.Lit{Node: typedast.Node{Type: intTy()}, Value: 1},
		},
	}
	ins := New(globals)
	syms, errs := ins.Run([]names.FullName{names.Local("main")})
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	if len(syms) != 1 {
		t.Fatalf("expected exactly one symbol, got %d", len(syms))
	}
	for _, s := range syms {
		if s.Generic.Local != "main" {
			t.Errorf("got generic %q, want main", s.Generic)
		}
	}
}

func TestRunDiscoversAndSpecializesTransitiveReferences(t *testing.T) {
	globals := map[string]*GlobalValue{
		"identity": identityGlobal(),
		"main": {
			Scheme: types.Monomorphic(intTy()),
			Simple: typedast.App{
				Node: typedast.Node{Type: intTy()},
				Func: typedast.Var{Node: typedast.Node{Type: types.Arrow(intTy(), intTy())}, Name: "identity"},
				Args: []typedast.Expr{typedast.Lit{Node: typedast.Node{Type: intTy()}, Value: 1}},
			},
		},
	}
	ins := New(globals)
	syms, errs := ins.Run([]names.FullName{names.Local("main")})
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	if len(syms) != 2 {
		t.Fatalf("expected main plus one instantiated identity, got %d: %v", len(syms), syms)
	}
	wantFnTy := types.Arrow(intTy(), intTy())
	wantExpr := typedast.Lambda{
		Node:       typedast.Node{Type: wantFnTy},
		Params:     []string{"x"},
		ParamTypes: []types.TypeNode{intTy()},
		Body:       typedast.Var{Node: typedast.Node{Type: intTy()}, Name: "x"},
	}

	var foundIdentity bool
	for _, s := range syms {
		if s.Generic.Local == "identity" {
			foundIdentity = true
			if diff := cmp.Diff(wantFnTy.String(), s.Type.String()); diff != "" {
				t.Errorf("specialized type mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(wantExpr, s.Expr); diff != "" {
				t.Errorf("specialized identity body mismatch (-want +got):\n%s", diff)
			}
		}
	}
	if !foundIdentity {
		t.Fatalf("expected identity to be discovered and instantiated, got %v", syms)
	}
}

func TestRunSelectsMatchingMethodImpl(t *testing.T) {
	intShow := MethodImpl{
		Scheme: types.Monomorphic(types.Arrow(intTy(), &types.Con{Name: "String", K: types.Star{}})),
		Expr: typedast.Lambda{
			Node:       typedast.Node{Type: types.Arrow(intTy(), &types.Con{Name: "String", K: types.Star{}})},
			Params:     []string{"x"},
			ParamTypes: []types.TypeNode{intTy()},
			Body:       typedast.Var{Node: typedast.Node{Type: &types.Con{Name: "String", K: types.Star{}}}, Name: "x"},
		},
		DefineModule: "main",
	}
	globals := map[string]*GlobalValue{
		"show": {Methods: []MethodImpl{intShow}},
		"main": {
			Scheme: types.Monomorphic(&types.Con{Name: "String", K: types.Star{}}),
			Simple: typedast.App{
				Node: typedast.Node{Type: &types.Con{Name: "String", K: types.Star{}}},
				Func: typedast.Var{
					Node: typedast.Node{Type: types.Arrow(intTy(), &types.Con{Name: "String", K: types.Star{}})},
					Name: "show",
				},
				Args: []typedast.Expr{typedast.Lit{Node: typedast.Node{Type: intTy()}, Value: 1}},
			},
		},
	}
	ins := New(globals)
	syms, errs := ins.Run([]names.FullName{names.Local("main")})
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	if len(syms) != 2 {
		t.Fatalf("expected main plus one instantiated show, got %d: %v", len(syms), syms)
	}
}

func TestRunReportsUnknownEntryPoint(t *testing.T) {
	ins := New(map[string]*GlobalValue{})
	_, errs := ins.Run([]names.FullName{names.Local("nope")})
	if !errs.HasErrors() {
		t.Fatal("expected an error for an unknown entry point")
	}
}
