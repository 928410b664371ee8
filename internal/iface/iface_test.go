package iface

import (
	"testing"

	"github.com/sunholo/corelang/internal/types"
)

func intTy() types.TypeNode  { return &types.Con{Name: "Int", K: types.Star{}} }
func boolTy() types.TypeNode { return &types.Con{Name: "Bool", K: types.Star{}} }

func ioTy(inner types.TypeNode) types.TypeNode {
	return &types.App{Func: &types.Con{Name: "IO", K: types.KArrow{From: types.Star{}, To: types.Star{}}}, Arg: inner}
}

func TestValidateFlattensPureArrow(t *testing.T) {
	scheme := types.Monomorphic(types.Arrow(intTy(), types.Arrow(boolTy(), intTy())))
	fn, err := Validate("combine", scheme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.IsIO {
		t.Fatalf("expected pure function, got IsIO=true")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Result.String() != "Int" {
		t.Fatalf("expected result Int, got %s", fn.Result)
	}
}

func TestValidateClassifiesIOAction(t *testing.T) {
	scheme := types.Monomorphic(ioTy(intTy()))
	fn, err := Validate("readLine", scheme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fn.IsIO {
		t.Fatalf("expected IO action, got IsIO=false")
	}
	if len(fn.Params) != 0 {
		t.Fatalf("expected no params for an IO action, got %d", len(fn.Params))
	}
	if fn.Result.String() != "Int" {
		t.Fatalf("expected result Int, got %s", fn.Result)
	}
}

func TestValidateRejectsUnresolvedPredicate(t *testing.T) {
	scheme := types.Scheme{
		Vars:  []string{"a"},
		Preds: []types.Pred{{Trait: "Show", Type: &types.Var{Name: "a", K: types.Star{}}}},
		Body:  &types.Var{Name: "a", K: types.Star{}},
	}
	if _, err := Validate("show", scheme); err == nil {
		t.Fatalf("expected error for unresolved predicate")
	}
}

func TestValidateNonFunctionValueHasNoParams(t *testing.T) {
	scheme := types.Monomorphic(intTy())
	fn, err := Validate("answer", scheme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.IsIO || len(fn.Params) != 0 {
		t.Fatalf("expected a plain zero-arg value, got %+v", fn)
	}
	if fn.Result.String() != "Int" {
		t.Fatalf("expected result Int, got %s", fn.Result)
	}
}
