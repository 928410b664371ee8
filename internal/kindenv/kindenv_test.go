package kindenv

import (
	"testing"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/types"
)

func TestBuiltinKinds(t *testing.T) {
	env := NewEnv()
	k, ok := env.Lookup("List")
	if !ok {
		t.Fatal("List should have a builtin kind")
	}
	want := types.KArrow{From: types.Star{}, To: types.Star{}}
	if !k.Equals(want) {
		t.Errorf("List kind = %v, want %v", k, want)
	}
	if _, ok := env.Lookup("Int"); !ok {
		t.Fatal("Int should have a builtin kind")
	}
}

func TestInferTypeExprAppMismatch(t *testing.T) {
	env := NewEnv()
	// `Int Bool` applies a saturated nullary constructor to an argument —
	// should be rejected as a kind mismatch.
	te := &ast.TyApp{
		Func: &ast.TyConRef{Name: "Int"},
		Arg:  &ast.TyConRef{Name: "Bool"},
	}
	var errs diag.Errors
	InferTypeExpr(te, env, map[string]types.Kind{}, &errs)
	if !errs.HasErrors() {
		t.Error("expected a kind mismatch error")
	}
}

func TestInferListOfInt(t *testing.T) {
	env := NewEnv()
	te := &ast.TyApp{
		Func: &ast.TyConRef{Name: "List"},
		Arg:  &ast.TyConRef{Name: "Int"},
	}
	var errs diag.Errors
	k := InferTypeExpr(te, env, map[string]types.Kind{}, &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	if !k.Equals(types.Star{}) {
		t.Errorf("kind of `List Int` = %v, want *", k)
	}
}
