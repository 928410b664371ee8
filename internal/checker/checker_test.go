package checker

import (
	"testing"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/kindenv"
	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/traitenv"
	"github.com/sunholo/corelang/internal/tyenv"
	"github.com/sunholo/corelang/internal/types"
)

func newTestChecker() *Checker {
	tyEnv := tyenv.NewBuiltins()
	traitEnv := traitenv.NewEnv()
	kindEnv := kindenv.NewEnv()
	return New(&tyEnv, traitEnv, kindEnv, map[string]GlobalSignature{})
}

func TestCheckGlobalIdentityFunction(t *testing.T) {
	c := newTestChecker()
	// identity : forall a. a -> a = \x -> x
	scheme := types.NewScheme([]string{"a"}, nil, nil,
		types.Arrow(&types.Var{Name: "a", K: types.Star{}}, &types.Var{Name: "a", K: types.Star{}}))
	body := &ast.Lambda{Params: []string{"x"}, Body: &ast.Var{Name: "x"}}

	_, errs := c.CheckGlobal(names.Local("identity"), scheme, body)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
}

func TestCheckGlobalIfBranchMismatchIsAnError(t *testing.T) {
	c := newTestChecker()
	scheme := types.Monomorphic(&types.Con{Name: "Int", K: types.Star{}})
	body := &ast.If{
		Cond: &ast.Lit{Kind: ast.LitBool, Value: true},
		Then: &ast.Lit{Kind: ast.LitInt, Value: 1},
		Else: &ast.Lit{Kind: ast.LitString, Value: "nope"},
	}
	_, errs := c.CheckGlobal(names.Local("bad"), scheme, body)
	if !errs.HasErrors() {
		t.Fatal("expected a unification error from mismatched if-branches")
	}
}

func TestCheckGlobalAppliesArgumentTypes(t *testing.T) {
	c := newTestChecker()
	c.Globals["add_Int"] = GlobalSignature{
		Scheme: types.Monomorphic(types.Arrow(
			&types.Con{Name: "Int", K: types.Star{}},
			types.Arrow(&types.Con{Name: "Int", K: types.Star{}}, &types.Con{Name: "Int", K: types.Star{}}))),
	}
	scheme := types.Monomorphic(&types.Con{Name: "Int", K: types.Star{}})
	body := &ast.App{
		Func: &ast.Var{Name: "add_Int"},
		Args: []ast.Expr{&ast.Lit{Kind: ast.LitInt, Value: 1}, &ast.Lit{Kind: ast.LitInt, Value: 2}},
	}
	_, errs := c.CheckGlobal(names.Local("two"), scheme, body)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
}
