package traitenv

import (
	"testing"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/types"
)

func intCon() types.TypeNode  { return &types.Con{Name: "Int", K: types.Star{}} }
func boolCon() types.TypeNode { return &types.Con{Name: "Bool", K: types.Star{}} }

func tv(n string) types.TypeNode { return &types.Var{Name: n, K: types.Star{}} }

func newShowTrait() *Env {
	env := NewEnv()
	env.DeclareTrait("Show", TraitInfo{
		Param: "a",
		Methods: map[string]types.Scheme{
			"show": types.NewScheme([]string{"a"}, nil, nil, types.Arrow(tv("a"), &types.Con{Name: "String", K: types.Star{}})),
		},
		AssocTypes: map[string]AssocTyDecl{},
		Module:     "Prelude",
	})
	return env
}

func TestAddInstanceAcceptsValidInstance(t *testing.T) {
	env := newShowTrait()
	var errs diag.Errors
	env.AddInstance(&Instance{
		Trait:        "Show",
		Head:         intCon(),
		Methods:      map[string]ast.Expr{"show": &ast.Lambda{}},
		AssocImpls:   map[string]AssocTypeImpl{},
		DefineModule: "Prelude",
	}, "Prelude", map[string]string{"Int": "Prelude"}, &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	if len(env.Instances["Show"]) != 1 {
		t.Fatalf("expected 1 registered instance, got %d", len(env.Instances["Show"]))
	}
}

func TestAddInstanceDetectsOverlap(t *testing.T) {
	env := newShowTrait()
	var errs diag.Errors
	first := &Instance{Trait: "Show", Head: intCon(), Methods: map[string]ast.Expr{"show": &ast.Lambda{}}, AssocImpls: map[string]AssocTypeImpl{}, DefineModule: "Prelude"}
	env.AddInstance(first, "Prelude", map[string]string{"Int": "Prelude"}, &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors on first instance: %v", errs.Reports())
	}
	second := &Instance{Trait: "Show", Head: intCon(), Methods: map[string]ast.Expr{"show": &ast.Lambda{}}, AssocImpls: map[string]AssocTypeImpl{}, DefineModule: "Prelude"}
	env.AddInstance(second, "Prelude", map[string]string{"Int": "Prelude"}, &errs)
	if !errs.HasErrors() || errs.Reports()[0].Code != diag.TRT001 {
		t.Fatalf("expected TRT001 overlap error, got %v", errs.Reports())
	}
}

func TestAddInstanceDetectsOrphan(t *testing.T) {
	env := newShowTrait()
	var errs diag.Errors
	env.AddInstance(&Instance{
		Trait:        "Show",
		Head:         boolCon(),
		Methods:      map[string]ast.Expr{"show": &ast.Lambda{}},
		AssocImpls:   map[string]AssocTypeImpl{},
		DefineModule: "SomeOtherModule",
	}, "Prelude", map[string]string{"Bool": "Prelude"}, &errs)
	if !errs.HasErrors() || errs.Reports()[0].Code != diag.TRT002 {
		t.Fatalf("expected TRT002 orphan error, got %v", errs.Reports())
	}
}

func TestAddInstanceDetectsMissingMethod(t *testing.T) {
	env := newShowTrait()
	var errs diag.Errors
	env.AddInstance(&Instance{
		Trait:        "Show",
		Head:         intCon(),
		Methods:      map[string]ast.Expr{},
		AssocImpls:   map[string]AssocTypeImpl{},
		DefineModule: "Prelude",
	}, "Prelude", map[string]string{"Int": "Prelude"}, &errs)
	if !errs.HasErrors() || errs.Reports()[0].Code != diag.TRT004 {
		t.Fatalf("expected TRT004 missing method error, got %v", errs.Reports())
	}
}

func TestResolveFindsUniqueInstance(t *testing.T) {
	env := newShowTrait()
	var errs diag.Errors
	env.AddInstance(&Instance{
		Trait:        "Show",
		Head:         intCon(),
		Methods:      map[string]ast.Expr{"show": &ast.Lambda{}},
		AssocImpls:   map[string]AssocTypeImpl{},
		DefineModule: "Prelude",
	}, "Prelude", map[string]string{"Int": "Prelude"}, &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	inst, _, _, _, err := Resolve(env, types.Pred{Trait: "Show", Type: intCon()}, types.Substitution{})
	if err != nil {
		t.Fatalf("unexpected resolution error: %v", err)
	}
	if inst.Trait != "Show" {
		t.Errorf("resolved wrong instance: %+v", inst)
	}
}

func TestResolveReportsNoInstance(t *testing.T) {
	env := newShowTrait()
	_, _, _, _, err := Resolve(env, types.Pred{Trait: "Show", Type: boolCon()}, types.Substitution{})
	if err == nil {
		t.Fatal("expected a no-instance error")
	}
}
