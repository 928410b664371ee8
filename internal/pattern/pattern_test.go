package pattern

import (
	"testing"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/tyenv"
	"github.com/sunholo/corelang/internal/types"
)

func buildShapeEnv(t *testing.T) *tyenv.Env {
	defns := []*ast.TypeDefn{
		{Name: "Shape", Value: &ast.UnionDefn{
			Variants: []ast.FieldDefn{
				{Name: "circle", Type: &ast.TyConRef{Name: "Float"}},
				{Name: "square", Type: &ast.TyConRef{Name: "Float"}},
			},
		}},
	}
	var errs diag.Errors
	env := tyenv.Build(defns, tyenv.NewBuiltins(), &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors building env: %v", errs.Reports())
	}
	return &env
}

func TestCheckExhaustiveDetectsMissingVariant(t *testing.T) {
	env := buildShapeEnv(t)
	scrutTy := &types.Con{Name: "Shape", K: types.Star{}}
	arms := []ast.MatchArm{
		{Pattern: &ast.UnionPattern{Variant: "circle", Resolved: "Shape"}},
	}
	errs := CheckExhaustive(scrutTy, arms, env)
	if !errs.HasErrors() || errs.Reports()[0].Code != diag.PAT002 {
		t.Fatalf("expected PAT002, got %v", errs.Reports())
	}
}

func TestCheckExhaustiveAcceptsFullCoverage(t *testing.T) {
	env := buildShapeEnv(t)
	scrutTy := &types.Con{Name: "Shape", K: types.Star{}}
	arms := []ast.MatchArm{
		{Pattern: &ast.UnionPattern{Variant: "circle", Resolved: "Shape"}},
		{Pattern: &ast.UnionPattern{Variant: "square", Resolved: "Shape"}},
	}
	errs := CheckExhaustive(scrutTy, arms, env)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
}

func TestCheckExhaustiveAcceptsCatchAll(t *testing.T) {
	env := buildShapeEnv(t)
	scrutTy := &types.Con{Name: "Shape", K: types.Star{}}
	arms := []ast.MatchArm{
		{Pattern: &ast.VarPattern{Name: "_"}},
	}
	errs := CheckExhaustive(scrutTy, arms, env)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
}

func TestCheckUniquenessDetectsDuplicateBinding(t *testing.T) {
	p := &ast.StructPattern{
		TyCon: "Point",
		Fields: []ast.FieldPattern{
			{Name: "x", Pattern: &ast.VarPattern{Name: "a"}},
			{Name: "y", Pattern: &ast.VarPattern{Name: "a"}},
		},
	}
	errs := CheckUniqueness(p)
	if !errs.HasErrors() || errs.Reports()[0].Code != diag.PAT001 {
		t.Fatalf("expected PAT001, got %v", errs.Reports())
	}
}

func TestTypeAgainstRejectsUnknownField(t *testing.T) {
	defns := []*ast.TypeDefn{
		{Name: "Point", Value: &ast.StructDefn{
			Boxed: true,
			Fields: []ast.FieldDefn{
				{Name: "x", Type: &ast.TyConRef{Name: "Int"}},
			},
		}},
	}
	var buildErrs diag.Errors
	env := tyenv.Build(defns, tyenv.NewBuiltins(), &buildErrs)
	if buildErrs.HasErrors() {
		t.Fatalf("unexpected build errors: %v", buildErrs.Reports())
	}

	p := &ast.StructPattern{
		TyCon:    "Point",
		Resolved: "Point",
		Fields: []ast.FieldPattern{
			{Name: "z", Pattern: &ast.VarPattern{Name: "v"}},
		},
	}
	var errs diag.Errors
	TypeAgainst(p, &types.Con{Name: "Point", K: types.Star{}}, &env, &errs)
	if !errs.HasErrors() || errs.Reports()[0].Code != diag.CHK007 {
		t.Fatalf("expected CHK007, got %v", errs.Reports())
	}
}
