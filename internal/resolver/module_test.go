package resolver

import (
	"testing"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/tyenv"
)

func TestModuleResolvesVarAndMakeStruct(t *testing.T) {
	pointDefn := &ast.TypeDefn{Name: "Point", Value: &ast.StructDefn{
		Boxed: true,
		Fields: []ast.FieldDefn{
			{Name: "x", Type: &ast.TyConRef{Name: "Int"}},
		},
	}}
	mod := &ast.Module{
		Path:  "main",
		Types: []*ast.TypeDefn{pointDefn},
		ValDefns: []*ast.GlobalValueDefn{
			{Name: "origin", Body: &ast.MakeStruct{
				TyCon:  "Point",
				Fields: []ast.FieldInit{{Name: "x", Value: &ast.Lit{Kind: ast.LitInt, Value: 0}}},
			}},
			{Name: "getX", Body: &ast.Var{Name: "origin"}},
		},
	}

	builtins := tyenv.NewBuiltins()
	var buildErrs diag.Errors
	tyEnv := tyenv.Build(mod.Types, builtins, &buildErrs)
	if buildErrs.HasErrors() {
		t.Fatalf("unexpected tyenv build errors: %v", buildErrs.Reports())
	}

	u := NewUniverse()
	CollectBuiltins(builtins, u)
	Collect(mod, &tyEnv, builtins, u)

	r := New(u)
	tree := BuildImportTree(mod, PreludeModule)

	var errs diag.Errors
	Module(mod, r, tree, &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", errs.Reports())
	}

	makeStruct := mod.ValDefns[0].Body.(*ast.MakeStruct)
	if makeStruct.TyCon != "Point" {
		t.Errorf("got TyCon %q, want Point", makeStruct.TyCon)
	}
	v := mod.ValDefns[1].Body.(*ast.Var)
	if v.Resolved != "origin" {
		t.Errorf("got Resolved %q, want origin", v.Resolved)
	}
}

func TestModuleReportsUnknownName(t *testing.T) {
	mod := &ast.Module{
		Path: "main",
		ValDefns: []*ast.GlobalValueDefn{
			{Name: "bad", Body: &ast.Var{Name: "nonexistent"}},
		},
	}
	u := NewUniverse()
	r := New(u)
	tree := BuildImportTree(mod, PreludeModule)

	var errs diag.Errors
	Module(mod, r, tree, &errs)
	if !errs.HasErrors() || errs.Reports()[0].Code != diag.RES001 {
		t.Fatalf("expected RES001, got %v", errs.Reports())
	}
}

func TestModuleReportsSelfImport(t *testing.T) {
	mod := &ast.Module{
		Path:    "main",
		Imports: []*ast.ImportStatement{{Source: "main"}},
	}
	u := NewUniverse()
	r := New(u)
	tree := BuildImportTree(mod, PreludeModule)

	var errs diag.Errors
	Module(mod, r, tree, &errs)
	if !errs.HasErrors() || errs.Reports()[0].Code != diag.RES004 {
		t.Fatalf("expected RES004, got %v", errs.Reports())
	}
}

func TestModuleLeavesLambdaAndLetBoundNamesUnresolved(t *testing.T) {
	mod := &ast.Module{
		Path: "main",
		ValDefns: []*ast.GlobalValueDefn{
			{Name: "id", Body: &ast.Lambda{Params: []string{"x"}, Body: &ast.Var{Name: "x"}}},
			{Name: "twice", Body: &ast.Let{
				Pattern: &ast.VarPattern{Name: "y"},
				Bound:   &ast.Lit{Kind: ast.LitInt, Value: 1},
				Body:    &ast.Var{Name: "y"},
			}},
		},
	}
	u := NewUniverse()
	r := New(u)
	tree := BuildImportTree(mod, PreludeModule)

	var errs diag.Errors
	Module(mod, r, tree, &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected resolve errors for lambda/let-bound names: %v", errs.Reports())
	}

	lam := mod.ValDefns[0].Body.(*ast.Lambda)
	if v := lam.Body.(*ast.Var); v.Resolved != "" {
		t.Errorf("got Resolved %q for lambda param reference, want empty (local)", v.Resolved)
	}
	let := mod.ValDefns[1].Body.(*ast.Let)
	if v := let.Body.(*ast.Var); v.Resolved != "" {
		t.Errorf("got Resolved %q for let-bound reference, want empty (local)", v.Resolved)
	}
}

func TestModuleResolvesUnionPatternToOwningTyCon(t *testing.T) {
	shapeDefn := &ast.TypeDefn{Name: "Shape", Value: &ast.UnionDefn{
		Variants: []ast.FieldDefn{
			{Name: "circle", Type: &ast.TyConRef{Name: "Float"}},
		},
	}}
	mod := &ast.Module{Path: "main", Types: []*ast.TypeDefn{shapeDefn}}

	builtins := tyenv.NewBuiltins()
	var buildErrs diag.Errors
	tyEnv := tyenv.Build(mod.Types, builtins, &buildErrs)
	if buildErrs.HasErrors() {
		t.Fatalf("unexpected tyenv build errors: %v", buildErrs.Reports())
	}

	u := NewUniverse()
	Collect(mod, &tyEnv, builtins, u)
	r := New(u)
	tree := BuildImportTree(mod, PreludeModule)

	pat := &ast.UnionPattern{Variant: "circle"}
	var errs diag.Errors
	Module(mod, r, tree, &errs)
	w := &walker{resolver: r, tree: tree, errs: &errs}
	w.pattern(pat)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	if pat.Resolved != "Shape" {
		t.Errorf("got Resolved %q, want Shape", pat.Resolved)
	}
}
