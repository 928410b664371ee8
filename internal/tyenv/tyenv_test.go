package tyenv

import (
	"testing"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/types"
)

func TestBuildRejectsDuplicateTypeDefinition(t *testing.T) {
	defns := []*ast.TypeDefn{
		{Name: "Point", Value: &ast.StructDefn{Boxed: true}},
		{Name: "Point", Value: &ast.StructDefn{Boxed: true}},
	}
	var errs diag.Errors
	Build(defns, NewBuiltins(), &errs)
	if !errs.HasErrors() {
		t.Fatal("expected a duplicate-definition error")
	}
	if errs.Reports()[0].Code != diag.TYC004 {
		t.Errorf("got code %s, want %s", errs.Reports()[0].Code, diag.TYC004)
	}
}

func TestBuildRejectsAssocTypeInField(t *testing.T) {
	defns := []*ast.TypeDefn{
		{Name: "Box", Value: &ast.StructDefn{
			Boxed: true,
			Fields: []ast.FieldDefn{
				{Name: "contents", Type: &ast.AssocTyRef{Name: "Elem"}},
			},
		}},
	}
	var errs diag.Errors
	Build(defns, NewBuiltins(), &errs)
	if !errs.HasErrors() || errs.Reports()[0].Code != diag.TYC003 {
		t.Fatalf("expected TYC003, got %v", errs.Reports())
	}
}

func TestBoxedStructSynthesizesFieldMethods(t *testing.T) {
	defns := []*ast.TypeDefn{
		{Name: "Point", Value: &ast.StructDefn{
			Boxed: true,
			Fields: []ast.FieldDefn{
				{Name: "x", Type: &ast.TyConRef{Name: "Int"}},
				{Name: "y", Type: &ast.TyConRef{Name: "Int"}},
			},
		}},
	}
	var errs diag.Errors
	env := Build(defns, NewBuiltins(), &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	for _, name := range []string{"@x", "set_x", "mod_x", "act_x", "#punch_x", "#plug_in_x"} {
		if _, ok := env.Methods[name]; !ok {
			t.Errorf("expected synthesized method %q", name)
		}
	}
	if _, ok := env.TyCons["Point#punch0"]; !ok {
		t.Error("expected punched tycon Point#punch0")
	}
}

func TestUnionSynthesizesVariantMethods(t *testing.T) {
	defns := []*ast.TypeDefn{
		{Name: "Shape", Value: &ast.UnionDefn{
			Variants: []ast.FieldDefn{
				{Name: "circle", Type: &ast.TyConRef{Name: "Float"}},
			},
		}},
	}
	var errs diag.Errors
	env := Build(defns, NewBuiltins(), &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	for _, name := range []string{"circle", "is_circle", "as_circle", "mod_circle"} {
		if _, ok := env.Methods[name]; !ok {
			t.Errorf("expected synthesized method %q", name)
		}
	}
}

func TestResolveAliasesExpandsNullaryAlias(t *testing.T) {
	defns := []*ast.TypeDefn{
		{Name: "IntList", Value: &ast.AliasDefn{
			Body: &ast.TyApp{
				Func: &ast.TyConRef{Name: "List"},
				Arg:  &ast.TyConRef{Name: "Int"},
			},
		}},
	}
	var errs diag.Errors
	env := Build(defns, NewBuiltins(), &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	alias := &types.Con{Name: "IntList", K: types.Star{}}
	resolved := env.ResolveAliases(alias)
	want := &types.App{
		Func: &types.Con{Name: "List", K: types.Star{}},
		Arg:  &types.Con{Name: "Int", K: types.Star{}},
	}
	if resolved.String() != want.String() {
		t.Errorf("ResolveAliases = %v, want %v", resolved, want)
	}
}
