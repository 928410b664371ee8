package pipeline

import (
	"testing"

	"github.com/sunholo/corelang/internal/ast"
)

func intRef() *ast.TyConRef { return &ast.TyConRef{Name: "Int"} }

func constModule() *ast.Module {
	scheme := &ast.SchemeExpr{Body: intRef()}
	return &ast.Module{
		Path: "app/main",
		ValDecls: []*ast.GlobalValueDecl{
			{Name: "answer", Scheme: scheme},
		},
		ValDefns: []*ast.GlobalValueDefn{
			{Name: "answer", Body: &ast.Lit{Kind: ast.LitInt, Value: 42}},
		},
		Exports: []*ast.ExportStatement{
			{Name: "answer"},
		},
	}
}

func TestRunChecksAndExportsASimpleConstant(t *testing.T) {
	prog, errs := Run([]*ast.Module{constModule()}, Config{Workers: 1, EntryPoints: []string{"answer"}})
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	if prog == nil {
		t.Fatal("expected a non-nil program")
	}
	if len(prog.Exports) != 1 {
		t.Fatalf("expected 1 export, got %d", len(prog.Exports))
	}
	if prog.Exports[0].Name != "answer" {
		t.Fatalf("expected export named answer, got %q", prog.Exports[0].Name)
	}
	if prog.Exports[0].Type.IsIO {
		t.Fatal("answer is a plain Int, not an IO action")
	}
	if prog.Entry == nil {
		t.Fatal("expected an instantiated entry expression")
	}
}

func TestRunReportsMissingDefinition(t *testing.T) {
	mod := &ast.Module{
		Path: "app/main",
		ValDecls: []*ast.GlobalValueDecl{
			{Name: "answer", Scheme: &ast.SchemeExpr{Body: intRef()}},
		},
	}
	_, errs := Run([]*ast.Module{mod}, Config{Workers: 1})
	if !errs.HasErrors() {
		t.Fatal("expected an error for a declaration with no definition")
	}
}

func arrowTE(dom, cod ast.TypeExpr) ast.TypeExpr {
	return &ast.TyApp{Func: &ast.TyApp{Func: &ast.TyConRef{Name: "->"}, Arg: dom}, Arg: cod}
}

// pointModule declares a boxed struct with a compiler-synthesized getter
// (@x) and setter (set_x), and a function using both in one round trip —
// the method-dispatch scenario globalSigs must resolve without RES001.
func pointModule() *ast.Module {
	point := &ast.TypeDefn{
		Name: "Point",
		Value: &ast.StructDefn{
			Boxed: true,
			Fields: []ast.FieldDefn{
				{Name: "x", Type: intRef()},
				{Name: "y", Type: intRef()},
			},
		},
	}
	pointRef := &ast.TyConRef{Name: "Point"}
	return &ast.Module{
		Path:  "app/point",
		Types: []*ast.TypeDefn{point},
		ValDecls: []*ast.GlobalValueDecl{
			{Name: "bumpX", Scheme: &ast.SchemeExpr{Body: arrowTE(pointRef, pointRef)}},
		},
		ValDefns: []*ast.GlobalValueDefn{
			{Name: "bumpX", Body: &ast.Lambda{
				Params: []string{"p"},
				Body: &ast.App{
					Func: &ast.Var{Name: "set_x"},
					Args: []ast.Expr{
						&ast.App{Func: &ast.Var{Name: "@x"}, Args: []ast.Expr{&ast.Var{Name: "p"}}},
						&ast.Var{Name: "p"},
					},
				},
			}},
		},
		Exports: []*ast.ExportStatement{{Name: "bumpX"}},
	}
}

func TestRunResolvesStructGetterAndSetterMethods(t *testing.T) {
	prog, errs := Run([]*ast.Module{pointModule()}, Config{Workers: 1, EntryPoints: []string{"bumpX"}})
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Reports())
	}
	if prog == nil {
		t.Fatal("expected a non-nil program")
	}
	if len(prog.Exports) != 1 || prog.Exports[0].Name != "bumpX" {
		t.Fatalf("expected a single export named bumpX, got %v", prog.Exports)
	}
}

// greetTraitModule declares a one-method trait and an instance whose
// method body's inferred type does not match the trait's declared
// scheme once the instance head is substituted in — `greet : a ->
// String` over `Int` requires an Int-to-String body, but the instance
// just echoes its argument back as an Int.
func greetTraitModule() *ast.Module {
	stringRef := &ast.TyConRef{Name: "String"}
	trait := &ast.TraitDefn{
		Name:  "Greet",
		TyVar: "a",
		Methods: []ast.MethodSig{
			{Name: "greet", Scheme: &ast.SchemeExpr{Body: arrowTE(&ast.TyVarRef{Name: "a"}, stringRef)}},
		},
	}
	inst := &ast.InstanceDefn{
		Trait: "Greet",
		Head:  intRef(),
		Methods: map[string]ast.Expr{
			"greet": &ast.Lambda{Params: []string{"x"}, Body: &ast.Var{Name: "x"}},
		},
	}
	return &ast.Module{
		Path:      "app/greet",
		Traits:    []*ast.TraitDefn{trait},
		Instances: []*ast.InstanceDefn{inst},
	}
}

func TestInstanceMethodBodyMustMatchTraitScheme(t *testing.T) {
	_, errs := Run([]*ast.Module{greetTraitModule()}, Config{Workers: 1})
	if !errs.HasErrors() {
		t.Fatal("expected a type error: Greet Int's greet returns Int, not String")
	}
}

func TestRunReportsUnknownEntryPoint(t *testing.T) {
	_, errs := Run([]*ast.Module{constModule()}, Config{Workers: 1, EntryPoints: []string{"nope"}})
	if !errs.HasErrors() {
		t.Fatal("expected an error for an unknown entry point")
	}
}
