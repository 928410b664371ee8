package resolver

import (
	"testing"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/names"
)

func buildTestUniverse() *Universe {
	u := NewUniverse()
	u.Declare(names.New([]string{"main"}, "identity"), Value, "main")
	u.Declare(names.New([]string{"std", "list"}, "map"), Value, "std/list")
	u.Declare(names.New([]string{"std", "array"}, "map"), Value, "std/array")
	u.Declare(names.New([]string{"main"}, "Point"), Type, "main")
	return u
}

func testTree(module string, imports ...string) *ImportTree {
	t := &ImportTree{Module: module, sources: map[string]*ast.ImportFilter{module: nil}}
	for _, i := range imports {
		t.sources[i] = nil
	}
	return t
}

func TestResolveUniqueSuffixSucceeds(t *testing.T) {
	u := buildTestUniverse()
	r := New(u)
	tree := testTree("main")

	full, err := r.Resolve("identity", Value, tree, ast.Span{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full.Local != "identity" {
		t.Errorf("got %q, want identity", full.Local)
	}
}

func TestResolveUnknownNameFails(t *testing.T) {
	u := buildTestUniverse()
	r := New(u)
	tree := testTree("main")

	_, err := r.Resolve("nonexistent", Value, tree, ast.Span{})
	rep, ok := diag.AsReport(err)
	if !ok || rep.Code != diag.RES001 {
		t.Fatalf("expected RES001, got %v", err)
	}
}

func TestResolveAmbiguousNameFails(t *testing.T) {
	u := buildTestUniverse()
	r := New(u)
	tree := testTree("main", "std/list", "std/array")

	_, err := r.Resolve("map", Value, tree, ast.Span{})
	rep, ok := diag.AsReport(err)
	if !ok || rep.Code != diag.RES002 {
		t.Fatalf("expected RES002, got %v", err)
	}
}

func TestResolveQualifiedFormDisambiguates(t *testing.T) {
	u := buildTestUniverse()
	r := New(u)
	tree := testTree("main", "std/list", "std/array")

	full, err := r.Resolve("list::map", Value, tree, ast.Span{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full.Module() != "std::list" {
		t.Errorf("got module %q, want std::list", full.Module())
	}
}

func TestResolveRespectsImportVisibility(t *testing.T) {
	u := buildTestUniverse()
	r := New(u)
	tree := testTree("main", "std/list") // std/array not imported

	full, err := r.Resolve("map", Value, tree, ast.Span{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full.Module() != "std::list" {
		t.Errorf("got module %q, want std::list (array not imported)", full.Module())
	}
}

func TestResolveKindMismatchIsUnknown(t *testing.T) {
	u := buildTestUniverse()
	r := New(u)
	tree := testTree("main")

	// "Point" is declared as a Type, not a Value.
	_, err := r.Resolve("Point", Value, tree, ast.Span{})
	rep, ok := diag.AsReport(err)
	if !ok || rep.Code != diag.RES001 {
		t.Fatalf("expected RES001 for kind mismatch, got %v", err)
	}
}
