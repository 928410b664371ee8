package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func intCon() *Con  { return &Con{Name: "Int", K: Star{}} }
func boolCon() *Con { return &Con{Name: "Bool", K: Star{}} }
func tv(n string) *Var { return &Var{Name: n, K: Star{}} }

func TestUnifyVarWithCon(t *testing.T) {
	sub, err := Unify(tv("a"), intCon(), Substitution{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sub["a"]; got == nil || got.String() != "Int" {
		t.Errorf("sub[a] = %v, want Int", got)
	}
}

func TestUnifyConMismatch(t *testing.T) {
	_, err := Unify(intCon(), boolCon(), Substitution{})
	if err == nil {
		t.Fatal("expected UnifyError, got nil")
	}
	if _, ok := err.(*UnifyError); !ok {
		t.Errorf("expected *UnifyError, got %T", err)
	}
}

func TestOccursCheck(t *testing.T) {
	// a ~ List a should fail the occurs check.
	listCon := &Con{Name: "List", K: KArrow{From: Star{}, To: Star{}}}
	listA := &App{Func: listCon, Arg: tv("a")}
	_, err := Unify(tv("a"), listA, Substitution{})
	if err == nil {
		t.Fatal("expected occurs check failure")
	}
	if _, ok := err.(*OccursError); !ok {
		t.Errorf("expected *OccursError, got %T: %v", err, err)
	}
}

func TestUnifyArrow(t *testing.T) {
	fn1 := Arrow(tv("a"), boolCon())
	fn2 := Arrow(intCon(), tv("b"))
	sub, err := Unify(fn1, fn2, Substitution{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Substitution{"a": intCon(), "b": boolCon()}
	if diff := cmp.Diff(want, sub); diff != "" {
		t.Errorf("substitution mismatch (-want +got):\n%s", diff)
	}
}

func TestUnifyAssocTyComponentwise(t *testing.T) {
	at1 := &AssocTy{Trait: "Iterable", Name: "Item", Args: []TypeNode{tv("a")}, K: Star{}}
	at2 := &AssocTy{Trait: "Iterable", Name: "Item", Args: []TypeNode{intCon()}, K: Star{}}
	sub, err := Unify(at1, at2, Substitution{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub["a"].String() != "Int" {
		t.Errorf("a = %v, want Int", sub["a"])
	}
}

func TestUnifiable(t *testing.T) {
	if !Unifiable(tv("a"), intCon()) {
		t.Error("expected unifiable")
	}
	if Unifiable(intCon(), boolCon()) {
		t.Error("expected not unifiable")
	}
}

func TestEmbeddingHashStableUnderAlphaRenaming(t *testing.T) {
	t1 := Arrow(tv("a"), tv("a"))
	t2 := Arrow(tv("x"), tv("x"))
	if EmbeddingHash(t1) != EmbeddingHash(t2) {
		t.Errorf("alpha-equivalent types hashed differently: %s vs %s",
			EmbeddingHash(t1), EmbeddingHash(t2))
	}
	t3 := Arrow(tv("a"), tv("b"))
	if EmbeddingHash(t1) == EmbeddingHash(t3) {
		t.Error("distinct types hashed identically")
	}
}

func TestSchemeInstantiateFreshens(t *testing.T) {
	scheme := NewScheme([]string{"a"}, nil, nil, Arrow(tv("a"), tv("a")))
	var count int
	fresh := func(k Kind) *Var {
		count++
		return &Var{Name: "fresh" + string(rune('0'+count)), K: k}
	}
	body, preds, eqs := scheme.Instantiate(fresh)
	if len(preds) != 0 || len(eqs) != 0 {
		t.Errorf("expected no preds/eqs, got %d/%d", len(preds), len(eqs))
	}
	dom, cod, ok := AsArrow(body)
	if !ok {
		t.Fatalf("expected arrow, got %s", body)
	}
	if dom.String() != cod.String() {
		t.Errorf("instantiated domain/codomain diverged: %s vs %s", dom, cod)
	}
	if dom.String() != "fresh1" {
		t.Errorf("expected fresh1, got %s", dom)
	}
}
