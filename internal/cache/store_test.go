package cache

import (
	"path/filepath"
	"testing"

	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

func sampleExpr() typedast.Expr {
	intTy := &types.Con{Name: "Int", K: types.Star{}}
	return typedast.Lambda{
		Node:       typedast.Node{Type: types.Arrow(intTy, intTy)},
		Params:     []string{"x"},
		ParamTypes: []types.TypeNode{intTy},
		Body:       typedast.Var{Node: typedast.Node{Type: intTy}, Name: "x"},
	}
}

func TestCodecRoundTripsLambda(t *testing.T) {
	original := sampleExpr()
	blob, err := marshalExpr(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := unmarshalExpr(blob)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.String() != original.String() {
		t.Fatalf("round trip mismatch: got %s, want %s", decoded, original)
	}
}

func TestStorePutThenGet(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	key := CacheKey{FullName: "main.identity", SchemeText: "Int -> Int", DepHash: "abc"}
	if err := store.Put(key, sampleExpr()); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if (*got).String() != sampleExpr().String() {
		t.Fatalf("got %s, want %s", *got, sampleExpr())
	}
}

func TestStoreGetMissReturnsFalse(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	_, ok, err := store.Get(CacheKey{FullName: "nope"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss")
	}
}

func TestStorePutOverwritesOnSameKey(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	key := CacheKey{FullName: "main.identity", SchemeText: "Int -> Int", DepHash: "v1"}
	if err := store.Put(key, sampleExpr()); err != nil {
		t.Fatalf("put 1: %v", err)
	}

	boolTy := &types.Con{Name: "Bool", K: types.Star{}}
	second := typedast.Lit{Node: typedast.Node{Type: boolTy}, Value: true}
	if err := store.Put(key, second); err != nil {
		t.Fatalf("put 2: %v", err)
	}

	got, ok, err := store.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if (*got).String() != second.String() {
		t.Fatalf("expected overwritten value, got %s", *got)
	}
}

func TestStoreInvalidateDropsEntry(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	key := CacheKey{FullName: "main.identity", SchemeText: "Int -> Int", DepHash: "v1"}
	if err := store.Put(key, sampleExpr()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Invalidate("main.identity"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, ok, err := store.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected invalidation to drop the entry")
	}
}
