// Package instantiate implements monomorphization (spec.md §4.5): given a
// set of entry points and a table of checked global values, it produces a
// concrete symbol for every (generic value, required type) pair actually
// reached from the entries.
//
// Grounded on the teacher's Symbol/GlobalValue split in ast/program.rs
// (original_source) and the worklist-draining discipline the teacher uses
// for strongly-connected-component ordering in internal/elaborate/scc.go,
// reused here to keep a single pending-instantiation queue instead of
// recursing directly (recursive generic values would otherwise recurse
// the Go call stack once per reference instead of once per distinct
// specialization).
package instantiate

import (
	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

// MethodImpl is one trait instance's implementation of a method, carried
// on a Method-shaped GlobalValue (spec.md §3 "Global values and symbols").
type MethodImpl struct {
	Scheme       types.Scheme
	Expr         typedast.Expr
	DefineModule string
}

// GlobalValue is the checker's output for one declared name: either a
// plain definition (Simple) or one MethodImpl per trait instance
// (Methods), never both.
type GlobalValue struct {
	Scheme          types.Scheme
	SynScheme       *types.Scheme
	Simple          typedast.Expr
	Methods         []MethodImpl
	DefSrc          ast.Span
	Document        string
	CompilerDefined bool
}

// IsSimple reports whether this value is an ordinary definition rather
// than a trait method's set of instance implementations.
func (g *GlobalValue) IsSimple() bool { return g.Simple != nil }
