// Package work partitions a checking pass across a fixed worker pool
// (spec.md §5 concurrency model — a concern the teacher's single-pass,
// REPL-driven checker never needed, built here in the teacher's own
// goroutine idiom).
package work

import (
	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/resolver"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

// Job is one global value's worth of checking work: its declared (or
// inferred) scheme, its surface body, and the import context its body's
// names must resolve against.
type Job struct {
	Name      names.FullName
	Scheme    types.Scheme
	Body      ast.Expr
	ImportCtx *resolver.ImportTree
	DepHash   string
}

// Result is one completed Job: its typed body (nil on failure) and
// whatever diagnostics checking it produced.
type Result struct {
	Job   Job
	Expr  *typedast.Expr
	Errs  diag.Errors
	RunID string
}

// CheckFunc performs the actual (sequential, single-job) unit of work
// Partition fans out: checking job's body against its scheme. The
// environments a CheckFunc consults (type/trait/kind tables, the global
// signature map) are supplied by the caller's closure rather than by
// Job itself, since they are shared read-only state across every worker
// — Job only carries what's specific to one global value.
type CheckFunc func(job Job) (typedast.Expr, diag.Errors)
