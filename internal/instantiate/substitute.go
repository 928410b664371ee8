package instantiate

import (
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

// substituteExpr rewrites every node of e with sub applied to its type
// and residual equalities, recursing through every child — the
// "finalize types on every node" step of spec.md §4.5, here carrying
// the substitution discovered by unifying a generic value's body type
// against the concrete type a call site requires. The tree walk itself
// lives in internal/typedast since internal/checker's own
// finalization pass (substituteTyped) needs the identical walk over the
// identical node set.
func substituteExpr(e typedast.Expr, sub types.Substitution) typedast.Expr {
	return typedast.Substitute(e, sub)
}
