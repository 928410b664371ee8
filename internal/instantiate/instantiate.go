package instantiate

import (
	"fmt"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

// pending is one not-yet-drained entry on the instantiation worklist.
type pending struct {
	Name    names.FullName
	Generic names.FullName
	Type    types.TypeNode
}

// Instantiator runs spec.md §4.5 over a table of checked global values.
// Single-threaded and sequential by construction — it runs strictly
// after every module has finished type checking (spec.md §5 ordering
// guarantees), so there is no concurrent access to Globals or Symbols to
// guard against.
//
// Globals and Symbols are keyed by bare local name rather than by
// names.FullName itself: FullName carries a []string field, which makes
// it unusable as a Go map key, and every downstream table built earlier
// in the pipeline (tyenv.Env, traitenv.Env, checker.Checker.Globals)
// already made the same choice — see internal/resolver's design note on
// why only the bare local name survives past name resolution.
type Instantiator struct {
	Globals map[string]*GlobalValue
	Symbols map[string]*Symbol

	nextVar int
}

// New constructs an Instantiator over a checked program's global value
// table.
func New(globals map[string]*GlobalValue) *Instantiator {
	return &Instantiator{Globals: globals, Symbols: map[string]*Symbol{}}
}

func (ins *Instantiator) fresh() *types.Var {
	ins.nextVar++
	return &types.Var{Name: fmt.Sprintf("i%d", ins.nextVar), K: types.Star{}}
}

// Run performs spec.md §4.5's two-step procedure: seed the worklist by
// requiring each entry point's own (already concrete) declared type,
// then drain the worklist until no specialization discovers a further
// reference. The returned map is keyed by instantiated-name string form,
// deterministic across runs for identical inputs (spec.md §8 property 3).
func (ins *Instantiator) Run(entryPoints []names.FullName) (map[string]*Symbol, diag.Errors) {
	var errs diag.Errors
	var worklist []pending
	seen := map[string]bool{}

	enqueue := func(generic names.FullName, ty types.TypeNode) {
		instName := InstantiatedName(generic, ty)
		key := instName.String()
		if seen[key] {
			return
		}
		seen[key] = true
		worklist = append(worklist, pending{Name: instName, Generic: generic, Type: ty})
	}

	for _, ep := range entryPoints {
		gv, ok := ins.Globals[ep.Local]
		if !ok {
			errs.Add(diag.New(diag.INS001, "instantiate",
				fmt.Sprintf("unknown entry point %q", ep), ast.Span{}))
			continue
		}
		ty := gv.Scheme.Body
		if hasFreeVar(ty) {
			errs.Add(diag.New(diag.INS001, "instantiate",
				fmt.Sprintf("entry point %q has an indeterminate type %s; annotate it", ep, ty), gv.DefSrc))
			continue
		}
		enqueue(ep, ty)
	}

	for len(worklist) > 0 {
		item := worklist[0]
		worklist = worklist[1:]

		sym, refs, err := ins.instantiateOne(item)
		if err != nil {
			errs.Eat("instantiate", err)
			continue
		}
		ins.Symbols[item.Name.String()] = sym
		for _, r := range refs {
			enqueue(r.Generic, r.Type)
		}
	}
	return ins.Symbols, errs
}

// instantiateOne specializes generic's body to the required type,
// substituting it through every sub-node and discovering the further
// references it makes (spec.md §4.5 step 2).
func (ins *Instantiator) instantiateOne(item pending) (*Symbol, []ref, error) {
	gv, ok := ins.Globals[item.Generic.Local]
	if !ok {
		return nil, nil, diag.Wrap(diag.New(diag.INS001, "instantiate",
			fmt.Sprintf("unknown generic value %q", item.Generic), ast.Span{}))
	}

	expr, bodyTy, ok := ins.selectBody(gv, item.Type)
	if !ok {
		return nil, nil, diag.Wrap(diag.New(diag.INS001, "instantiate",
			fmt.Sprintf("no implementation of %q unifies with required type %s", item.Generic, item.Type),
			gv.DefSrc))
	}

	sub, err := types.Unify(bodyTy, item.Type, types.Substitution{})
	if err != nil {
		return nil, nil, diag.Wrap(diag.New(diag.INS001, "instantiate",
			fmt.Sprintf("cannot specialize %q to %s: %v", item.Generic, item.Type, err), gv.DefSrc))
	}

	specialized := substituteExpr(expr, sub)
	if indeterminate, ok := firstFreeVarNode(specialized); ok {
		return nil, nil, diag.Wrap(diag.New(diag.INS001, "instantiate",
			fmt.Sprintf("type of %q remains indeterminate (%s) after specialization; add an annotation",
				item.Generic, indeterminate.Type),
			indeterminate.Span))
	}

	sym := &Symbol{Name: item.Name, Generic: item.Generic, Type: item.Type, Expr: specialized}
	return sym, ins.discoverRefs(specialized, map[string]bool{}), nil
}

// selectBody picks the expression to specialize: the sole body for a
// Simple global, or the unique Method implementation whose own scheme
// unifies with ty (spec.md §4.5 step 2's "Method(impls)" case; overlap
// between instances is already forbidden by internal/traitenv, so at
// most one impl ever matches).
func (ins *Instantiator) selectBody(gv *GlobalValue, ty types.TypeNode) (typedast.Expr, types.TypeNode, bool) {
	if gv.IsSimple() {
		return gv.Simple, gv.Simple.GetNode().Type, true
	}
	for _, m := range gv.Methods {
		instBody, _, _ := m.Scheme.Instantiate(func(types.Kind) *types.Var { return ins.fresh() })
		if types.Unifiable(instBody, ty) {
			return m.Expr, m.Expr.GetNode().Type, true
		}
	}
	return nil, nil, false
}

func hasFreeVar(t types.TypeNode) bool {
	return len(t.FreeVars()) > 0
}
