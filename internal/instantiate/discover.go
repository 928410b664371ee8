package instantiate

import (
	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

// ref is one further instantiation a specialized body discovered.
type ref struct {
	Generic names.FullName
	Type    types.TypeNode
}

// discoverRefs walks a fully specialized typed expression and returns one
// ref per occurrence of a Var naming a global (spec.md §4.5 step 1/2's
// "recursively walk the specialized expression and enqueue newly
// discovered references"). bound is the set of names introduced by
// enclosing lambdas/lets/match arms seen so far; a Var whose name is
// bound refers to a local, never a global, even if a global happens to
// share the name.
func (ins *Instantiator) discoverRefs(e typedast.Expr, bound map[string]bool) []ref {
	var out []ref
	switch n := e.(type) {
	case typedast.Var:
		if bound[n.Name] {
			return nil
		}
		if _, ok := ins.Globals[n.Name]; ok {
			out = append(out, ref{Generic: names.Local(n.Name), Type: n.Type})
		}
	case typedast.Lit:
	case typedast.App:
		out = append(out, ins.discoverRefs(n.Func, bound)...)
		for _, a := range n.Args {
			out = append(out, ins.discoverRefs(a, bound)...)
		}
	case typedast.Lambda:
		inner := extend(bound, n.Params...)
		out = append(out, ins.discoverRefs(n.Body, inner)...)
	case typedast.Let:
		out = append(out, ins.discoverRefs(n.Bound, bound)...)
		inner := extend(bound, n.Name)
		out = append(out, ins.discoverRefs(n.Body, inner)...)
	case typedast.If:
		out = append(out, ins.discoverRefs(n.Cond, bound)...)
		out = append(out, ins.discoverRefs(n.Then, bound)...)
		out = append(out, ins.discoverRefs(n.Else, bound)...)
	case typedast.Match:
		out = append(out, ins.discoverRefs(n.Scrutinee, bound)...)
		for _, arm := range n.Arms {
			inner := extend(bound, patternNames(arm.Pattern)...)
			if arm.Guard != nil {
				out = append(out, ins.discoverRefs(arm.Guard, inner)...)
			}
			out = append(out, ins.discoverRefs(arm.Body, inner)...)
		}
	case typedast.MakeStruct:
		for _, f := range n.Fields {
			out = append(out, ins.discoverRefs(f.Value, bound)...)
		}
	case typedast.TyAnno:
		out = append(out, ins.discoverRefs(n.Expr, bound)...)
	case typedast.SeqIO:
		out = append(out, ins.discoverRefs(n.Side, bound)...)
		out = append(out, ins.discoverRefs(n.Main, bound)...)
	}
	return out
}

// firstFreeVarNode depth-first searches a specialized expression for the
// first sub-node whose type still carries a free variable, used to
// report spec.md §4.5's UninstantiableIndeterminate at the precise
// sub-expression responsible rather than just the symbol's overall type.
func firstFreeVarNode(e typedast.Expr) (typedast.Node, bool) {
	node := e.GetNode()
	if hasFreeVar(node.Type) {
		return node, true
	}
	switch n := e.(type) {
	case typedast.App:
		if found, ok := firstFreeVarNode(n.Func); ok {
			return found, true
		}
		for _, a := range n.Args {
			if found, ok := firstFreeVarNode(a); ok {
				return found, true
			}
		}
	case typedast.Lambda:
		return firstFreeVarNode(n.Body)
	case typedast.Let:
		if found, ok := firstFreeVarNode(n.Bound); ok {
			return found, true
		}
		return firstFreeVarNode(n.Body)
	case typedast.If:
		if found, ok := firstFreeVarNode(n.Cond); ok {
			return found, true
		}
		if found, ok := firstFreeVarNode(n.Then); ok {
			return found, true
		}
		return firstFreeVarNode(n.Else)
	case typedast.Match:
		if found, ok := firstFreeVarNode(n.Scrutinee); ok {
			return found, true
		}
		for _, arm := range n.Arms {
			if arm.Guard != nil {
				if found, ok := firstFreeVarNode(arm.Guard); ok {
					return found, true
				}
			}
			if found, ok := firstFreeVarNode(arm.Body); ok {
				return found, true
			}
		}
	case typedast.MakeStruct:
		for _, f := range n.Fields {
			if found, ok := firstFreeVarNode(f.Value); ok {
				return found, true
			}
		}
	case typedast.TyAnno:
		return firstFreeVarNode(n.Expr)
	case typedast.SeqIO:
		if found, ok := firstFreeVarNode(n.Side); ok {
			return found, true
		}
		return firstFreeVarNode(n.Main)
	}
	return typedast.Node{}, false
}

func extend(bound map[string]bool, names ...string) map[string]bool {
	out := make(map[string]bool, len(bound)+len(names))
	for k := range bound {
		out[k] = true
	}
	for _, n := range names {
		out[n] = true
	}
	return out
}

func patternNames(p typedast.Pattern) []string {
	switch n := p.(type) {
	case typedast.VarPattern:
		return []string{n.Name}
	case typedast.StructPattern:
		var out []string
		for _, f := range n.Fields {
			out = append(out, patternNames(f.Pattern)...)
		}
		return out
	case typedast.UnionPattern:
		if n.Sub != nil {
			return patternNames(n.Sub)
		}
		return nil
	default:
		return nil
	}
}
