package typedast

import (
	"fmt"

	"github.com/sunholo/corelang/internal/types"
)

// Substitute rewrites every node of e with sub applied to its type and
// residual equalities, recursing through every child. Checking threads a
// substitution that keeps growing as later sibling expressions unify
// (spec.md §4.3): a node built early in an App's argument list, or
// inside a Let's body, can still have its Type narrowed by a unification
// performed afterwards elsewhere in the same global's body. Substitute
// is the "finalize every node's type" pass that makes that narrowing
// visible on nodes built before it happened, rather than leaving their
// Type fields pointing at since-resolved type variables.
func Substitute(e Expr, sub types.Substitution) Expr {
	switch n := e.(type) {
	case Var:
		n.Node = substituteNode(n.Node, sub)
		return n
	case Lit:
		n.Node = substituteNode(n.Node, sub)
		return n
	case App:
		n.Node = substituteNode(n.Node, sub)
		n.Func = Substitute(n.Func, sub)
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Substitute(a, sub)
		}
		n.Args = args
		return n
	case Lambda:
		n.Node = substituteNode(n.Node, sub)
		paramTys := make([]types.TypeNode, len(n.ParamTypes))
		for i, t := range n.ParamTypes {
			paramTys[i] = t.Substitute(sub)
		}
		n.ParamTypes = paramTys
		n.Body = Substitute(n.Body, sub)
		return n
	case Let:
		n.Node = substituteNode(n.Node, sub)
		n.Scheme = SubstituteScheme(n.Scheme, sub)
		n.Bound = Substitute(n.Bound, sub)
		n.Body = Substitute(n.Body, sub)
		return n
	case If:
		n.Node = substituteNode(n.Node, sub)
		n.Cond = Substitute(n.Cond, sub)
		n.Then = Substitute(n.Then, sub)
		n.Else = Substitute(n.Else, sub)
		return n
	case Match:
		n.Node = substituteNode(n.Node, sub)
		n.Scrutinee = Substitute(n.Scrutinee, sub)
		arms := make([]MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = MatchArm{
				Pattern: SubstitutePattern(arm.Pattern, sub),
				Body:    Substitute(arm.Body, sub),
			}
			if arm.Guard != nil {
				arms[i].Guard = Substitute(arm.Guard, sub)
			}
		}
		n.Arms = arms
		return n
	case MakeStruct:
		n.Node = substituteNode(n.Node, sub)
		fields := make([]FieldInit, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = FieldInit{Name: f.Name, Value: Substitute(f.Value, sub)}
		}
		n.Fields = fields
		return n
	case TyAnno:
		n.Node = substituteNode(n.Node, sub)
		n.Expr = Substitute(n.Expr, sub)
		return n
	case SeqIO:
		n.Node = substituteNode(n.Node, sub)
		n.Side = Substitute(n.Side, sub)
		n.Main = Substitute(n.Main, sub)
		return n
	default:
		panic(fmt.Sprintf("typedast: unhandled typed expression %T", e))
	}
}

func substituteNode(n Node, sub types.Substitution) Node {
	if n.Type == nil {
		return n
	}
	eqs := make([]types.Eq, len(n.Eqs))
	for i, eq := range n.Eqs {
		eqs[i] = types.ApplyToEq(sub, eq)
	}
	return Node{Span: n.Span, Type: n.Type.Substitute(sub), Eqs: eqs}
}

// SubstituteScheme applies sub to a let-binding's generalized scheme.
// Vars quantifies over names sub never mentions (they're the let's own
// fresh variables, out of the checker's or instantiator's namespace), so
// rewriting Body is safe: Substitute leaves any name sub doesn't bind
// untouched.
func SubstituteScheme(s types.Scheme, sub types.Substitution) types.Scheme {
	return types.Scheme{
		Vars:  s.Vars,
		Preds: s.Preds,
		Eqs:   s.Eqs,
		Body:  s.Body.Substitute(sub),
	}
}

// SubstitutePattern applies sub to a typed pattern's field/binding types.
func SubstitutePattern(p Pattern, sub types.Substitution) Pattern {
	switch n := p.(type) {
	case VarPattern:
		n.Type = n.Type.Substitute(sub)
		return n
	case StructPattern:
		n.Type = n.Type.Substitute(sub)
		fields := make([]FieldPattern, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = FieldPattern{Name: f.Name, Pattern: SubstitutePattern(f.Pattern, sub)}
		}
		n.Fields = fields
		return n
	case UnionPattern:
		n.Type = n.Type.Substitute(sub)
		if n.Sub != nil {
			n.Sub = SubstitutePattern(n.Sub, sub)
		}
		return n
	default:
		panic(fmt.Sprintf("typedast: unhandled typed pattern %T", p))
	}
}
