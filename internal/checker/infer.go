package checker

import (
	"fmt"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

// infer computes the type of e under the current scope and substitution,
// returning the typed node, its type, and the extended substitution
// (spec.md §4.3's per-expression rules).
func (c *Checker) infer(e ast.Expr, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	switch n := e.(type) {
	case *ast.Var:
		return c.inferVar(n, sub, errs)
	case *ast.Lit:
		return c.inferLit(n), c.litType(n), sub
	case *ast.App:
		return c.inferApp(n, sub, errs)
	case *ast.Lambda:
		return c.inferLambda(n, sub, errs)
	case *ast.Let:
		return c.inferLet(n, sub, errs)
	case *ast.If:
		return c.inferIf(n, sub, errs)
	case *ast.Match:
		return c.inferMatch(n, sub, errs)
	case *ast.MakeStruct:
		return c.inferMakeStruct(n, sub, errs)
	case *ast.TyAnno:
		return c.inferTyAnno(n, sub, errs)
	case *ast.Eval:
		return c.inferEval(n, sub, errs)
	default:
		errs.Add(diag.New(diag.CHK005, "typecheck", "unsupported expression form", e.Position()))
		t := c.fresh()
		return typedast.Lit{Node: typedast.Node{Span: e.Position(), Type: t}}, t, sub
	}
}

func (c *Checker) name(resolved, name string) string {
	if resolved != "" {
		return resolved
	}
	return name
}

func (c *Checker) inferVar(n *ast.Var, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	name := c.name(n.Resolved, n.Name)
	if t, ok := c.lookupLocal(name); ok {
		t = t.Substitute(sub)
		return typedast.Var{Node: typedast.Node{Span: n.Span, Type: t}, Name: name}, t, sub
	}
	if g, ok := c.Globals[name]; ok {
		instantiated, preds, _ := g.Scheme.Instantiate(func(types.Kind) *types.Var { return c.fresh() })
		c.obligations = append(c.obligations, preds...)
		return typedast.Var{Node: typedast.Node{Span: n.Span, Type: instantiated}, Name: name}, instantiated, sub
	}
	errs.Add(diag.New(diag.RES001, "typecheck", fmt.Sprintf("unknown name %q", name), n.Span))
	t := c.fresh()
	return typedast.Var{Node: typedast.Node{Span: n.Span, Type: t}, Name: name}, t, sub
}

func (c *Checker) litType(n *ast.Lit) types.TypeNode {
	switch n.Kind {
	case ast.LitInt:
		return &types.Con{Name: "Int", K: types.Star{}}
	case ast.LitFloat:
		return &types.Con{Name: "Float", K: types.Star{}}
	case ast.LitBool:
		return &types.Con{Name: "Bool", K: types.Star{}}
	case ast.LitString:
		return &types.Con{Name: "String", K: types.Star{}}
	default:
		return &types.Con{Name: "Unit", K: types.Star{}}
	}
}

func (c *Checker) inferLit(n *ast.Lit) typedast.Expr {
	return typedast.Lit{Node: typedast.Node{Span: n.Span, Type: c.litType(n)}, Value: n.Value}
}

func (c *Checker) inferApp(n *ast.App, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	typedFunc, funcTy, sub := c.infer(n.Func, sub, errs)
	var typedArgs []typedast.Expr
	argTys := make([]types.TypeNode, len(n.Args))
	for i, a := range n.Args {
		var ty types.TypeNode
		var typedA typedast.Expr
		typedA, ty, sub = c.infer(a, sub, errs)
		typedArgs = append(typedArgs, typedA)
		argTys[i] = ty
	}
	result := c.fresh()
	wantFunc := types.TypeNode(result)
	for i := len(argTys) - 1; i >= 0; i-- {
		wantFunc = types.Arrow(argTys[i], wantFunc)
	}
	var err error
	sub, err = types.Unify(funcTy.Substitute(sub), wantFunc, sub)
	if err != nil {
		errs.Add(c.unifyErrorReport(err, n.Span))
	}
	resultTy := result.Substitute(sub)
	return typedast.App{Node: typedast.Node{Span: n.Span, Type: resultTy}, Func: typedFunc, Args: typedArgs}, resultTy, sub
}

func (c *Checker) inferLambda(n *ast.Lambda, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	c.pushScope()
	defer c.popScope()
	paramTys := make([]types.TypeNode, len(n.Params))
	for i, p := range n.Params {
		pt := c.fresh()
		paramTys[i] = pt
		c.bind(p, pt)
	}
	typedBody, bodyTy, sub := c.infer(n.Body, sub, errs)
	fnTy := bodyTy
	for i := len(paramTys) - 1; i >= 0; i-- {
		fnTy = types.Arrow(paramTys[i].Substitute(sub), fnTy)
	}
	return typedast.Lambda{
		Node:       typedast.Node{Span: n.Span, Type: fnTy},
		Params:     n.Params,
		ParamTypes: paramTys,
		Body:       typedBody,
	}, fnTy, sub
}

func (c *Checker) inferLet(n *ast.Let, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	typedBound, boundTy, sub := c.infer(n.Bound, sub, errs)
	scheme := types.Monomorphic(boundTy.Substitute(sub))

	c.pushScope()
	defer c.popScope()
	name := bindPattern(c, n.Pattern, boundTy.Substitute(sub))

	typedBody, bodyTy, sub := c.infer(n.Body, sub, errs)
	return typedast.Let{
		Node:   typedast.Node{Span: n.Span, Type: bodyTy},
		Name:   name,
		Scheme: scheme,
		Bound:  typedBound,
		Body:   typedBody,
	}, bodyTy, sub
}

// bindPattern binds a let-pattern's variable(s) into the current scope
// frame, returning a display name for the typed node. Only VarPattern is
// supported at let-binding position; struct/union patterns in let
// position are rejected elsewhere by the parser-level grammar (out of
// this package's scope).
func bindPattern(c *Checker, p ast.Pattern, ty types.TypeNode) string {
	if vp, ok := p.(*ast.VarPattern); ok {
		c.bind(vp.Name, ty)
		return vp.Name
	}
	return "_"
}

func (c *Checker) inferIf(n *ast.If, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	typedCond, condTy, sub := c.infer(n.Cond, sub, errs)
	var err error
	sub, err = types.Unify(condTy, &types.Con{Name: "Bool", K: types.Star{}}, sub)
	if err != nil {
		errs.Add(c.unifyErrorReport(err, n.Cond.Position()))
	}
	typedThen, thenTy, sub := c.infer(n.Then, sub, errs)
	typedElse, elseTy, sub := c.infer(n.Else, sub, errs)
	sub, err = types.Unify(thenTy.Substitute(sub), elseTy.Substitute(sub), sub)
	if err != nil {
		errs.Add(c.unifyErrorReport(err, n.Span))
	}
	resultTy := thenTy.Substitute(sub)
	return typedast.If{
		Node: typedast.Node{Span: n.Span, Type: resultTy},
		Cond: typedCond, Then: typedThen, Else: typedElse,
	}, resultTy, sub
}

func (c *Checker) inferTyAnno(n *ast.TyAnno, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	typedInner, innerTy, sub := c.infer(n.Expr, sub, errs)
	annoTy := elaborateSurfaceType(n.Type)
	var err error
	sub, err = types.Unify(innerTy, annoTy, sub)
	if err != nil {
		errs.Add(c.unifyErrorReport(err, n.Span))
	}
	resultTy := annoTy.Substitute(sub)
	return typedast.TyAnno{Node: typedast.Node{Span: n.Span, Type: resultTy}, Expr: typedInner}, resultTy, sub
}

func (c *Checker) inferEval(n *ast.Eval, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	typedSide, sideTy, sub := c.infer(n.Side, sub, errs)
	a := c.fresh()
	ioOfA := &types.App{Func: &types.Con{Name: "IO", K: types.KArrow{From: types.Star{}, To: types.Star{}}}, Arg: a}
	var err error
	sub, err = types.Unify(sideTy.Substitute(sub), ioOfA, sub)
	if err != nil {
		errs.Add(diag.New(diag.CHK013, "typecheck",
			fmt.Sprintf("eval's side expression must have type `IO _`, found %s", sideTy), n.Side.Position()))
	}
	typedMain, mainTy, sub := c.infer(n.Main, sub, errs)
	resultTy := mainTy.Substitute(sub)
	return typedast.SeqIO{Node: typedast.Node{Span: n.Span, Type: resultTy}, Side: typedSide, Main: typedMain}, resultTy, sub
}

func elaborateSurfaceType(te ast.TypeExpr) types.TypeNode {
	switch t := te.(type) {
	case *ast.TyVarRef:
		return &types.Var{Name: t.Name, K: types.Star{}}
	case *ast.TyConRef:
		name := t.Resolved
		if name == "" {
			name = t.Name
		}
		return &types.Con{Name: name, K: types.Star{}}
	case *ast.TyApp:
		return &types.App{Func: elaborateSurfaceType(t.Func), Arg: elaborateSurfaceType(t.Arg)}
	case *ast.AssocTyRef:
		args := make([]types.TypeNode, len(t.Args))
		for i, a := range t.Args {
			args[i] = elaborateSurfaceType(a)
		}
		name := t.Resolved
		if name == "" {
			name = t.Name
		}
		return &types.AssocTy{Name: name, Args: args, K: types.Star{}}
	default:
		return &types.Con{Name: "Unit", K: types.Star{}}
	}
}

// substituteTyped finalizes e's types against the substitution CheckGlobal
// ends with. Inference threads a running substitution, but extends it as
// later sibling expressions unify (e.g. an App's later argument, or a
// Match's later arm) — a node built earlier still carries whatever the
// substitution looked like at the moment it was constructed. This walks
// the whole tree once more, rewriting every node's Type/Eqs against the
// final substitution.
func substituteTyped(e typedast.Expr, sub types.Substitution) typedast.Expr {
	return typedast.Substitute(e, sub)
}
