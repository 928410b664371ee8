package checker

import (
	"fmt"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/pattern"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

func (c *Checker) inferMatch(n *ast.Match, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	typedScrutinee, scrutTy, sub := c.infer(n.Scrutinee, sub, errs)
	scrutTy = scrutTy.Substitute(sub)

	exhaustErrs := pattern.CheckExhaustive(scrutTy, n.Arms, c.Types)
	errs.Merge(&exhaustErrs)

	resultTy := c.fresh()
	var typedArms []typedast.MatchArm
	for _, arm := range n.Arms {
		uniqErrs := pattern.CheckUniqueness(arm.Pattern)
		errs.Merge(&uniqErrs)

		c.pushScope()
		bindings := pattern.TypeAgainst(arm.Pattern, scrutTy, c.Types, errs)
		for name, ty := range bindings {
			c.bind(name, ty)
		}
		typedPat := typeArmPattern(arm.Pattern, bindings)

		var typedGuard typedast.Expr
		if arm.Guard != nil {
			var guardTy types.TypeNode
			typedGuard, guardTy, sub = c.infer(arm.Guard, sub, errs)
			var err error
			sub, err = types.Unify(guardTy, &types.Con{Name: "Bool", K: types.Star{}}, sub)
			if err != nil {
				errs.Add(c.unifyErrorReport(err, arm.Guard.Position()))
			}
		}

		var typedBody typedast.Expr
		var bodyTy types.TypeNode
		typedBody, bodyTy, sub = c.infer(arm.Body, sub, errs)
		var err error
		sub, err = types.Unify(bodyTy.Substitute(sub), resultTy.Substitute(sub), sub)
		if err != nil {
			errs.Add(c.unifyErrorReport(err, arm.Span))
		}
		c.popScope()

		typedArms = append(typedArms, typedast.MatchArm{Pattern: typedPat, Guard: typedGuard, Body: typedBody})
	}

	result := resultTy.Substitute(sub)
	return typedast.Match{
		Node:       typedast.Node{Span: n.Span, Type: result},
		Scrutinee:  typedScrutinee,
		Arms:       typedArms,
		Exhaustive: true,
	}, result, sub
}

func typeArmPattern(p ast.Pattern, bindings pattern.Bindings) typedast.Pattern {
	switch pat := p.(type) {
	case *ast.VarPattern:
		return typedast.VarPattern{Name: pat.Name, Type: bindings[pat.Name]}
	case *ast.StructPattern:
		name := pat.Resolved
		if name == "" {
			name = pat.TyCon
		}
		var fields []typedast.FieldPattern
		for _, f := range pat.Fields {
			fields = append(fields, typedast.FieldPattern{Name: f.Name, Pattern: typeArmPattern(f.Pattern, bindings)})
		}
		return typedast.StructPattern{TyCon: name, Fields: fields}
	case *ast.UnionPattern:
		var sub typedast.Pattern
		if pat.Sub != nil {
			sub = typeArmPattern(pat.Sub, bindings)
		}
		return typedast.UnionPattern{Variant: pat.Variant, Sub: sub}
	default:
		return typedast.VarPattern{Name: "_"}
	}
}

func (c *Checker) inferMakeStruct(n *ast.MakeStruct, sub types.Substitution, errs *diag.Errors) (typedast.Expr, types.TypeNode, types.Substitution) {
	name := n.TyCon
	info, ok := c.Types.Lookup(name)
	if !ok {
		errs.Add(diag.New(diag.RES001, "typecheck", fmt.Sprintf("unknown type %q", name), n.Span))
		t := c.fresh()
		return typedast.MakeStruct{Node: typedast.Node{Span: n.Span, Type: t}, TyCon: name}, t, sub
	}
	fieldTypes := map[string]types.TypeNode{}
	for _, f := range info.Fields {
		fieldTypes[f.Name] = f.Type
	}
	seen := map[string]bool{}
	var typedFields []typedast.FieldInit
	for _, fi := range n.Fields {
		ft, ok := fieldTypes[fi.Name]
		if !ok {
			errs.Add(diag.New(diag.CHK007, "typecheck", fmt.Sprintf("%q has no field %q", name, fi.Name), fi.Span))
			continue
		}
		seen[fi.Name] = true
		var valTy types.TypeNode
		var typedVal typedast.Expr
		typedVal, valTy, sub = c.infer(fi.Value, sub, errs)
		var err error
		sub, err = types.Unify(valTy.Substitute(sub), ft, sub)
		if err != nil {
			errs.Add(c.unifyErrorReport(err, fi.Span))
		}
		typedFields = append(typedFields, typedast.FieldInit{Name: fi.Name, Value: typedVal})
	}
	for _, f := range info.Fields {
		if !seen[f.Name] {
			errs.Add(diag.New(diag.CHK006, "typecheck", fmt.Sprintf("missing field %q in %s literal", f.Name, name), n.Span))
		}
	}
	resultTy := &types.Con{Name: name, K: types.Star{}}
	return typedast.MakeStruct{Node: typedast.Node{Span: n.Span, Type: resultTy}, TyCon: name, Fields: typedFields}, resultTy, sub
}
