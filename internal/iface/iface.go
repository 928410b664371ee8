// Package iface builds a module's export surface (spec.md §6 "External
// Interfaces"): for each `export` statement, the concrete function type
// its declared scheme validates to.
//
// Grounded on the teacher's internal/iface/builder.go, which built a
// similar per-module Iface from a Core program's typed bindings; this
// package does the same over the checked scheme of a global value
// instead of a Core binding, since this repo has no Core IR (codegen and
// the runtime are out of scope).
package iface

import (
	"fmt"

	"github.com/sunholo/corelang/internal/types"
)

// ExportedFunctionType is the concrete, monomorphic-enough shape an
// exported value's scheme validates to: either an IO action producing
// codom, or a plain function, both flattened to a parameter list
// (spec.md §6).
type ExportedFunctionType struct {
	Name     string
	Params   []types.TypeNode
	Result   types.TypeNode
	IsIO     bool
	TypeVars []string
}

// Validate classifies scheme as either `IO codom` or a pure arrow chain
// and flattens its domain into Params, the way
// ExportedFunctionType::validate does in spec.md §6. A scheme that is
// neither (a bare non-function, non-IO value) validates with no Params
// and its body as Result. A scheme that still carries trait predicates
// or equalities an export boundary can't discharge is rejected.
func Validate(name string, scheme types.Scheme) (ExportedFunctionType, error) {
	if len(scheme.Preds) > 0 {
		return ExportedFunctionType{}, fmt.Errorf("exported value %q has unresolved trait predicates: %v", name, scheme.Preds)
	}
	if len(scheme.Eqs) > 0 {
		return ExportedFunctionType{}, fmt.Errorf("exported value %q has unresolved associated-type equalities: %v", name, scheme.Eqs)
	}

	body := scheme.Body
	if app, ok := body.(*types.App); ok {
		if con, ok := app.Func.(*types.Con); ok && con.Name == "IO" {
			return ExportedFunctionType{
				Name:     name,
				Result:   app.Arg,
				IsIO:     true,
				TypeVars: scheme.Vars,
			}, nil
		}
	}

	var params []types.TypeNode
	cur := body
	for {
		dom, cod, ok := types.AsArrow(cur)
		if !ok {
			break
		}
		params = append(params, dom)
		cur = cod
	}

	return ExportedFunctionType{
		Name:     name,
		Params:   params,
		Result:   cur,
		IsIO:     false,
		TypeVars: scheme.Vars,
	}, nil
}
