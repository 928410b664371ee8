// Package kindenv implements kind inference and checking (spec.md §4.2):
// assigning every type constructor, trait parameter, and associated type
// a kind, and validating that every type expression in the program is
// well-kinded.
//
// The inference procedure mirrors the variable/substitution discipline of
// internal/checker's type inference one level up: kind variables default
// to Star when nothing constrains them further, exactly as the teacher's
// internal/types/typechecker_core.go defaults unconstrained type
// variables during generalization.
package kindenv

import (
	"fmt"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/types"
)

// Env maps type constructors, traits, and associated types to their kind.
type Env struct {
	kinds map[string]types.Kind
}

// NewEnv creates an environment seeded with the builtin kinds (Int, Bool,
// String, Float, Unit : *; List, Array, IO : * -> *; the arrow
// constructor (->) : * -> * -> *).
func NewEnv() *Env {
	e := &Env{kinds: map[string]types.Kind{}}
	star := types.Star{}
	for _, prim := range []string{"Int", "Bool", "String", "Float", "Unit"} {
		e.kinds[prim] = star
	}
	unary := types.KArrow{From: star, To: star}
	for _, ctor := range []string{"List", "Array", "IO"} {
		e.kinds[ctor] = unary
	}
	e.kinds["->"] = types.KArrow{From: star, To: types.KArrow{From: star, To: star}}
	return e
}

// Lookup returns the kind recorded for a name, keyed by the bare name it
// was declared under.
func (e *Env) Lookup(name string) (types.Kind, bool) {
	k, ok := e.kinds[name]
	return k, ok
}

// Declare records the kind of a name, used once a TypeDefn's kind has been
// inferred or a trait/associated-type signature has been checked.
func (e *Env) Declare(name string, k types.Kind) {
	e.kinds[name] = k
}

// kvar is a kind variable used only during inference; resolved kinds never
// contain one.
type kvar struct{ id int }

func (kvar) String() string         { return "?" }
func (kvar) Equals(types.Kind) bool { return false }

// inferrer threads a union-find-lite substitution over kind variables
// while walking a TypeExpr tree.
type inferrer struct {
	env  *Env
	next int
	sub  map[int]types.Kind
}

// InferTypeExpr computes the kind of a surface TypeExpr under env,
// reporting KND001/KND002 into errs. Free type variables occurring in te
// are given fresh kind variables defaulting to Star if never otherwise
// constrained (spec.md §4.2).
func InferTypeExpr(te ast.TypeExpr, env *Env, tyVarKinds map[string]types.Kind, errs *diag.Errors) types.Kind {
	inf := &inferrer{env: env, sub: map[int]types.Kind{}}
	k := inf.infer(te, tyVarKinds, errs)
	return inf.resolve(k)
}

func (inf *inferrer) fresh() types.Kind {
	inf.next++
	return kvar{id: inf.next}
}

func (inf *inferrer) resolve(k types.Kind) types.Kind {
	if kv, ok := k.(kvar); ok {
		if resolved, ok := inf.sub[kv.id]; ok {
			return inf.resolve(resolved)
		}
		return types.Star{} // default, per spec.md §4.2
	}
	if ka, ok := k.(types.KArrow); ok {
		return types.KArrow{From: inf.resolve(ka.From), To: inf.resolve(ka.To)}
	}
	return k
}

func (inf *inferrer) unify(k1, k2 types.Kind, site ast.Span, errs *diag.Errors) {
	k1 = inf.resolve(k1)
	k2 = inf.resolve(k2)
	if kv, ok := k1.(kvar); ok {
		inf.sub[kv.id] = k2
		return
	}
	if kv, ok := k2.(kvar); ok {
		inf.sub[kv.id] = k1
		return
	}
	if !k1.Equals(k2) {
		errs.Add(diag.New(diag.KND001, "kind",
			fmt.Sprintf("kind mismatch: expected %s, found %s", k1, k2), site).
			WithData(map[string]any{"expected": k1.String(), "found": k2.String()}))
	}
}

func (inf *inferrer) infer(te ast.TypeExpr, tyVarKinds map[string]types.Kind, errs *diag.Errors) types.Kind {
	switch t := te.(type) {
	case *ast.TyVarRef:
		if k, ok := tyVarKinds[t.Name]; ok {
			return k
		}
		k := inf.fresh()
		tyVarKinds[t.Name] = k
		return k
	case *ast.TyConRef:
		name := t.Resolved
		if name == "" {
			name = t.Name
		}
		if k, ok := inf.env.Lookup(name); ok {
			return k
		}
		// Unknown tycons are reported by name resolution; default to a
		// fresh kind variable here so kind-checking can proceed.
		return inf.fresh()
	case *ast.TyApp:
		fk := inf.infer(t.Func, tyVarKinds, errs)
		ak := inf.infer(t.Arg, tyVarKinds, errs)
		result := inf.fresh()
		inf.unify(fk, types.KArrow{From: ak, To: result}, t.Span, errs)
		return result
	case *ast.AssocTyRef:
		return inf.inferAssoc(t, tyVarKinds, errs)
	default:
		errs.Add(diag.New(diag.KND003, "kind", "malformed type expression", te.Position()))
		return types.Star{}
	}
}

func (inf *inferrer) inferAssoc(t *ast.AssocTyRef, tyVarKinds map[string]types.Kind, errs *diag.Errors) types.Kind {
	name := t.Resolved
	if name == "" {
		name = t.Name
	}
	declKind, ok := inf.env.Lookup(name)
	if !ok {
		return inf.fresh()
	}
	k := declKind
	for _, arg := range t.Args {
		ak := inf.infer(arg, tyVarKinds, errs)
		ka, ok := k.(types.KArrow)
		if !ok {
			errs.Add(diag.New(diag.KND002, "kind",
				fmt.Sprintf("associated type %s applied to too many arguments", t.Name), t.Span).
				WithData(map[string]any{"name": t.Name, "got": len(t.Args)}))
			return types.Star{}
		}
		inf.unify(ka.From, ak, t.Span, errs)
		k = ka.To
	}
	if _, stillArrow := k.(types.KArrow); stillArrow {
		errs.Add(diag.New(diag.KND002, "kind",
			fmt.Sprintf("associated type %s is unsaturated", t.Name), t.Span).
			WithData(map[string]any{"name": t.Name, "got": len(t.Args)}))
	}
	return k
}

