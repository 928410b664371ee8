package tyenv

import (
	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/kindenv"
	"github.com/sunholo/corelang/internal/types"
)

// AssocOwners maps an associated type's name to the name of the trait
// that declares it (both bare, as declared), so ElaborateType
// can fill in types.AssocTy.Trait — information the surface
// ast.AssocTyRef itself never carries (only Name/Resolved/Args).
type AssocOwners map[string]string

// ElaborateType lowers a resolved surface TypeExpr (every TyConRef/
// AssocTyRef already carrying its Resolved name) into a
// kinded types.TypeNode, consulting kinds for declared type
// constructors' own kinds and tyVarKinds for a scheme's locally bound
// variables. This generalizes the package's own unexported
// elaborateTypeExpr (used for alias bodies, struct fields and union
// variants, none of which may contain an AssocTyRef) to the full surface
// grammar checking needs.
func ElaborateType(te ast.TypeExpr, kinds *kindenv.Env, tyVarKinds map[string]types.Kind, owners AssocOwners) types.TypeNode {
	switch t := te.(type) {
	case *ast.TyVarRef:
		k, ok := tyVarKinds[t.Name]
		if !ok {
			k = types.Star{}
		}
		return &types.Var{Name: t.Name, K: k}
	case *ast.TyConRef:
		name := t.Resolved
		if name == "" {
			name = t.Name
		}
		k, ok := kinds.Lookup(name)
		if !ok {
			k = types.Star{}
		}
		return &types.Con{Name: name, K: k}
	case *ast.TyApp:
		return &types.App{
			Func: ElaborateType(t.Func, kinds, tyVarKinds, owners),
			Arg:  ElaborateType(t.Arg, kinds, tyVarKinds, owners),
		}
	case *ast.AssocTyRef:
		name := t.Resolved
		if name == "" {
			name = t.Name
		}
		args := make([]types.TypeNode, len(t.Args))
		for i, a := range t.Args {
			args[i] = ElaborateType(a, kinds, tyVarKinds, owners)
		}
		k, ok := kinds.Lookup(name)
		if !ok {
			k = types.Star{}
		}
		return &types.AssocTy{Trait: owners[name], Name: name, Args: args, K: k}
	default:
		return &types.Con{Name: "Unit", K: types.Star{}}
	}
}

// ElaborateScheme lowers a resolved surface SchemeExpr into a
// types.Scheme, assigning each quantified variable the kind kindenv
// assigned it while checking the declaration (tyVarKinds), defaulting to
// Star for any variable kindenv never saw (e.g. a scheme with no
// corresponding TypeDefn/TraitDefn kind-checking pass, such as a
// standalone value declaration's own signature).
func ElaborateScheme(se *ast.SchemeExpr, kinds *kindenv.Env, tyVarKinds map[string]types.Kind, owners AssocOwners) types.Scheme {
	preds := make([]types.Pred, len(se.Preds))
	for i, p := range se.Preds {
		preds[i] = types.Pred{Trait: p.Trait, Type: ElaborateType(p.Type, kinds, tyVarKinds, owners)}
	}
	eqs := make([]types.Eq, len(se.Eqs))
	for i, eq := range se.Eqs {
		args := make([]types.TypeNode, len(eq.Args))
		for j, a := range eq.Args {
			args[j] = ElaborateType(a, kinds, tyVarKinds, owners)
		}
		eqs[i] = types.Eq{Assoc: eq.Assoc, Args: args, Value: ElaborateType(eq.Value, kinds, tyVarKinds, owners)}
	}
	body := ElaborateType(se.Body, kinds, tyVarKinds, owners)
	return types.Scheme{Vars: se.Vars, Preds: preds, Eqs: eqs, Body: body}
}
