package kindenv

import (
	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/types"
)

// Build infers and validates the kinds of every type constructor, trait
// parameter, and associated type declared across modules (spec.md §4.2),
// returning an Env populated with both the builtins and every user
// declaration.
func Build(modules []*ast.Module) (*Env, diag.Errors) {
	var errs diag.Errors
	env := NewEnv()

	// First pass: declare each tycon/trait/assoc-type with its default
	// kind (`* -> ... -> *` by arity, `*` for a trait) so forward
	// references within the same batch resolve; second pass kind-checks
	// field, variant, alias-body and trait-method type expressions
	// against those declarations.
	for _, m := range modules {
		for _, td := range m.Types {
			env.Declare(td.Name, starForArity(len(td.TyVars)))
		}
		for _, tr := range m.Traits {
			env.Declare(tr.Name, types.Star{})
			for _, at := range tr.AssocTypes {
				env.Declare(at.Name, starForArity(at.Arity))
			}
		}
	}

	for _, m := range modules {
		for _, td := range m.Types {
			tyVarKinds := map[string]types.Kind{}
			switch v := td.Value.(type) {
			case *ast.StructDefn:
				for _, f := range v.Fields {
					InferTypeExpr(f.Type, env, tyVarKinds, &errs)
				}
			case *ast.UnionDefn:
				for _, f := range v.Variants {
					InferTypeExpr(f.Type, env, tyVarKinds, &errs)
				}
			case *ast.AliasDefn:
				InferTypeExpr(v.Body, env, tyVarKinds, &errs)
			}
		}
		for _, tr := range m.Traits {
			tyVarKinds := map[string]types.Kind{tr.TyVar: types.Star{}}
			for _, ms := range tr.Methods {
				if ms.Scheme != nil {
					InferTypeExpr(ms.Scheme.Body, env, tyVarKinds, &errs)
				}
			}
		}
	}

	return env, errs
}

// starForArity builds the kind `* -> * -> ... -> *` with n arrows, the
// default kind assigned to a type constructor declared with n type
// parameters until a richer signature overrides it.
func starForArity(n int) types.Kind {
	k := types.Kind(types.Star{})
	for i := 0; i < n; i++ {
		k = types.KArrow{From: types.Star{}, To: k}
	}
	return k
}
