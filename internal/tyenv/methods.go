package tyenv

import (
	"fmt"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/types"
)

// Compiler-synthesized method name prefixes, named after fixlang's
// STRUCT_GETTER_SYMBOL / STRUCT_SETTER_SYMBOL / STRUCT_MODIFIER_SYMBOL /
// STRUCT_ACT_SYMBOL / STRUCT_PUNCH_SYMBOL / STRUCT_PLUG_IN_SYMBOL family
// (original_source/src/ast/program.rs add_methods).
const (
	getterPrefix  = "@"
	setterPrefix  = "set_"
	modifierPrefix = "mod_"
	actPrefix     = "act_"
	punchPrefix   = "#punch_"
	plugInPrefix  = "#plug_in_"

	unionCtorPrefix  = ""
	unionAsPrefix    = "as_"
	unionIsPrefix    = "is_"
	unionModPrefix   = "mod_"
)

// selfType builds the applied type tyName a1 a2 ... for a declaration
// with the given type parameters, e.g. Con "Box" for an arity-0 type or
// App(App(Con "Pair", Var "a"), Var "b") for `type Pair a b`.
func selfType(tyName string, tyVars []string) types.TypeNode {
	k := types.Kind(types.Star{})
	for range tyVars {
		k = types.KArrow{From: types.Star{}, To: k}
	}
	var t types.TypeNode = &types.Con{Name: tyName, K: k}
	for _, v := range tyVars {
		t = &types.App{Func: t, Arg: &types.Var{Name: v, K: types.Star{}}}
	}
	return t
}

// closeOver quantifies body over tyVars, or leaves it monomorphic when
// the owning type declares none.
func closeOver(tyVars []string, body types.TypeNode) types.Scheme {
	if len(tyVars) == 0 {
		return types.Monomorphic(body)
	}
	return types.NewScheme(tyVars, nil, nil, body)
}

// synthesizeStructMethods registers the closed set of compiler-defined
// methods a boxed struct field contributes: a getter, a setter, a
// modifier, an act_ method, and punch/plug-in pairs (each with a
// force-unique variant), following fixlang's add_methods. The act_
// method has the modifier's scheme, (F -> F) -> T -> T; it is not
// generalized over a functor.
func synthesizeStructMethods(env *Env, tyName string, tyVars []string, defn *ast.StructDefn) {
	self := selfType(tyName, tyVars)
	for i, f := range defn.Fields {
		fieldTy := elaborateTypeExpr(f.Type)

		env.Methods[getterPrefix+f.Name] = MethodInfo{
			Name:   getterPrefix + f.Name,
			Scheme: closeOver(tyVars, types.Arrow(self, fieldTy)),
		}
		env.Methods[setterPrefix+f.Name] = MethodInfo{
			Name:   setterPrefix + f.Name,
			Scheme: closeOver(tyVars, types.Arrow(fieldTy, types.Arrow(self, self))),
		}
		env.Methods[modifierPrefix+f.Name] = MethodInfo{
			Name: modifierPrefix + f.Name,
			Scheme: closeOver(tyVars,
				types.Arrow(types.Arrow(fieldTy, fieldTy), types.Arrow(self, self))),
		}
		env.Methods[actPrefix+f.Name] = MethodInfo{
			Name: actPrefix + f.Name,
			Scheme: closeOver(tyVars,
				types.Arrow(types.Arrow(fieldTy, fieldTy), types.Arrow(self, self))),
		}

		// Punched struct: a view of tyName with field i logically removed
		// (spec.md's "Punched struct"), registered as its own tycon so the
		// punch/plug-in pair can be typed against it. It shares tyName's
		// type parameters since its remaining fields may mention them.
		punchedName := fmt.Sprintf("%s#punch%d", tyName, i)
		punched := TyConInfo{
			Variant: Struct,
			Boxed:   defn.Boxed,
			TyVars:  tyVars,
		}
		for j, other := range defn.Fields {
			if j == i {
				continue
			}
			punched.Fields = append(punched.Fields, FieldInfo{Name: other.Name, Type: elaborateTypeExpr(other.Type)})
		}
		env.TyCons[punchedName] = punched
		punchedTy := selfType(punchedName, tyVars)

		env.Methods[punchPrefix+f.Name] = MethodInfo{
			Name:   punchPrefix + f.Name,
			Scheme: closeOver(tyVars, types.Arrow(self, punchedTy)),
		}
		env.Methods[punchPrefix+f.Name+"!"] = MethodInfo{
			Name:   punchPrefix + f.Name + "!",
			Scheme: closeOver(tyVars, types.Arrow(self, punchedTy)),
		}
		env.Methods[plugInPrefix+f.Name] = MethodInfo{
			Name: plugInPrefix + f.Name,
			Scheme: closeOver(tyVars,
				types.Arrow(fieldTy, types.Arrow(punchedTy, self))),
		}
		env.Methods[plugInPrefix+f.Name+"!"] = MethodInfo{
			Name: plugInPrefix + f.Name + "!",
			Scheme: closeOver(tyVars,
				types.Arrow(fieldTy, types.Arrow(punchedTy, self))),
		}
	}
}

// synthesizeUnionMethods registers the closed set of compiler-defined
// methods a union variant contributes: a constructor, a predicate, an
// unsafe projection, and a modifier (fixlang's v/as_v/is_v/mod_v family).
func synthesizeUnionMethods(env *Env, tyName string, tyVars []string, defn *ast.UnionDefn) {
	self := selfType(tyName, tyVars)
	boolTy := &types.Con{Name: "Bool", K: types.Star{}}
	for _, f := range defn.Variants {
		variantTy := elaborateTypeExpr(f.Type)

		env.Methods[unionCtorPrefix+f.Name] = MethodInfo{
			Name:   f.Name,
			Scheme: closeOver(tyVars, types.Arrow(variantTy, self)),
		}
		env.Methods[unionIsPrefix+f.Name] = MethodInfo{
			Name:   unionIsPrefix + f.Name,
			Scheme: closeOver(tyVars, types.Arrow(self, boolTy)),
		}
		env.Methods[unionAsPrefix+f.Name] = MethodInfo{
			Name:   unionAsPrefix + f.Name,
			Scheme: closeOver(tyVars, types.Arrow(self, variantTy)),
		}
		env.Methods[unionModPrefix+f.Name] = MethodInfo{
			Name: unionModPrefix + f.Name,
			Scheme: closeOver(tyVars,
				types.Arrow(types.Arrow(variantTy, variantTy), types.Arrow(self, self))),
		}
	}
}
