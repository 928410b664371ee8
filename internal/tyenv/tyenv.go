// Package tyenv implements the type environment (spec.md §3 Type
// Environment, §4.3): the table of declared type constructors and
// aliases, plus the compiler-synthesized field accessor/punch methods a
// boxed struct declaration contributes to the global value namespace.
//
// The per-field method synthesis generalizes the teacher's builtin
// metadata registry (internal/builtins/registry.go's init-time
// Registry[name] = &BuiltinMeta{...} idiom) to per-struct, per-field
// compiler-defined methods, named after fixlang's STRUCT_GETTER_SYMBOL /
// STRUCT_SETTER_SYMBOL / STRUCT_MODIFIER_SYMBOL / STRUCT_ACT_SYMBOL /
// STRUCT_PUNCH_SYMBOL / STRUCT_PLUG_IN_SYMBOL family
// (original_source/src/ast/program.rs add_methods).
package tyenv

import (
	"fmt"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/types"
)

// Variant classifies what shape a declared type constructor has.
type Variant int

const (
	Primitive Variant = iota
	Struct
	Union
	Array
	Arrow
	Dyn
)

// FieldInfo describes one field or variant of a struct/union tycon.
type FieldInfo struct {
	Name string
	Type types.TypeNode
}

// TyConInfo is everything the rest of the pipeline needs to know about a
// declared type constructor.
type TyConInfo struct {
	Kind    types.Kind
	Variant Variant
	Boxed   bool
	TyVars  []string
	Fields  []FieldInfo
	Span    ast.Span
}

// TyAliasInfo records an alias's expansion body for ResolveAliases.
type TyAliasInfo struct {
	TyVars []string
	Body   types.TypeNode
	Span   ast.Span
}

// MethodInfo is a compiler-synthesized global value contributed by a
// struct field (getter, setter, modifier, act, punch, plug-in).
type MethodInfo struct {
	Name   string
	Scheme types.Scheme
}

// Env is the immutable type environment produced by Build.
type Env struct {
	TyCons  map[string]TyConInfo
	Aliases map[string]TyAliasInfo
	Methods map[string]MethodInfo
}

// NewBuiltins constructs the environment's builtin tycons (Int, Bool,
// String, Float, Unit, List, Array, IO) as primitive/structural entries
// with no synthesized methods, mirroring kindenv.NewEnv's builtin kind
// seeding one layer up.
func NewBuiltins() Env {
	star := types.Star{}
	unary := types.KArrow{From: star, To: star}
	env := Env{
		TyCons:  map[string]TyConInfo{},
		Aliases: map[string]TyAliasInfo{},
		Methods: map[string]MethodInfo{},
	}
	for _, name := range []string{"Int", "Bool", "String", "Float", "Unit"} {
		env.TyCons[name] = TyConInfo{Kind: star, Variant: Primitive}
	}
	env.TyCons["List"] = TyConInfo{Kind: unary, Variant: Array, TyVars: []string{"a"}}
	env.TyCons["Array"] = TyConInfo{Kind: unary, Variant: Array, TyVars: []string{"a"}}
	env.TyCons["IO"] = TyConInfo{Kind: unary, Variant: Dyn, TyVars: []string{"a"}}
	return env
}

// Build elaborates a batch of type definitions into an Env, detecting
// duplicate definitions and synthesizing field methods for boxed
// structs. builtins is merged in as the base environment.
func Build(defns []*ast.TypeDefn, builtins Env, errs *diag.Errors) Env {
	env := Env{
		TyCons:  map[string]TyConInfo{},
		Aliases: map[string]TyAliasInfo{},
		Methods: map[string]MethodInfo{},
	}
	for k, v := range builtins.TyCons {
		env.TyCons[k] = v
	}
	for k, v := range builtins.Aliases {
		env.Aliases[k] = v
	}
	for k, v := range builtins.Methods {
		env.Methods[k] = v
	}

	seen := map[string]ast.Span{}
	for _, td := range defns {
		if prior, ok := seen[td.Name]; ok {
			errs.Add(diag.New(diag.TYC004, "tyenv",
				fmt.Sprintf("duplicate type definition %q", td.Name), td.Span).
				WithSeeAlso("previous definition", prior))
			continue
		}
		seen[td.Name] = td.Span

		switch v := td.Value.(type) {
		case *ast.AliasDefn:
			if containsAssocTyExpr(v.Body) {
				errs.Add(diag.New(diag.TYC003, "tyenv",
					fmt.Sprintf("associated type not allowed in alias body of %q", td.Name), td.Span))
				continue
			}
			env.Aliases[td.Name] = TyAliasInfo{
				TyVars: td.TyVars,
				Body:   elaborateTypeExpr(v.Body),
				Span:   td.Span,
			}
		case *ast.StructDefn:
			info := TyConInfo{Variant: Struct, Boxed: v.Boxed, TyVars: td.TyVars, Span: td.Span}
			seenFields := map[string]ast.Span{}
			for _, f := range v.Fields {
				if prior, ok := seenFields[f.Name]; ok {
					errs.Add(diag.New(diag.TYC001, "tyenv",
						fmt.Sprintf("duplicate field %q in %q", f.Name, td.Name), f.Span).
						WithSeeAlso("previous field", prior))
					continue
				}
				seenFields[f.Name] = f.Span
				if containsAssocTyExpr(f.Type) {
					errs.Add(diag.New(diag.TYC003, "tyenv",
						fmt.Sprintf("associated type not allowed in field %q of %q", f.Name, td.Name), f.Span))
					continue
				}
				info.Fields = append(info.Fields, FieldInfo{Name: f.Name, Type: elaborateTypeExpr(f.Type)})
			}
			env.TyCons[td.Name] = info
			if v.Boxed {
				synthesizeStructMethods(&env, td.Name, td.TyVars, v)
			}
		case *ast.UnionDefn:
			info := TyConInfo{Variant: Union, TyVars: td.TyVars, Span: td.Span}
			seenVariants := map[string]ast.Span{}
			for _, f := range v.Variants {
				if prior, ok := seenVariants[f.Name]; ok {
					errs.Add(diag.New(diag.TYC001, "tyenv",
						fmt.Sprintf("duplicate variant %q in %q", f.Name, td.Name), f.Span).
						WithSeeAlso("previous variant", prior))
					continue
				}
				seenVariants[f.Name] = f.Span
				if containsAssocTyExpr(f.Type) {
					errs.Add(diag.New(diag.TYC003, "tyenv",
						fmt.Sprintf("associated type not allowed in variant %q of %q", f.Name, td.Name), f.Span))
					continue
				}
				info.Fields = append(info.Fields, FieldInfo{Name: f.Name, Type: elaborateTypeExpr(f.Type)})
			}
			env.TyCons[td.Name] = info
			synthesizeUnionMethods(&env, td.Name, td.TyVars, v)
		}
	}
	return env
}

// Lookup finds a declared type constructor by name.
func (e Env) Lookup(name string) (TyConInfo, bool) {
	info, ok := e.TyCons[name]
	return info, ok
}

// ResolveAliases expands any alias tycons appearing as the head of a Con
// or App chain, recursively, so every downstream consumer (unification,
// checking) only ever sees concrete tycons (spec.md §4.3).
func (e Env) ResolveAliases(t types.TypeNode) types.TypeNode {
	return e.resolveAliases(t, 0)
}

func (e Env) resolveAliases(t types.TypeNode, depth int) types.TypeNode {
	const maxDepth = 64 // guards against a cyclic alias chain
	if depth > maxDepth {
		return t
	}
	head, args := spineOf(t)
	if con, ok := head.(*types.Con); ok {
		if alias, ok := e.Aliases[con.Name]; ok && alias.Body != nil && len(args) >= len(alias.TyVars) {
			sub := types.Substitution{}
			for i, v := range alias.TyVars {
				sub[v] = args[i]
			}
			expanded := alias.Body.Substitute(sub)
			for _, extra := range args[len(alias.TyVars):] {
				expanded = &types.App{Func: expanded, Arg: extra}
			}
			return e.resolveAliases(expanded, depth+1)
		}
	}
	switch v := t.(type) {
	case *types.App:
		return &types.App{
			Func: e.resolveAliases(v.Func, depth+1),
			Arg:  e.resolveAliases(v.Arg, depth+1),
		}
	default:
		return t
	}
}

// spineOf decomposes a type into its applied head and the list of
// arguments applied to it, outermost-last (so `App(App(f,a),b)` yields
// (f, [a,b])).
func spineOf(t types.TypeNode) (types.TypeNode, []types.TypeNode) {
	var args []types.TypeNode
	for {
		app, ok := t.(*types.App)
		if !ok {
			// reverse args into application order
			for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
				args[i], args[j] = args[j], args[i]
			}
			return t, args
		}
		args = append(args, app.Arg)
		t = app.Func
	}
}

// elaborateTypeExpr lowers a surface TypeExpr (no associated types — the
// caller rejects those) into a types.TypeNode, for alias bodies, struct
// fields and union variants.
func elaborateTypeExpr(te ast.TypeExpr) types.TypeNode {
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
		return &types.App{Func: elaborateTypeExpr(t.Func), Arg: elaborateTypeExpr(t.Arg)}
	default:
		return &types.Con{Name: "Unit", K: types.Star{}}
	}
}

func containsAssocTyExpr(te ast.TypeExpr) bool {
	switch v := te.(type) {
	case *ast.AssocTyRef:
		return true
	case *ast.TyApp:
		return containsAssocTyExpr(v.Func) || containsAssocTyExpr(v.Arg)
	default:
		return false
	}
}
