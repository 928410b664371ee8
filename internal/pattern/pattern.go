// Package pattern implements pattern typing, duplicate-binding
// detection, and union-match exhaustiveness checking (spec.md §4.6).
//
// Exhaustiveness here follows the teacher's
// internal/elaborate/exhaustiveness.go universe-construction-and-subtract
// algorithm (buildUniverse over the scrutinee type, then subtract every
// arm's covered patterns), narrowed from the teacher's full literal/list/
// tuple pattern universe to the spec's top-level-only union-variant
// universe; nested sub-patterns reuse the teacher's
// internal/dtree/decision_tree.go recursive-descent shape for walking
// struct-field sub-patterns without repeating the exhaustiveness pass.
package pattern

import (
	"fmt"
	"sort"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/tyenv"
	"github.com/sunholo/corelang/internal/types"
)

// Bindings maps each variable bound by a pattern to its type.
type Bindings map[string]types.TypeNode

// TypeAgainst types p against the scrutinee type ty, recording every
// bound variable. Missing struct fields are allowed (they simply aren't
// bound); extra or misspelled fields are errors (spec.md §4.6).
func TypeAgainst(p ast.Pattern, ty types.TypeNode, env *tyenv.Env, errs *diag.Errors) Bindings {
	b := Bindings{}
	typeAgainst(p, ty, env, b, errs)
	return b
}

func typeAgainst(p ast.Pattern, ty types.TypeNode, env *tyenv.Env, b Bindings, errs *diag.Errors) {
	switch pat := p.(type) {
	case *ast.VarPattern:
		b[pat.Name] = ty
	case *ast.StructPattern:
		name := pat.Resolved
		if name == "" {
			name = pat.TyCon
		}
		info, ok := env.Lookup(name)
		if !ok || info.Variant != tyenv.Struct {
			errs.Add(diag.New(diag.CHK003, "pattern",
				fmt.Sprintf("%q is not a struct type", name), pat.Span))
			return
		}
		fieldTypes := map[string]types.TypeNode{}
		for _, f := range info.Fields {
			fieldTypes[f.Name] = f.Type
		}
		for _, fp := range pat.Fields {
			ft, ok := fieldTypes[fp.Name]
			if !ok {
				errs.Add(diag.New(diag.CHK007, "pattern",
					fmt.Sprintf("%q has no field %q", name, fp.Name), fp.Span))
				continue
			}
			typeAgainst(fp.Pattern, ft, env, b, errs)
		}
	case *ast.UnionPattern:
		// Resolved carries the union tycon name that declares this
		// variant (filled in by name resolution); it is always present
		// by the time checking runs.
		info, ok := env.Lookup(pat.Resolved)
		if !ok || info.Variant != tyenv.Union {
			errs.Add(diag.New(diag.CHK004, "pattern",
				fmt.Sprintf("%q is not a known union variant", pat.Variant), pat.Span))
			return
		}
		var variantTy types.TypeNode
		for _, f := range info.Fields {
			if f.Name == pat.Variant {
				variantTy = f.Type
			}
		}
		if variantTy == nil {
			errs.Add(diag.New(diag.CHK004, "pattern",
				fmt.Sprintf("%q is not a variant of %s", pat.Variant, pat.Resolved), pat.Span))
			return
		}
		if pat.Sub != nil {
			typeAgainst(pat.Sub, variantTy, env, b, errs)
		}
	default:
		errs.Add(diag.New(diag.CHK005, "pattern", "malformed pattern", p.Position()))
	}
}

// CheckUniqueness rejects a pattern that binds the same variable name
// more than once (PAT001).
func CheckUniqueness(p ast.Pattern) diag.Errors {
	var errs diag.Errors
	seen := map[string]ast.Span{}
	checkUniqueness(p, seen, &errs)
	return errs
}

func checkUniqueness(p ast.Pattern, seen map[string]ast.Span, errs *diag.Errors) {
	switch pat := p.(type) {
	case *ast.VarPattern:
		if prior, ok := seen[pat.Name]; ok {
			errs.Add(diag.New(diag.PAT001, "pattern",
				fmt.Sprintf("%q is bound more than once in this pattern", pat.Name), pat.Span).
				WithSeeAlso("previous binding", prior))
			return
		}
		seen[pat.Name] = pat.Span
	case *ast.StructPattern:
		for _, f := range pat.Fields {
			checkUniqueness(f.Pattern, seen, errs)
		}
	case *ast.UnionPattern:
		if pat.Sub != nil {
			checkUniqueness(pat.Sub, seen, errs)
		}
	}
}

// CheckExhaustive verifies that arms cover every variant of scrutTy's
// union, reporting PAT002 with the sorted list of missing variant names
// if not, or PAT003 if an arm names an unknown variant. Exhaustiveness is
// checked only at the top level; nested patterns are not re-checked
// (spec.md §4.6).
func CheckExhaustive(scrutTy types.TypeNode, arms []ast.MatchArm, env *tyenv.Env) diag.Errors {
	var errs diag.Errors
	head := headTyConName(scrutTy)
	info, ok := env.Lookup(head)
	if !ok || info.Variant != tyenv.Union {
		return errs // non-union scrutinees (struct/var patterns) always match
	}

	all := map[string]bool{}
	for _, f := range info.Fields {
		all[f.Name] = true
	}
	covered := map[string]bool{}
	hasCatchAll := false
	for _, arm := range arms {
		if arm.Guard != nil {
			continue // a guarded arm can't be assumed to fully cover its pattern
		}
		switch pat := arm.Pattern.(type) {
		case *ast.VarPattern:
			hasCatchAll = true
		case *ast.UnionPattern:
			if !all[pat.Variant] {
				errs.Add(diag.New(diag.PAT003, "pattern",
					fmt.Sprintf("%q is not a variant of %s", pat.Variant, head), pat.Span))
				continue
			}
			covered[pat.Variant] = true
		}
	}
	if hasCatchAll {
		return errs
	}

	var missing []string
	for name := range all {
		if !covered[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		errs.Add(diag.New(diag.PAT002, "pattern",
			fmt.Sprintf("non-exhaustive match on %s: missing %v", head, missing), ast.Span{}))
	}
	return errs
}

func headTyConName(t types.TypeNode) string {
	switch v := t.(type) {
	case *types.Con:
		return v.Name
	case *types.App:
		return headTyConName(v.Func)
	default:
		return ""
	}
}
