// Package traitenv implements the trait environment (spec.md §4.4): the
// table of declared traits and their instances, instance-addition
// validation (overlap, orphan, unrelated-method), instance resolution,
// and associated-type reduction.
//
// The instance table generalizes the teacher's fixed built-in dictionary
// registry (internal/types/dictionaries.go's DictionaryRegistry /
// MakeDictionaryKey, which only ever held the handful of built-in
// Num/Eq/Ord instances) to arbitrary user-declared traits and instances;
// the orphan check follows the rule fixlang's ast/program.rs documents on
// Symbol.dependent_modules.
package traitenv

import (
	"fmt"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/types"
)

// AssocTyDecl is a trait's declared associated type signature.
type AssocTyDecl struct {
	Name  string
	Arity int
}

// TraitInfo is everything known about a declared trait.
type TraitInfo struct {
	Param      string
	Methods    map[string]types.Scheme
	AssocTypes map[string]AssocTyDecl
	Module     string
}

// AssocTypeImpl is one instance's implementation of an associated type.
type AssocTypeImpl struct {
	Args  []types.TypeNode
	Value types.TypeNode
}

// Instance is one `instance Trait Head` declaration.
type Instance struct {
	Trait         string
	Head          types.TypeNode
	Quals         []types.Pred
	QualEqs       []types.Eq
	Methods       map[string]ast.Expr
	AssocImpls    map[string]AssocTypeImpl
	DefineModule  string
	Span          ast.Span
}

// Env is the trait environment: declared traits and every instance
// registered against them.
type Env struct {
	Traits    map[string]TraitInfo
	Instances map[string][]*Instance
}

// NewEnv creates an empty trait environment.
func NewEnv() *Env {
	return &Env{Traits: map[string]TraitInfo{}, Instances: map[string][]*Instance{}}
}

// DeclareTrait registers a trait's signature.
func (e *Env) DeclareTrait(name string, info TraitInfo) {
	e.Traits[name] = info
}

// moduleDefinesHeadTycon reports whether defModule is the module that
// declares any type constructor occurring in head — the orphan rule's
// second disjunct (spec.md §4.4, fixlang:ast/program.rs's
// dependent_modules comment on Symbol).
func moduleDefinesHeadTycon(head types.TypeNode, defModule string, tyConModules map[string]string) bool {
	for _, con := range headTyCons(head) {
		if tyConModules[con] == defModule {
			return true
		}
	}
	return false
}

func headTyCons(t types.TypeNode) []string {
	switch v := t.(type) {
	case *types.Con:
		return []string{v.Name}
	case *types.App:
		return append(headTyCons(v.Func), headTyCons(v.Arg)...)
	default:
		return nil
	}
}

// AddInstance validates and registers a new instance, running (in
// order) the overlap check, the orphan check, and the unrelated-method
// check, per spec.md §4.4.
func (e *Env) AddInstance(inst *Instance, traitModule string, tyConModules map[string]string, errs *diag.Errors) {
	trait, ok := e.Traits[inst.Trait]
	if !ok {
		errs.Add(diag.New(diag.RES001, "traits",
			fmt.Sprintf("unknown trait %q", inst.Trait), inst.Span))
		return
	}

	// Overlap: the new head must not unify with any existing instance
	// head of the same trait.
	for _, existing := range e.Instances[inst.Trait] {
		if types.Unifiable(inst.Head, existing.Head) {
			errs.Add(diag.New(diag.TRT001, "traits",
				fmt.Sprintf("instance %s %s overlaps with an existing instance", inst.Trait, inst.Head), inst.Span).
				WithSeeAlso("existing instance", existing.Span))
			return
		}
	}

	// Orphan: define-module must be the trait's own module, or a module
	// that defines one of the tycons occurring in the head.
	if inst.DefineModule != traitModule && !moduleDefinesHeadTycon(inst.Head, inst.DefineModule, tyConModules) {
		errs.Add(diag.New(diag.TRT002, "traits",
			fmt.Sprintf("orphan instance: %s is defined in %q, but neither the trait %q nor the head type is defined there",
				inst.Trait, inst.DefineModule, inst.Trait), inst.Span))
		return
	}

	// Unrelated method: every implemented method must belong to the
	// trait; every trait method not given a default must be implemented.
	for methodName := range inst.Methods {
		if _, ok := trait.Methods[methodName]; !ok {
			errs.Add(diag.New(diag.TRT003, "traits",
				fmt.Sprintf("%q is not a method of trait %q", methodName, inst.Trait), inst.Span))
		}
	}
	for methodName := range trait.Methods {
		if _, ok := inst.Methods[methodName]; !ok {
			errs.Add(diag.New(diag.TRT004, "traits",
				fmt.Sprintf("instance %s %s is missing method %q", inst.Trait, inst.Head, methodName), inst.Span))
		}
	}
	for assocName := range trait.AssocTypes {
		if _, ok := inst.AssocImpls[assocName]; !ok {
			errs.Add(diag.New(diag.TRT005, "traits",
				fmt.Sprintf("instance %s %s is missing associated type %q", inst.Trait, inst.Head, assocName), inst.Span))
		}
	}

	e.Instances[inst.Trait] = append(e.Instances[inst.Trait], inst)
}

// Resolve finds the unique instance satisfying pred under sub, returning
// the extended substitution and the residual predicates/equalities
// contributed by the instance's own qualifiers (spec.md §4.4 instance
// resolution).
func Resolve(e *Env, pred types.Pred, sub types.Substitution) (*Instance, types.Substitution, []types.Pred, []types.Eq, error) {
	predTy := pred.Type.Substitute(sub)
	var matches []*Instance
	var matchSubs []types.Substitution
	for _, inst := range e.Instances[pred.Trait] {
		candidate, err := types.Unify(predTy, inst.Head, types.Substitution{})
		if err != nil {
			continue
		}
		matches = append(matches, inst)
		matchSubs = append(matchSubs, candidate)
	}
	switch len(matches) {
	case 0:
		return nil, sub, nil, nil, fmt.Errorf("no instance of %s for %s", pred.Trait, predTy)
	case 1:
		extended := sub.Compose(matchSubs[0])
		var residualPreds []types.Pred
		for _, q := range matches[0].Quals {
			residualPreds = append(residualPreds, types.ApplyToPred(extended, q))
		}
		var residualEqs []types.Eq
		for _, q := range matches[0].QualEqs {
			residualEqs = append(residualEqs, types.ApplyToEq(extended, q))
		}
		return matches[0], extended, residualPreds, residualEqs, nil
	default:
		return nil, sub, nil, nil, fmt.Errorf("ambiguous instance of %s for %s: %d candidates", pred.Trait, predTy, len(matches))
	}
}

// ReduceAssoc dispatches an associated-type application to the instance
// whose head matches args[0]'s head type constructor, returning the
// instance's declared value for that associated type (spec.md §4.4).
func (e *Env) ReduceAssoc(trait, assoc string, args []types.TypeNode) (types.TypeNode, bool) {
	if len(args) == 0 {
		return nil, false
	}
	for _, inst := range e.Instances[trait] {
		if !types.Unifiable(inst.Head, args[0]) {
			continue
		}
		if impl, ok := inst.AssocImpls[assoc]; ok {
			return impl.Value, true
		}
	}
	return nil, false
}
