// Package checker implements bidirectional type inference and checking
// (spec.md §4.3). Its shape mirrors the teacher's
// internal/types/typechecker_core.go one-for-one: a Checker struct
// threading the type, trait, and kind environments plus a local-scope
// stack and an obligation set, generalized from the teacher's
// row-polymorphic effect system down to the spec's plain IO/pure split.
package checker

import (
	"fmt"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/cache"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/kindenv"
	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/traitenv"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/tyenv"
	"github.com/sunholo/corelang/internal/types"
)

// GlobalSignature is a declared (or inferred) global value's scheme,
// looked up by checked expressions referencing other globals.
type GlobalSignature struct {
	Scheme types.Scheme
}

// scopeFrame is one lexical scope: a map from local name to its
// (possibly still-unquantified) type.
type scopeFrame map[string]types.TypeNode

// Checker threads the environments and mutable inference state across
// an entire module's worth of checking.
type Checker struct {
	Types   *tyenv.Env
	Traits  *traitenv.Env
	Kinds   *kindenv.Env
	Globals map[string]GlobalSignature

	// Cache is consulted by CheckGlobal before checking a body and
	// populated after (spec.md §4.3 "Caching"); nil disables caching
	// entirely. DepHash is the caller-supplied content hash of the
	// global's dependencies for the *next* CheckGlobal call — set by
	// whatever drives the checker (internal/work's CheckFunc closure,
	// or a caller checking a single global directly) before each call,
	// since a scheme's own text doesn't capture what it transitively
	// depends on.
	Cache   *cache.Store
	DepHash string

	scope         []scopeFrame
	obligations   []types.Pred
	eqObligations []types.Eq
	nextVar       int
}

// New constructs a Checker over the given environments.
func New(tyEnv *tyenv.Env, traitEnv *traitenv.Env, kindEnv *kindenv.Env, globals map[string]GlobalSignature) *Checker {
	return &Checker{Types: tyEnv, Traits: traitEnv, Kinds: kindEnv, Globals: globals}
}

func (c *Checker) fresh() *types.Var {
	c.nextVar++
	return &types.Var{Name: fmt.Sprintf("t%d", c.nextVar), K: types.Star{}}
}

func (c *Checker) pushScope() { c.scope = append(c.scope, scopeFrame{}) }
func (c *Checker) popScope()  { c.scope = c.scope[:len(c.scope)-1] }

func (c *Checker) bind(name string, t types.TypeNode) {
	c.scope[len(c.scope)-1][name] = t
}

func (c *Checker) lookupLocal(name string) (types.TypeNode, bool) {
	for i := len(c.scope) - 1; i >= 0; i-- {
		if t, ok := c.scope[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// CheckGlobal instantiates scheme, checks body against the instantiated
// body type, then verifies every residual obligation is entailed by
// scheme's own qualifiers before returning the typed expression
// (spec.md §4.3 "Type checking" generalization step).
func (c *Checker) CheckGlobal(name names.FullName, scheme types.Scheme, body ast.Expr) (typedast.Expr, diag.Errors) {
	var errs diag.Errors

	key := cache.CacheKey{FullName: name.String(), SchemeText: types.SchemeString(scheme), DepHash: c.DepHash}
	if c.Cache != nil {
		if cached, ok, err := c.Cache.Get(key); err == nil && ok {
			return *cached, errs
		}
	}

	c.obligations = nil
	c.eqObligations = nil
	c.pushScope()
	defer c.popScope()

	instantiated, preds, eqs := scheme.Instantiate(func(k types.Kind) *types.Var {
		return c.fresh()
	})
	c.obligations = append(c.obligations, preds...)
	c.eqObligations = append(c.eqObligations, eqs...)

	sub := types.Substitution{}
	typed, bodyTy, sub := c.infer(body, sub, &errs)
	sub, err := types.Unify(bodyTy, instantiated.Substitute(sub), sub)
	if err != nil {
		errs.Add(c.unifyErrorReport(err, body.Position()))
	}

	c.solveObligations(sub, &errs)
	// Outstanding obligations mention the fresh variables scheme was
	// instantiated with, so its qualifiers are compared in that form.
	declared := types.Scheme{Preds: make([]types.Pred, len(preds)), Eqs: make([]types.Eq, len(eqs))}
	for i, p := range preds {
		declared.Preds[i] = types.ApplyToPred(sub, p)
	}
	for i, q := range eqs {
		declared.Eqs[i] = types.ApplyToEq(sub, q)
	}
	c.checkEntailment(declared, &errs, body.Position())

	result := substituteTyped(typed, sub)

	if c.Cache != nil && !errs.HasErrors() {
		// Caching failures never block checking (spec.md §4.3): a write
		// error here only costs a future cache miss, not correctness.
		_ = c.Cache.Put(key, result)
	}

	return result, errs
}

// solveObligations runs a fixed-point loop discharging predicates via
// traitenv.Resolve and equalities via traitenv.ReduceAssoc wherever the
// constraint's type is concrete enough, leaving the rest deferred
// (spec.md's obligation solving (a)/(b)/(c)).
func (c *Checker) solveObligations(sub types.Substitution, errs *diag.Errors) {
	changed := true
	for changed {
		changed = false
		var remainingPreds []types.Pred
		for _, p := range c.obligations {
			p = types.ApplyToPred(sub, p)
			if hasFreeVar(p.Type) {
				remainingPreds = append(remainingPreds, p)
				continue
			}
			_, extended, residualPreds, residualEqs, err := traitenv.Resolve(c.Traits, p, sub)
			if err != nil {
				errs.Add(diag.New(diag.CHK011, "typecheck",
					fmt.Sprintf("unsatisfied predicate %s %s: %v", p.Trait, p.Type, err), ast.Span{}))
				continue
			}
			sub = extended
			remainingPreds = append(remainingPreds, residualPreds...)
			c.eqObligations = append(c.eqObligations, residualEqs...)
			changed = true
		}
		c.obligations = remainingPreds

		var remainingEqs []types.Eq
		for _, eq := range c.eqObligations {
			eq = types.ApplyToEq(sub, eq)
			if len(eq.Args) == 0 || hasFreeVar(eq.Args[0]) {
				remainingEqs = append(remainingEqs, eq)
				continue
			}
			reduced, ok := c.Traits.ReduceAssoc(assocTraitOf(c.Traits, eq.Assoc), eq.Assoc, eq.Args)
			if !ok {
				remainingEqs = append(remainingEqs, eq)
				continue
			}
			var err error
			sub, err = types.Unify(reduced, eq.Value.Substitute(sub), sub)
			if err != nil {
				errs.Add(c.unifyErrorReport(err, ast.Span{}))
				continue
			}
			changed = true
		}
		c.eqObligations = remainingEqs
	}
}

// assocTraitOf recovers the declaring trait's name for an associated
// type. Name resolution leaves associated-type names bare, so the trait
// whose AssocTypes declares the name is looked up in traits; failing
// that, a name of the form "Trait.Assoc" yields its "Trait" prefix.
func assocTraitOf(traits *traitenv.Env, qualified string) string {
	for name, info := range traits.Traits {
		if _, ok := info.AssocTypes[qualified]; ok {
			return name
		}
	}
	for i := 0; i < len(qualified); i++ {
		if qualified[i] == '.' {
			return qualified[:i]
		}
	}
	return qualified
}

// checkEntailment verifies every obligation still outstanding after
// solving is among scheme's own declared qualifiers; anything else is
// CHK012 AmbiguousConstraint.
func (c *Checker) checkEntailment(scheme types.Scheme, errs *diag.Errors, site ast.Span) {
	declared := map[string]bool{}
	for _, p := range scheme.Preds {
		declared[p.Trait+":"+p.Type.String()] = true
	}
	for _, p := range c.obligations {
		if !declared[p.Trait+":"+p.Type.String()] {
			errs.Add(diag.New(diag.CHK012, "typecheck",
				fmt.Sprintf("ambiguous constraint %s %s not entailed by declared context", p.Trait, p.Type), site))
		}
	}

	declaredEqs := map[string]bool{}
	for _, eq := range scheme.Eqs {
		declaredEqs[eq.Assoc+":"+eq.Value.String()] = true
	}
	for _, eq := range c.eqObligations {
		if !declaredEqs[eq.Assoc+":"+eq.Value.String()] {
			errs.Add(diag.New(diag.CHK012, "typecheck",
				fmt.Sprintf("ambiguous associated-type equality %s = %s not entailed by declared context", eq.Assoc, eq.Value), site))
		}
	}
}

func hasFreeVar(t types.TypeNode) bool {
	return len(t.FreeVars()) > 0
}

func (c *Checker) unifyErrorReport(err error, site ast.Span) *diag.Report {
	if ue, ok := err.(*types.UnifyError); ok {
		return diag.New(diag.CHK001, "typecheck",
			fmt.Sprintf("cannot unify %s with %s", ue.Left, ue.Right), site)
	}
	if oe, ok := err.(*types.OccursError); ok {
		return diag.New(diag.CHK002, "typecheck",
			fmt.Sprintf("occurs check: %s occurs in %s", oe.Var, oe.Type), site)
	}
	return diag.New(diag.CHK001, "typecheck", err.Error(), site)
}
