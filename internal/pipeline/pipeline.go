// Package pipeline wires the core's stages end to end (spec.md §6
// "External Interfaces"): kind-check, build the type environment, resolve
// names, build the trait environment, type-check every global value
// (partitioned across a worker pool), then instantiate the entry points'
// transitive closure.
//
// Grounded on the teacher's internal/pipeline/pipeline.go, which drove
// parse → elaborate → typecheck → link over a single source file or
// module graph. This version is considerably smaller: parsing/lexing,
// Core lowering and linking, and evaluation are all out of scope here,
// so Run starts from already-parsed module ASTs and stops once every
// reachable symbol is instantiated, rather than producing a runnable
// program.
package pipeline

import (
	"fmt"
	"sort"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/cache"
	"github.com/sunholo/corelang/internal/checker"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/iface"
	"github.com/sunholo/corelang/internal/instantiate"
	"github.com/sunholo/corelang/internal/kindenv"
	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/resolver"
	"github.com/sunholo/corelang/internal/traitenv"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/tyenv"
	"github.com/sunholo/corelang/internal/types"
	"github.com/sunholo/corelang/internal/work"
)

// Config is a compilation run's project configuration (spec.md §6 "The
// core consumes ... a project configuration"). Loaded from YAML the way
// eval_harness.Spec is loaded (gopkg.in/yaml.v3) by whatever CLI command
// builds one, though Run itself only ever sees the decoded struct.
type Config struct {
	Workers           int    `yaml:"workers"`
	CachePath         string `yaml:"cache_path"`
	EntryPoints       []string `yaml:"entry_points"`
	InstantiateAll    bool   `yaml:"instantiate_all"`

	// Cache overrides CachePath when already open (e.g. shared across
	// several Run calls in one process); nil disables caching.
	Cache *cache.Store `yaml:"-"`

	// InstantiateFilter is carried in the configuration but Run does not
	// consult it: instantiation always covers everything reachable from
	// the entry points, whatever the filter says.
	InstantiateFilter func(module string) bool `yaml:"-"`
}

// ExportedFunction is one module's `export` statement together with the
// concrete function type its declared scheme validates to (spec.md §6).
type ExportedFunction struct {
	Module string
	Name   string
	Type   iface.ExportedFunctionType
}

// Program is the instantiated program spec.md §6 says the core produces.
type Program struct {
	Types   *tyenv.Env
	Traits  *traitenv.Env
	Symbols map[string]*instantiate.Symbol
	Entry   *typedast.Expr
	Exports []ExportedFunction
}

// Run executes, in order: kind checking (§4.2), type-environment
// construction and name collection, name resolution (§4.1),
// trait-environment construction (§4.4), partitioned type checking of every global
// value (§3.11), and finally sequential instantiation from cfg's entry
// points (§4.5). Errors accumulate across every stage that can still
// produce usable output for the next one; a stage whose failure leaves
// nothing usable for downstream consumers (spec.md §7's propagation
// policy) short-circuits the remaining stages.
func Run(modules []*ast.Module, cfg Config) (*Program, diag.Errors) {
	var errs diag.Errors

	kinds, kErrs := kindenv.Build(modules)
	errs.Merge(&kErrs)

	builtins := tyenv.NewBuiltins()
	universe := resolver.NewUniverse()
	resolver.CollectBuiltins(builtins, universe)

	merged := tyenv.Env{TyCons: map[string]tyenv.TyConInfo{}, Aliases: map[string]tyenv.TyAliasInfo{}, Methods: map[string]tyenv.MethodInfo{}}
	mergeEnv(&merged, builtins)

	tyConModules := map[string]string{}
	for name := range builtins.TyCons {
		tyConModules[name] = resolver.PreludeModule
	}

	trees := map[string]*resolver.ImportTree{}
	for _, m := range modules {
		env := tyenv.Build(m.Types, builtins, &errs)
		resolver.Collect(m, &env, builtins, universe)
		mergeEnv(&merged, env)
		for _, td := range m.Types {
			tyConModules[td.Name] = m.Path
		}
		trees[m.Path] = resolver.BuildImportTree(m, resolver.PreludeModule)
	}

	r := resolver.New(universe)
	for _, m := range modules {
		resolver.Module(m, r, trees[m.Path], &errs)
	}

	owners := tyenv.AssocOwners{}
	for _, m := range modules {
		for _, td := range m.Traits {
			for _, at := range td.AssocTypes {
				owners[at.Name] = td.Name
			}
		}
	}

	traits := traitenv.NewEnv()
	for _, m := range modules {
		for _, td := range m.Traits {
			traits.DeclareTrait(td.Name, buildTraitInfo(td, m.Path, kinds, owners))
		}
	}
	for _, m := range modules {
		for _, inst := range m.Instances {
			addInstance(traits, inst, m.Path, tyConModules, kinds, owners, &errs)
		}
	}

	globalSigs := map[string]checker.GlobalSignature{}
	declByName := map[string]*ast.GlobalValueDecl{}
	for _, m := range modules {
		for _, decl := range m.ValDecls {
			scheme := tyenv.ElaborateScheme(decl.Scheme, kinds, map[string]types.Kind{}, owners)
			globalSigs[decl.Name] = checker.GlobalSignature{Scheme: scheme}
			declByName[decl.Name] = decl
		}
	}

	// Compiler-synthesized struct/union methods (@f, set_f, mod_f, ...)
	// and declared trait methods are callable like any other global, so
	// inferVar's c.Globals lookup needs a scheme for each of them too —
	// without this a bare reference to a getter or a trait method fails
	// name resolution (RES001) despite being a perfectly good value.
	// Explicit declarations win on a name clash.
	for methodName, mi := range merged.Methods {
		if _, exists := globalSigs[methodName]; exists {
			continue
		}
		globalSigs[methodName] = checker.GlobalSignature{Scheme: mi.Scheme}
	}
	for traitName, info := range traits.Traits {
		for methodName, sc := range info.Methods {
			if _, exists := globalSigs[methodName]; exists {
				continue
			}
			// Expose the method as ∀a ... . (Trait a) => σ_m: the method's
			// own scheme is elaborated against the trait's parameter as a
			// free variable, so quantifying over it and adding the trait's
			// own predicate turns it into a dispatchable global (resolved
			// per call site once the parameter becomes concrete, spec.md
			// §4.4 instance resolution).
			vars := append([]string{info.Param}, sc.Vars...)
			preds := append([]types.Pred{{Trait: traitName, Type: &types.Var{Name: info.Param, K: types.Star{}}}}, sc.Preds...)
			globalSigs[methodName] = checker.GlobalSignature{
				Scheme: types.NewScheme(vars, preds, sc.Eqs, sc.Body),
			}
		}
	}

	defnByName := map[string]*ast.GlobalValueDefn{}
	for _, m := range modules {
		for _, defn := range m.ValDefns {
			defnByName[defn.Name] = defn
		}
	}
	for name, decl := range declByName {
		if _, ok := defnByName[name]; !ok {
			errs.Add(diag.New(diag.DEF002, "pipeline",
				fmt.Sprintf("%q is declared but never defined", name), decl.Span))
		}
	}
	for name, defn := range defnByName {
		if _, ok := declByName[name]; !ok {
			errs.Add(diag.New(diag.DEF002, "pipeline",
				fmt.Sprintf("%q is defined but never declared", name), defn.Span))
		}
	}

	if errs.HasErrors() {
		errs.Sort()
		return nil, errs
	}

	var jobs []work.Job
	for name, decl := range declByName {
		defn := defnByName[name]
		jobs = append(jobs, work.Job{
			Name:    names.Local(name),
			Scheme:  globalSigs[name].Scheme,
			Body:    defn.Body,
			DepHash: types.SchemeString(globalSigs[name].Scheme),
		})
	}

	// Every instance method is also checking work: its body against the
	// trait's declared method scheme with the instance's head substituted
	// for the trait parameter (spec.md §3's invariant that an impl's type
	// mentions the parameter in the same structural position as the
	// trait declared it — enforced here, by unification, since traitenv's
	// AddInstance runs before any implementation has a type to compare).
	instJobs := instanceMethodJobs(traits)
	instJobByName := make(map[string]instanceMethodJob, len(instJobs))
	for _, ij := range instJobs {
		jobs = append(jobs, ij.job)
		instJobByName[ij.job.Name.Local] = ij
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name.Local < jobs[j].Name.Local })

	checkFn := func(job work.Job) (typedast.Expr, diag.Errors) {
		c := checker.New(&merged, traits, kinds, globalSigs)
		c.Cache = cfg.Cache
		c.DepHash = job.DepHash
		return c.CheckGlobal(job.Name, job.Scheme, job.Body)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	results := work.Partition(jobs, workers, checkFn, nil)
	jobErrs := work.MergeErrors(results)
	errs.Merge(&jobErrs)

	globals := map[string]*instantiate.GlobalValue{}
	methodImpls := map[string][]instantiate.MethodImpl{}
	for _, res := range results {
		ij, isInstanceMethod := instJobByName[res.Job.Name.Local]
		if res.Errs.HasErrors() || res.Expr == nil {
			continue
		}
		if isInstanceMethod {
			methodImpls[ij.methodName] = append(methodImpls[ij.methodName], instantiate.MethodImpl{
				Scheme:       res.Job.Scheme,
				Expr:         *res.Expr,
				DefineModule: ij.instance.DefineModule,
			})
			continue
		}
		globals[res.Job.Name.Local] = &instantiate.GlobalValue{
			Scheme: res.Job.Scheme,
			Simple: *res.Expr,
		}
	}
	for methodName, impls := range methodImpls {
		globals[methodName] = &instantiate.GlobalValue{
			Scheme:  globalSigs[methodName].Scheme,
			Methods: impls,
		}
	}

	// Compiler-synthesized struct/union methods have no body to check —
	// the Var stands for the primitive operation itself, so instantiate's
	// discoverRefs resolves it to a no-op (the same (name, type) pair is
	// already on the worklist) rather than a missing generic value.
	for methodName, mi := range merged.Methods {
		if _, exists := globals[methodName]; exists {
			continue
		}
		globals[methodName] = &instantiate.GlobalValue{
			Scheme:          mi.Scheme,
			Simple:          typedast.Var{Node: typedast.Node{Type: mi.Scheme.Body}, Name: methodName},
			CompilerDefined: true,
		}
	}

	if errs.HasErrors() {
		errs.Sort()
		return nil, errs
	}

	entryPoints := make([]names.FullName, 0, len(cfg.EntryPoints))
	for _, e := range cfg.EntryPoints {
		entryPoints = append(entryPoints, names.Local(e))
	}

	ins := instantiate.New(globals)
	symbols, insErrs := ins.Run(entryPoints)
	errs.Merge(&insErrs)

	var exports []ExportedFunction
	for _, m := range modules {
		for _, exp := range m.Exports {
			sig, ok := globalSigs[exp.Name]
			if !ok {
				errs.Add(diag.New(diag.EXP001, "pipeline",
					fmt.Sprintf("exported name %q has no declaration", exp.Name), exp.Span))
				continue
			}
			fn, err := iface.Validate(exp.Name, sig.Scheme)
			if err != nil {
				errs.Add(diag.New(diag.EXP002, "pipeline", err.Error(), exp.Span))
				continue
			}
			exports = append(exports, ExportedFunction{Module: m.Path, Name: exp.Name, Type: fn})
		}
	}

	errs.Sort()
	if errs.HasErrors() {
		return nil, errs
	}

	prog := &Program{
		Types:   &merged,
		Traits:  traits,
		Symbols: symbols,
		Exports: exports,
	}
	if len(entryPoints) == 1 {
		for _, sym := range symbols {
			if sym.Generic.Equals(entryPoints[0]) {
				expr := sym.Expr
				prog.Entry = &expr
				break
			}
		}
	}
	return prog, errs
}

func mergeEnv(dst *tyenv.Env, src tyenv.Env) {
	for k, v := range src.TyCons {
		dst.TyCons[k] = v
	}
	for k, v := range src.Aliases {
		dst.Aliases[k] = v
	}
	for k, v := range src.Methods {
		dst.Methods[k] = v
	}
}

// instanceMethodJob is one trait instance's one method, paired with the
// checking job built for it and enough context to file its result back
// under the right method name once checking completes.
type instanceMethodJob struct {
	job        work.Job
	methodName string
	instance   *traitenv.Instance
}

// instanceMethodJobs builds one checking job per (instance, method) pair
// registered across traits, so every implementation is actually type
// checked against its trait method's scheme rather than only validated
// by name (spec.md §4.4 method dispatch).
func instanceMethodJobs(traits *traitenv.Env) []instanceMethodJob {
	var out []instanceMethodJob
	for traitName, info := range traits.Traits {
		for _, inst := range traits.Instances[traitName] {
			for methodName, body := range inst.Methods {
				sc, ok := info.Methods[methodName]
				if !ok {
					continue // not a trait method; already reported as TRT003
				}
				instScheme := instantiateMethodScheme(info.Param, sc, inst)
				jobName := names.Local(fmt.Sprintf("%s#%s#%s", traitName, inst.Head, methodName))
				out = append(out, instanceMethodJob{
					job: work.Job{
						Name:    jobName,
						Scheme:  instScheme,
						Body:    body,
						DepHash: types.SchemeString(instScheme),
					},
					methodName: methodName,
					instance:   inst,
				})
			}
		}
	}
	return out
}

// instantiateMethodScheme substitutes inst.Head for the trait's own
// parameter throughout the method's declared scheme, folding the
// instance's own qualifiers in as additional predicates/equalities and
// closing over its head's own free variables (an instance over a
// generic head, e.g. `instance Eq a => Eq (List a)`, stays polymorphic
// in a). The result is the exact type the instance's method body must
// check against — comparing the impl's inferred type against this
// scheme (via CheckGlobal's unification) is the structural "does this
// method mention the trait parameter the way the trait declared it"
// check (spec.md §3).
func instantiateMethodScheme(param string, sc types.Scheme, inst *traitenv.Instance) types.Scheme {
	sub := types.Substitution{param: inst.Head}
	body := sc.Body.Substitute(sub)

	preds := append([]types.Pred{}, inst.Quals...)
	for _, p := range sc.Preds {
		preds = append(preds, types.ApplyToPred(sub, p))
	}
	eqs := append([]types.Eq{}, inst.QualEqs...)
	for _, eq := range sc.Eqs {
		eqs = append(eqs, types.ApplyToEq(sub, eq))
	}

	seen := map[string]bool{}
	var vars []string
	addVar := func(v string) {
		if !seen[v] {
			seen[v] = true
			vars = append(vars, v)
		}
	}
	for _, v := range inst.Head.FreeVars() {
		addVar(v)
	}
	for _, v := range sc.Vars {
		if v != param {
			addVar(v)
		}
	}
	return types.NewScheme(vars, preds, eqs, body)
}

func buildTraitInfo(td *ast.TraitDefn, module string, kinds *kindenv.Env, owners tyenv.AssocOwners) traitenv.TraitInfo {
	tyVarKinds := map[string]types.Kind{td.TyVar: types.Star{}}
	methods := map[string]types.Scheme{}
	for _, ms := range td.Methods {
		methods[ms.Name] = tyenv.ElaborateScheme(ms.Scheme, kinds, tyVarKinds, owners)
	}
	assocTypes := map[string]traitenv.AssocTyDecl{}
	for _, at := range td.AssocTypes {
		assocTypes[at.Name] = traitenv.AssocTyDecl{Name: at.Name, Arity: at.Arity}
	}
	return traitenv.TraitInfo{Param: td.TyVar, Methods: methods, AssocTypes: assocTypes, Module: module}
}

func addInstance(traits *traitenv.Env, inst *ast.InstanceDefn, module string, tyConModules map[string]string, kinds *kindenv.Env, owners tyenv.AssocOwners, errs *diag.Errors) {
	head := tyenv.ElaborateType(inst.Head, kinds, map[string]types.Kind{}, owners)
	quals, qualEqs := elaborateQualifiers(inst.Qualifiers, kinds, owners)

	assocImpls := map[string]traitenv.AssocTypeImpl{}
	for name, impl := range inst.AssocImpls {
		args := make([]types.TypeNode, len(impl.Args))
		for i, a := range impl.Args {
			args[i] = tyenv.ElaborateType(a, kinds, map[string]types.Kind{}, owners)
		}
		assocImpls[name] = traitenv.AssocTypeImpl{Args: args, Value: tyenv.ElaborateType(impl.Value, kinds, map[string]types.Kind{}, owners)}
	}

	instance := &traitenv.Instance{
		Trait:        inst.Trait,
		Head:         head,
		Quals:        quals,
		QualEqs:      qualEqs,
		Methods:      inst.Methods,
		AssocImpls:   assocImpls,
		DefineModule: module,
		Span:         inst.Span,
	}

	traitModule := module
	if info, ok := traits.Traits[inst.Trait]; ok {
		traitModule = info.Module
	}
	traits.AddInstance(instance, traitModule, tyConModules, errs)
}

func elaborateQualifiers(quals []ast.Qualifier, kinds *kindenv.Env, owners tyenv.AssocOwners) ([]types.Pred, []types.Eq) {
	var preds []types.Pred
	var eqs []types.Eq
	for _, q := range quals {
		if q.Pred != nil {
			preds = append(preds, types.Pred{Trait: q.Pred.Trait, Type: tyenv.ElaborateType(q.Pred.Type, kinds, map[string]types.Kind{}, owners)})
		}
		if q.Eq != nil {
			args := make([]types.TypeNode, len(q.Eq.Args))
			for i, a := range q.Eq.Args {
				args[i] = tyenv.ElaborateType(a, kinds, map[string]types.Kind{}, owners)
			}
			eqs = append(eqs, types.Eq{Assoc: q.Eq.Assoc, Args: args, Value: tyenv.ElaborateType(q.Eq.Value, kinds, map[string]types.Kind{}, owners)})
		}
	}
	return preds, eqs
}
