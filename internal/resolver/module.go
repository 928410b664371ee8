package resolver

import (
	"strings"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/tyenv"
)

// PreludeModule is the implicitly-imported standard prelude (spec.md
// §4.1's "a module implicitly imports itself and a standard prelude").
const PreludeModule = "std/prelude"

func moduleNamespace(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Collect registers mod's own declarations — its type constructors and
// aliases, its synthesized struct/union methods, its standalone value
// declarations/definitions, and (for traits it itself defines) its
// traits, their associated types, and their method names — into u,
// under mod's namespace.
// builtins is the shared base tyenv.Env passed to every module's
// tyenv.Build, so its entries (Int, Bool, ...) are skipped here: they
// belong to the prelude, collected once, not to every module that merely
// inherits them.
func Collect(mod *ast.Module, tyEnv *tyenv.Env, builtins tyenv.Env, u *Universe) {
	ns := moduleNamespace(mod.Path)

	for name := range tyEnv.TyCons {
		if _, isBuiltin := builtins.TyCons[name]; isBuiltin {
			continue
		}
		u.Declare(names.New(ns, name), Type, mod.Path)
	}
	for name := range tyEnv.Aliases {
		u.Declare(names.New(ns, name), Type, mod.Path)
	}
	for name := range tyEnv.Methods {
		u.Declare(names.New(ns, name), Value, mod.Path)
	}
	for _, decl := range mod.ValDecls {
		u.Declare(names.New(ns, decl.Name), Value, mod.Path)
	}
	for _, defn := range mod.ValDefns {
		u.Declare(names.New(ns, defn.Name), Value, mod.Path)
	}
	for _, td := range mod.Traits {
		u.Declare(names.New(ns, td.Name), Trait, mod.Path)
		for _, at := range td.AssocTypes {
			u.Declare(names.New(ns, at.Name), AssocType, mod.Path)
		}
		for _, ms := range td.Methods {
			u.Declare(names.New(ns, ms.Name), Value, mod.Path)
		}
	}
	for _, tyDefn := range mod.Types {
		union, ok := tyDefn.Value.(*ast.UnionDefn)
		if !ok {
			continue
		}
		tyConName := names.New(ns, tyDefn.Name)
		for _, variant := range union.Variants {
			u.DeclareVariant(names.New(ns, variant.Name), tyConName)
		}
	}
}

// CollectBuiltins registers the shared base environment's own type
// constructors under PreludeModule, once, independent of any particular
// module's Collect call.
func CollectBuiltins(builtins tyenv.Env, u *Universe) {
	ns := moduleNamespace(PreludeModule)
	for name := range builtins.TyCons {
		u.Declare(names.New(ns, name), Type, PreludeModule)
	}
}

// Module resolves every name reference inside mod in place against r,
// using tree for visibility. Diagnostics (RES001, RES002, RES004) accumulate into
// errs; resolution continues past individual failures so every
// unresolved reference in the module is reported in one pass.
func Module(mod *ast.Module, r *Resolver, tree *ImportTree, errs *diag.Errors) {
	if SelfImported(mod) {
		errs.Add(diag.New(diag.RES004, "resolve",
			"module imports itself explicitly; it is already visible via the implicit self-import", mod.Span))
	}

	w := &walker{resolver: r, tree: tree, errs: errs}
	for _, td := range mod.Types {
		w.typeDeclValue(td.Value)
	}
	for _, decl := range mod.ValDecls {
		w.scheme(decl.Scheme)
	}
	for _, defn := range mod.ValDefns {
		w.expr(defn.Body)
	}
	for _, td := range mod.Traits {
		for i := range td.Methods {
			w.scheme(td.Methods[i].Scheme)
		}
	}
	for _, inst := range mod.Instances {
		inst.Trait = w.resolveTraitName(inst.Trait, inst.HeaderSpan)
		w.typeExpr(inst.Head)
		for _, q := range inst.Qualifiers {
			if q.Pred != nil {
				q.Pred.Trait = w.resolveTraitName(q.Pred.Trait, q.Pred.Span)
				w.typeExpr(q.Pred.Type)
			}
			if q.Eq != nil {
				for _, a := range q.Eq.Args {
					w.typeExpr(a)
				}
				w.typeExpr(q.Eq.Value)
			}
		}
		for _, body := range inst.Methods {
			w.expr(body)
		}
		for _, impl := range inst.AssocImpls {
			for _, a := range impl.Args {
				w.typeExpr(a)
			}
			w.typeExpr(impl.Value)
		}
	}
}

// walker threads the resolver and import tree through one recursive AST
// descent, accumulating diagnostics as it goes (mirrors the teacher's
// resolve_namespace_in_declaration recursive descent, ported to explicit
// struct-field mutation instead of Rust's &mut self).
//
// locals mirrors checker.Checker's own scope stack (pushScope/popScope
// over lambda parameters, let- and match-bound pattern variables): a
// name bound there is a local, not a lookup into the universe, and the
// resolver must leave it unresolved (Var.Resolved == "") exactly like it
// would for any other name the universe doesn't know — inferVar falls
// back to the bare name for local lookup, so resolving locals here would
// only ever produce false RES001s for perfectly good parameter and
// pattern-bound references.
type walker struct {
	resolver *Resolver
	tree     *ImportTree
	errs     *diag.Errors
	locals   []map[string]bool
}

func (w *walker) pushLocals(names ...string) {
	frame := make(map[string]bool, len(names))
	for _, n := range names {
		frame[n] = true
	}
	w.locals = append(w.locals, frame)
}

func (w *walker) popLocals() { w.locals = w.locals[:len(w.locals)-1] }

func (w *walker) isLocal(name string) bool {
	for i := len(w.locals) - 1; i >= 0; i-- {
		if w.locals[i][name] {
			return true
		}
	}
	return false
}

// patternNames collects every variable a pattern binds, recursively
// (a struct/union pattern's sub-patterns bind further names).
func patternNames(p ast.Pattern) []string {
	switch pat := p.(type) {
	case nil:
		return nil
	case *ast.VarPattern:
		return []string{pat.Name}
	case *ast.StructPattern:
		var out []string
		for _, f := range pat.Fields {
			out = append(out, patternNames(f.Pattern)...)
		}
		return out
	case *ast.UnionPattern:
		return patternNames(pat.Sub)
	default:
		return nil
	}
}

func (w *walker) resolveTraitName(short string, site ast.Span) string {
	full, err := w.resolver.Resolve(short, Trait, w.tree, site)
	if err != nil {
		w.errs.Eat("resolve", err)
		return short
	}
	return full.Local
}

func (w *walker) scheme(s *ast.SchemeExpr) {
	if s == nil {
		return
	}
	for _, p := range s.Preds {
		p.Trait = w.resolveTraitName(p.Trait, p.Span)
		w.typeExpr(p.Type)
	}
	for _, eq := range s.Eqs {
		for _, a := range eq.Args {
			w.typeExpr(a)
		}
		w.typeExpr(eq.Value)
	}
	w.typeExpr(s.Body)
}

func (w *walker) typeDeclValue(v ast.TypeDeclValue) {
	switch d := v.(type) {
	case *ast.StructDefn:
		for _, f := range d.Fields {
			w.typeExpr(f.Type)
		}
	case *ast.UnionDefn:
		for _, f := range d.Variants {
			w.typeExpr(f.Type)
		}
	case *ast.AliasDefn:
		w.typeExpr(d.Body)
	}
}

func (w *walker) typeExpr(te ast.TypeExpr) {
	switch t := te.(type) {
	case nil:
	case *ast.TyVarRef:
		// bound by an enclosing scheme/trait/alias parameter list; never
		// looked up in the universe.
	case *ast.TyConRef:
		full, err := w.resolver.Resolve(t.Name, Type, w.tree, t.Span)
		if err != nil {
			w.errs.Eat("resolve", err)
			return
		}
		t.Resolved = full.Local
	case *ast.TyApp:
		w.typeExpr(t.Func)
		w.typeExpr(t.Arg)
	case *ast.AssocTyRef:
		full, err := w.resolver.Resolve(t.Name, AssocType, w.tree, t.Span)
		if err != nil {
			w.errs.Eat("resolve", err)
		} else {
			t.Resolved = full.Local
		}
		for _, a := range t.Args {
			w.typeExpr(a)
		}
	}
}

func (w *walker) expr(e ast.Expr) {
	switch n := e.(type) {
	case nil:
	case *ast.Var:
		if w.isLocal(n.Name) {
			return
		}
		full, err := w.resolver.Resolve(n.Name, Value, w.tree, n.Span)
		if err != nil {
			w.errs.Eat("resolve", err)
			return
		}
		n.Resolved = full.Local
	case *ast.Lit:
	case *ast.App:
		w.expr(n.Func)
		for _, a := range n.Args {
			w.expr(a)
		}
	case *ast.Lambda:
		w.pushLocals(n.Params...)
		w.expr(n.Body)
		w.popLocals()
	case *ast.Let:
		w.expr(n.Bound)
		w.pattern(n.Pattern)
		w.pushLocals(patternNames(n.Pattern)...)
		w.expr(n.Body)
		w.popLocals()
	case *ast.If:
		w.expr(n.Cond)
		w.expr(n.Then)
		w.expr(n.Else)
	case *ast.Match:
		w.expr(n.Scrutinee)
		for _, arm := range n.Arms {
			w.pattern(arm.Pattern)
			w.pushLocals(patternNames(arm.Pattern)...)
			if arm.Guard != nil {
				w.expr(arm.Guard)
			}
			w.expr(arm.Body)
			w.popLocals()
		}
	case *ast.TyAnno:
		w.expr(n.Expr)
		w.typeExpr(n.Type)
	case *ast.MakeStruct:
		full, err := w.resolver.Resolve(n.TyCon, Type, w.tree, n.Span)
		if err == nil {
			n.TyCon = full.Local
		} else {
			w.errs.Eat("resolve", err)
		}
		for _, f := range n.Fields {
			w.expr(f.Value)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			w.expr(el)
		}
	case *ast.FFICall:
		for _, a := range n.Args {
			w.expr(a)
		}
		w.typeExpr(n.RetType)
	case *ast.Eval:
		w.expr(n.Side)
		w.expr(n.Main)
	}
}

func (w *walker) pattern(p ast.Pattern) {
	switch pat := p.(type) {
	case nil:
	case *ast.VarPattern:
		if pat.Annotation != nil {
			w.typeExpr(pat.Annotation)
		}
	case *ast.StructPattern:
		full, err := w.resolver.Resolve(pat.TyCon, Type, w.tree, pat.Span)
		if err != nil {
			w.errs.Eat("resolve", err)
			return
		}
		pat.Resolved = full.Local
		for _, f := range pat.Fields {
			w.pattern(f.Pattern)
		}
	case *ast.UnionPattern:
		full, err := w.resolver.Resolve(pat.Variant, Value, w.tree, pat.Span)
		if err != nil {
			w.errs.Eat("resolve", err)
			return
		}
		// Resolved carries the owning union type constructor's name
		// (internal/pattern looks the variant up as one of that tycon's
		// fields), not the variant's own value-level name.
		if owner, ok := w.resolver.universe.OwnerOf(full); ok {
			pat.Resolved = owner
		} else {
			pat.Resolved = full.Local
		}
		if pat.Sub != nil {
			w.pattern(pat.Sub)
		}
	}
}
