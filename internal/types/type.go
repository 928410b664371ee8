package types

import (
	"fmt"
	"sort"
	"strings"
)

// TypeNode is the core type representation (spec.md §3 Types): a type
// variable, a nullary constructor, an application, or a saturated
// associated-type application. Every TypeNode knows its own Kind.
type TypeNode interface {
	fmt.Stringer
	Kind() Kind
	// FreeVars returns the set of free type-variable names, as a sorted
	// slice for deterministic iteration.
	FreeVars() []string
	// Substitute applies a substitution, returning a (possibly) new node.
	Substitute(sub Substitution) TypeNode
}

// Var is a type variable.
type Var struct {
	Name string
	K    Kind
}

func (v *Var) String() string { return v.Name }
func (v *Var) Kind() Kind     { return v.K }
func (v *Var) FreeVars() []string {
	return []string{v.Name}
}
func (v *Var) Substitute(sub Substitution) TypeNode {
	if t, ok := sub[v.Name]; ok {
		return t
	}
	return v
}

// Con is a nullary type constructor reference (a struct, union,
// primitive, array, arrow, or dyn tycon, or a type alias before
// expansion).
type Con struct {
	Name string
	K    Kind
}

func (c *Con) String() string     { return c.Name }
func (c *Con) Kind() Kind         { return c.K }
func (c *Con) FreeVars() []string { return nil }
func (c *Con) Substitute(Substitution) TypeNode {
	return c
}

// App is a type application `f a`. Kind-checked: Kind(f) = k -> r and
// Kind(a) = k implies Kind(f a) = r; the invariant is enforced by
// internal/kindenv, not re-derived here.
type App struct {
	Func TypeNode
	Arg  TypeNode
}

func (a *App) String() string {
	// Recognize and pretty-print familiar shapes: arrows and arrays.
	if arr, ok := asArrow(a); ok {
		return arr
	}
	return fmt.Sprintf("%s %s", parenIfApp(a.Func), parenIfApp(a.Arg))
}

func parenIfApp(t TypeNode) string {
	if _, ok := t.(*App); ok {
		return "(" + t.String() + ")"
	}
	return t.String()
}

// asArrow recognizes the two-argument application `(->) dom cod` built by
// chained App nodes over the builtin arrow constructor, and renders it
// infix. Returns ok=false for anything else.
func asArrow(a *App) (string, bool) {
	outer, ok := a.Func.(*App)
	if !ok {
		return "", false
	}
	con, ok := outer.Func.(*Con)
	if !ok || con.Name != "->" {
		return "", false
	}
	return fmt.Sprintf("%s -> %s", parenIfApp(outer.Arg), a.Arg.String()), true
}

func (a *App) Kind() Kind {
	fk := a.Func.Kind()
	if ka, ok := fk.(KArrow); ok {
		return ka.To
	}
	// Malformed application (should have been rejected by kindenv); fall
	// back to Star to keep downstream code total.
	return Star{}
}

func (a *App) FreeVars() []string {
	return mergeVars(a.Func.FreeVars(), a.Arg.FreeVars())
}

func (a *App) Substitute(sub Substitution) TypeNode {
	return &App{Func: a.Func.Substitute(sub), Arg: a.Arg.Substitute(sub)}
}

// AssocTy is a saturated associated-type application; arity is fixed at
// the owning trait's declaration.
type AssocTy struct {
	Trait string // name of the trait that declares Name
	Name  string // associated type name
	Args  []TypeNode
	K     Kind
}

func (t *AssocTy) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(parts, ", "))
}

func (t *AssocTy) Kind() Kind { return t.K }

func (t *AssocTy) FreeVars() []string {
	var vars []string
	for _, a := range t.Args {
		vars = mergeVars(vars, a.FreeVars())
	}
	return vars
}

func (t *AssocTy) Substitute(sub Substitution) TypeNode {
	args := make([]TypeNode, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Substitute(sub)
	}
	return &AssocTy{Trait: t.Trait, Name: t.Name, Args: args, K: t.K}
}

func mergeVars(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Arrow builds the function type `dom -> cod` as nested applications of
// the builtin `->` constructor, so arrow types need no dedicated variant
// and unify through the ordinary App rule.
func Arrow(dom, cod TypeNode) TypeNode {
	arrowCon := &Con{Name: "->", K: KArrow{From: Star{}, To: KArrow{From: Star{}, To: Star{}}}}
	return &App{Func: &App{Func: arrowCon, Arg: dom}, Arg: cod}
}

// AsArrow decomposes t into (domain, codomain) if it is an arrow type.
func AsArrow(t TypeNode) (dom, cod TypeNode, ok bool) {
	outerApp, ok := t.(*App)
	if !ok {
		return nil, nil, false
	}
	innerApp, ok := outerApp.Func.(*App)
	if !ok {
		return nil, nil, false
	}
	con, ok := innerApp.Func.(*Con)
	if !ok || con.Name != "->" {
		return nil, nil, false
	}
	return innerApp.Arg, outerApp.Arg, true
}
