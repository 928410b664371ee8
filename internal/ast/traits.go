package ast

// TraitDefn declares a trait (type class): its parameter, its method
// signatures, and any associated types it introduces.
type TraitDefn struct {
	Name       string
	TyVar      string
	Methods    []MethodSig
	AssocTypes []AssocTypeSig
	Span       Span
}

func (t *TraitDefn) Position() Span { return t.Span }

// MethodSig is one method signature inside a trait declaration.
type MethodSig struct {
	Name   string
	Scheme *SchemeExpr
	Span   Span
}

// AssocTypeSig declares an associated type with a fixed arity.
type AssocTypeSig struct {
	Name  string
	Arity int
	Span  Span
}

// InstanceDefn is `impl <qualifiers> <Head> : <Trait> { methods... }`.
type InstanceDefn struct {
	Trait        string
	Head         TypeExpr
	Qualifiers   []Qualifier
	Methods      map[string]Expr
	AssocImpls   map[string]*AssocTypeImpl
	DefineModule string
	Span         Span
	HeaderSpan   Span // span of just the `impl ... : Trait` header, for diagnostics
}

func (i *InstanceDefn) Position() Span { return i.Span }

// Qualifier is either a predicate or an equality constraint on an instance.
type Qualifier struct {
	Pred *PredExpr
	Eq   *EqExpr
}

// AssocTypeImpl supplies the value of one associated type inside an
// instance.
type AssocTypeImpl struct {
	Name  string
	Args  []TypeExpr
	Value TypeExpr
	Span  Span
}

// GlobalValueDecl is a standalone type signature: `name : scheme;`.
type GlobalValueDecl struct {
	Name   string
	Scheme *SchemeExpr
	Span   Span
}

func (g *GlobalValueDecl) Position() Span { return g.Span }

// GlobalValueDefn is a standalone definition: `name = expr;`.
type GlobalValueDefn struct {
	Name string
	Body Expr
	Span Span
}

func (g *GlobalValueDefn) Position() Span { return g.Span }
