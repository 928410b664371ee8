package ast

// TypeExpr is the surface syntax for a type, as it appears in a parsed
// module: an unresolved, un-kinded tree. The checker pipeline turns a
// TypeExpr into a kind-checked types.TypeNode via kindenv + tyenv alias
// resolution; TypeExpr itself never carries a kind.
type TypeExpr interface {
	Node
	typeExprNode()
}

// TyVarRef is a reference to a type variable, bound by an enclosing scheme,
// trait declaration, or type/alias parameter list.
type TyVarRef struct {
	Name string
	Span Span
}

func (*TyVarRef) typeExprNode()    {}
func (t *TyVarRef) Position() Span { return t.Span }

// TyConRef is a reference to a nullary type constructor (or an alias) by
// its possibly-unqualified surface name; the resolver fills in the
// resolved declaration's bare local name alongside.
type TyConRef struct {
	Name     string // surface (possibly short) name
	Resolved string // bare local name of the resolved declaration, set by the resolver
	Span     Span
}

func (*TyConRef) typeExprNode()    {}
func (t *TyConRef) Position() Span { return t.Span }

// TyApp applies one type to another: `f a`.
type TyApp struct {
	Func TypeExpr
	Arg  TypeExpr
	Span Span
}

func (*TyApp) typeExprNode()    {}
func (t *TyApp) Position() Span { return t.Span }

// AssocTyRef is a saturated associated-type application `Assoc(args...)`.
type AssocTyRef struct {
	Name     string
	Resolved string
	Args     []TypeExpr
	Span     Span
}

func (*AssocTyRef) typeExprNode()    {}
func (t *AssocTyRef) Position() Span { return t.Span }

// PredExpr is a class predicate `Trait ty` appearing in a qualifier list.
type PredExpr struct {
	Trait string
	Type  TypeExpr
	Span  Span
}

// EqExpr is a type equality `AssocTy(args) = value` appearing in a
// qualifier list.
type EqExpr struct {
	Assoc string
	Args  []TypeExpr
	Value TypeExpr
	Span  Span
}

// SchemeExpr is the surface syntax of a qualified, universally quantified
// type: `forall vars. preds, eqs => body`.
type SchemeExpr struct {
	Vars  []string
	Preds []PredExpr
	Eqs   []EqExpr
	Body  TypeExpr
	Span  Span
}

// TypeDefn declares a type constructor: a struct, a union, or an alias.
type TypeDefn struct {
	Name   string
	TyVars []string
	Value  TypeDeclValue
	Span   Span
}

func (t *TypeDefn) Position() Span { return t.Span }

// TypeDeclValue is the closed set of things a TypeDefn can define.
type TypeDeclValue interface {
	typeDeclValueNode()
}

// FieldDefn is one field of a struct, or one variant of a union (the
// variant's payload type, keyed by the variant name).
type FieldDefn struct {
	Name string
	Type TypeExpr
	Span Span
}

// StructDefn is `type T = struct { f1: T1, ... }` (optionally boxed).
type StructDefn struct {
	Boxed  bool
	Fields []FieldDefn
}

func (*StructDefn) typeDeclValueNode() {}

// UnionDefn is `type T = union { V1: T1, ... }`.
type UnionDefn struct {
	Variants []FieldDefn
}

func (*UnionDefn) typeDeclValueNode() {}

// AliasDefn is `type T = <body>`, recorded separately from concrete
// constructors so alias expansion can run before unification everywhere a
// type occurs.
type AliasDefn struct {
	Body TypeExpr
}

func (*AliasDefn) typeDeclValueNode() {}
