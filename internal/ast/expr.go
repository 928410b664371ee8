package ast

// Expr is the closed set of expression forms the checker and instantiator
// operate on. Every subexpression carries an optional inferred Type
// (filled in by internal/checker) via the embedding TypedSlot.
type Expr interface {
	Node
	exprNode()
}

// TypedSlot is embedded by every Expr node to hold the type the checker
// assigns it. It is nil until type checking runs, and always non-nil and
// ground (no free type variables) once internal/instantiate has run on the
// enclosing symbol.
type TypedSlot struct {
	Type any // types.TypeNode; declared as any to avoid an import cycle
}

// LitKind distinguishes literal payloads. The literal's concrete Go value
// lives in Lit.Value; lowering it to a runtime representation is a hook
// left to an external collaborator (the evaluator), out of scope here.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitString
	LitUnit
)

// Var is a reference to a value; internal/resolver sets Resolved to the
// bare local name of the declaration it resolves to.
type Var struct {
	TypedSlot
	Name     string
	Resolved string
	Span     Span
}

func (*Var) exprNode()        {}
func (v *Var) Position() Span { return v.Span }

// Lit is a literal value.
type Lit struct {
	TypedSlot
	Kind  LitKind
	Value any
	Span  Span
}

func (*Lit) exprNode()        {}
func (l *Lit) Position() Span { return l.Span }

// App is function application `f(x1, ..., xn)`.
type App struct {
	TypedSlot
	Func Expr
	Args []Expr
	Span Span
}

func (*App) exprNode()        {}
func (a *App) Position() Span { return a.Span }

// Lambda is `|x1, ..., xn| body`.
type Lambda struct {
	TypedSlot
	Params []string
	Body   Expr
	Span   Span
}

func (*Lambda) exprNode()        {}
func (l *Lambda) Position() Span { return l.Span }

// Let is `let pat = bound; body`.
type Let struct {
	TypedSlot
	Pattern Pattern
	Bound   Expr
	Body    Expr
	Span    Span
}

func (*Let) exprNode()        {}
func (l *Let) Position() Span { return l.Span }

// If is a conditional.
type If struct {
	TypedSlot
	Cond Expr
	Then Expr
	Else Expr
	Span Span
}

func (*If) exprNode()        {}
func (i *If) Position() Span { return i.Span }

// MatchArm is one arm of a match expression: a pattern, an optional guard,
// and a body.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil if unguarded
	Body    Expr
	Span    Span
}

// Match dispatches on a scrutinee's union variant.
type Match struct {
	TypedSlot
	Scrutinee Expr
	Arms      []MatchArm
	Span      Span
}

func (*Match) exprNode()        {}
func (m *Match) Position() Span { return m.Span }

// TyAnno is an explicit type annotation `(e : τ)`.
type TyAnno struct {
	TypedSlot
	Expr Expr
	Type TypeExpr
	Span Span
}

func (*TyAnno) exprNode()        {}
func (t *TyAnno) Position() Span { return t.Span }

// FieldInit supplies one field's value inside a MakeStruct.
type FieldInit struct {
	Name  string
	Value Expr
	Span  Span
}

// MakeStruct constructs a struct value: `T { f1 = e1, ... }`.
type MakeStruct struct {
	TypedSlot
	TyCon  string
	Fields []FieldInit
	Span   Span
}

func (*MakeStruct) exprNode()        {}
func (m *MakeStruct) Position() Span { return m.Span }

// ArrayLit is an array literal `[e1, ..., en]`.
type ArrayLit struct {
	TypedSlot
	Elems []Expr
	Span  Span
}

func (*ArrayLit) exprNode()        {}
func (a *ArrayLit) Position() Span { return a.Span }

// FFICall calls into a foreign symbol; the declared return type is given
// explicitly since there is no signature to infer it from. Out-of-scope
// collaborators (the code generator) are responsible for actually emitting
// the call; here it only needs to type check.
type FFICall struct {
	TypedSlot
	Symbol  string
	Args    []Expr
	RetType TypeExpr
	Span    Span
}

func (*FFICall) exprNode()        {}
func (f *FFICall) Position() Span { return f.Span }

// Eval is `eval side main`: a sequenced side effect. `side` must check
// against `IO τ` for some τ (discarded); the result type is main's type.
type Eval struct {
	TypedSlot
	Side Expr
	Main Expr
	Span Span
}

func (*Eval) exprNode()        {}
func (e *Eval) Position() Span { return e.Span }
