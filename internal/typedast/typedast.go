// Package typedast is the type checker's output representation: every
// surface expression mirrored one-for-one with its inferred
// types.TypeNode attached, for use by the instantiator and pattern
// engine (spec.md §4.3).
//
// The node set mirrors the teacher's internal/typedast (TypedVar,
// TypedApp, TypedLambda, TypedLet, TypedIf, TypedMatch), generalized
// from the teacher's interface{}-typed Type/EffectRow placeholders to
// concrete types.TypeNode/[]types.Eq, and extended with MakeStruct,
// TyAnno, and SeqIO (the renamed Eval(side, main) form).
package typedast

import (
	"fmt"
	"strings"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/types"
)

// Node is the common shape every typed expression carries: its source
// span, its inferred monomorphic type, and any residual equalities
// discharged along the way.
type Node struct {
	Span Span
	Type types.TypeNode
	Eqs  []types.Eq
}

// Span is a thin copy of ast.Span to avoid importing ast into every call
// site that only needs position info; constructed via FromAST.
type Span = ast.Span

func FromAST(s ast.Span) Span { return s }

// Expr is the interface satisfied by every typed expression node.
type Expr interface {
	fmt.Stringer
	GetNode() Node
	exprNode()
}

func (n Node) GetNode() Node { return n }

type Var struct {
	Node
	Name string
}

func (Var) exprNode() {}
func (v Var) String() string { return fmt.Sprintf("%s : %s", v.Name, v.Type) }

type Lit struct {
	Node
	Value any
}

func (Lit) exprNode() {}
func (l Lit) String() string { return fmt.Sprintf("%v : %s", l.Value, l.Type) }

type App struct {
	Node
	Func Expr
	Args []Expr
}

func (App) exprNode() {}
func (a App) String() string { return fmt.Sprintf("%s(...) : %s", a.Func, a.Type) }

type Lambda struct {
	Node
	Params     []string
	ParamTypes []types.TypeNode
	Body       Expr
}

func (Lambda) exprNode() {}
func (l Lambda) String() string {
	return fmt.Sprintf("λ%v. %s : %s", l.Params, l.Body, l.Type)
}

type Let struct {
	Node
	Name   string
	Scheme types.Scheme
	Bound  Expr
	Body   Expr
}

func (Let) exprNode() {}
func (l Let) String() string {
	return fmt.Sprintf("let %s : %s = %s in %s", l.Name, types.SchemeString(l.Scheme), l.Bound, l.Body)
}

type If struct {
	Node
	Cond, Then, Else Expr
}

func (If) exprNode() {}
func (i If) String() string {
	return fmt.Sprintf("if %s then %s else %s : %s", i.Cond, i.Then, i.Else, i.Type)
}

type MatchArm struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
}

type Match struct {
	Node
	Scrutinee  Expr
	Arms       []MatchArm
	Exhaustive bool
}

func (Match) exprNode() {}
func (m Match) String() string { return fmt.Sprintf("match %s { ... } : %s", m.Scrutinee, m.Type) }

type FieldInit struct {
	Name  string
	Value Expr
}

type MakeStruct struct {
	Node
	TyCon  string
	Fields []FieldInit
}

func (MakeStruct) exprNode() {}
func (m MakeStruct) String() string { return fmt.Sprintf("%s{...} : %s", m.TyCon, m.Type) }

type TyAnno struct {
	Node
	Expr Expr
}

func (TyAnno) exprNode() {}
func (t TyAnno) String() string { return fmt.Sprintf("(%s : %s)", t.Expr, t.Type) }

// SeqIO is the typed form of the surface `eval side main` construct
// (spec.md's "Eval"): Side must have checked against `IO τ` for some τ
// and its result is discarded; the expression's type is Main's.
type SeqIO struct {
	Node
	Side Expr
	Main Expr
}

func (SeqIO) exprNode() {}
func (s SeqIO) String() string { return fmt.Sprintf("eval %s %s : %s", s.Side, s.Main, s.Type) }

// Pattern is the interface satisfied by every typed pattern node.
type Pattern interface {
	fmt.Stringer
	patternNode()
}

type VarPattern struct {
	Name string
	Type types.TypeNode
}

func (VarPattern) patternNode()   {}
func (p VarPattern) String() string { return p.Name }

type FieldPattern struct {
	Name    string
	Pattern Pattern
}

type StructPattern struct {
	TyCon  string
	Type   types.TypeNode
	Fields []FieldPattern
}

func (StructPattern) patternNode() {}
func (p StructPattern) String() string {
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Pattern)
	}
	return fmt.Sprintf("%s{%s}", p.TyCon, strings.Join(parts, ", "))
}

type UnionPattern struct {
	Variant string
	Type    types.TypeNode
	Sub     Pattern
}

func (UnionPattern) patternNode() {}
func (p UnionPattern) String() string { return fmt.Sprintf("%s(%s)", p.Variant, p.Sub) }

// Program is the fully typed output of checking a set of global value
// definitions.
type Program struct {
	Globals map[string]Expr
}

func (p *Program) String() string {
	var b strings.Builder
	for name, e := range p.Globals {
		fmt.Fprintf(&b, "%s = %s\n", name, e)
	}
	return b.String()
}
