package cache

import (
	"encoding/json"
	"fmt"

	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

// The wire* structs are the on-disk shape of an in-memory interface
// tree (types.Kind, types.TypeNode, typedast.Expr, typedast.Pattern):
// one struct per family, a Tag field discriminating the concrete
// variant, and every variant's fields made optional via omitempty so
// the JSON stays close to what a hand-written encoder for each case
// would produce.

type wireKind struct {
	Tag  string    `json:"tag"`
	From *wireKind `json:"from,omitempty"`
	To   *wireKind `json:"to,omitempty"`
}

func encodeKind(k types.Kind) *wireKind {
	switch n := k.(type) {
	case types.Star:
		return &wireKind{Tag: "Star"}
	case types.KArrow:
		return &wireKind{Tag: "KArrow", From: encodeKind(n.From), To: encodeKind(n.To)}
	default:
		panic(fmt.Sprintf("cache: unhandled kind %T", k))
	}
}

func decodeKind(w *wireKind) types.Kind {
	if w == nil {
		return types.Star{}
	}
	switch w.Tag {
	case "Star":
		return types.Star{}
	case "KArrow":
		return types.KArrow{From: decodeKind(w.From), To: decodeKind(w.To)}
	default:
		panic("cache: unknown kind tag " + w.Tag)
	}
}

type wireType struct {
	Tag   string      `json:"tag"`
	Name  string      `json:"name,omitempty"`
	K     *wireKind   `json:"k,omitempty"`
	Func  *wireType   `json:"func,omitempty"`
	Arg   *wireType   `json:"arg,omitempty"`
	Trait string      `json:"trait,omitempty"`
	Args  []*wireType `json:"args,omitempty"`
}

func encodeType(t types.TypeNode) *wireType {
	if t == nil {
		return nil
	}
	switch n := t.(type) {
	case *types.Var:
		return &wireType{Tag: "Var", Name: n.Name, K: encodeKind(n.K)}
	case *types.Con:
		return &wireType{Tag: "Con", Name: n.Name, K: encodeKind(n.K)}
	case *types.App:
		return &wireType{Tag: "App", Func: encodeType(n.Func), Arg: encodeType(n.Arg)}
	case *types.AssocTy:
		args := make([]*wireType, len(n.Args))
		for i, a := range n.Args {
			args[i] = encodeType(a)
		}
		return &wireType{Tag: "AssocTy", Trait: n.Trait, Name: n.Name, K: encodeKind(n.K), Args: args}
	default:
		panic(fmt.Sprintf("cache: unhandled type node %T", t))
	}
}

func decodeType(w *wireType) types.TypeNode {
	if w == nil {
		return nil
	}
	switch w.Tag {
	case "Var":
		return &types.Var{Name: w.Name, K: decodeKind(w.K)}
	case "Con":
		return &types.Con{Name: w.Name, K: decodeKind(w.K)}
	case "App":
		return &types.App{Func: decodeType(w.Func), Arg: decodeType(w.Arg)}
	case "AssocTy":
		args := make([]types.TypeNode, len(w.Args))
		for i, a := range w.Args {
			args[i] = decodeType(a)
		}
		return &types.AssocTy{Trait: w.Trait, Name: w.Name, Args: args, K: decodeKind(w.K)}
	default:
		panic("cache: unknown type tag " + w.Tag)
	}
}

type wireEq struct {
	Assoc string      `json:"assoc"`
	Args  []*wireType `json:"args,omitempty"`
	Value *wireType   `json:"value"`
}

func encodeEqs(eqs []types.Eq) []wireEq {
	if eqs == nil {
		return nil
	}
	out := make([]wireEq, len(eqs))
	for i, eq := range eqs {
		args := make([]*wireType, len(eq.Args))
		for j, a := range eq.Args {
			args[j] = encodeType(a)
		}
		out[i] = wireEq{Assoc: eq.Assoc, Args: args, Value: encodeType(eq.Value)}
	}
	return out
}

func decodeEqs(eqs []wireEq) []types.Eq {
	if eqs == nil {
		return nil
	}
	out := make([]types.Eq, len(eqs))
	for i, eq := range eqs {
		args := make([]types.TypeNode, len(eq.Args))
		for j, a := range eq.Args {
			args[j] = decodeType(a)
		}
		out[i] = types.Eq{Assoc: eq.Assoc, Args: args, Value: decodeType(eq.Value)}
	}
	return out
}

type wireNode struct {
	Span ast_Span  `json:"span"`
	Type *wireType `json:"type"`
	Eqs  []wireEq  `json:"eqs,omitempty"`
}

// ast_Span aliases typedast.Span (itself ast.Span) so this file doesn't
// need to import internal/ast directly.
type ast_Span = typedast.Span

func encodeNode(n typedast.Node) wireNode {
	return wireNode{Span: n.Span, Type: encodeType(n.Type), Eqs: encodeEqs(n.Eqs)}
}

func decodeNode(w wireNode) typedast.Node {
	return typedast.Node{Span: w.Span, Type: decodeType(w.Type), Eqs: decodeEqs(w.Eqs)}
}

type wirePattern struct {
	Tag     string         `json:"tag"`
	Name    string         `json:"name,omitempty"`
	Type    *wireType      `json:"type,omitempty"`
	TyCon   string         `json:"tycon,omitempty"`
	Fields  []wireFieldPat `json:"fields,omitempty"`
	Variant string         `json:"variant,omitempty"`
	Sub     *wirePattern   `json:"sub,omitempty"`
}

type wireFieldPat struct {
	Name    string      `json:"name"`
	Pattern wirePattern `json:"pattern"`
}

func encodePattern(p typedast.Pattern) *wirePattern {
	if p == nil {
		return nil
	}
	switch n := p.(type) {
	case typedast.VarPattern:
		return &wirePattern{Tag: "Var", Name: n.Name, Type: encodeType(n.Type)}
	case typedast.StructPattern:
		fields := make([]wireFieldPat, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = wireFieldPat{Name: f.Name, Pattern: *encodePattern(f.Pattern)}
		}
		return &wirePattern{Tag: "Struct", TyCon: n.TyCon, Type: encodeType(n.Type), Fields: fields}
	case typedast.UnionPattern:
		return &wirePattern{Tag: "Union", Variant: n.Variant, Type: encodeType(n.Type), Sub: encodePattern(n.Sub)}
	default:
		panic(fmt.Sprintf("cache: unhandled pattern %T", p))
	}
}

func decodePattern(w *wirePattern) typedast.Pattern {
	if w == nil {
		return nil
	}
	switch w.Tag {
	case "Var":
		return typedast.VarPattern{Name: w.Name, Type: decodeType(w.Type)}
	case "Struct":
		fields := make([]typedast.FieldPattern, len(w.Fields))
		for i, f := range w.Fields {
			fields[i] = typedast.FieldPattern{Name: f.Name, Pattern: decodePattern(&f.Pattern)}
		}
		return typedast.StructPattern{TyCon: w.TyCon, Type: decodeType(w.Type), Fields: fields}
	case "Union":
		return typedast.UnionPattern{Variant: w.Variant, Type: decodeType(w.Type), Sub: decodePattern(w.Sub)}
	default:
		panic("cache: unknown pattern tag " + w.Tag)
	}
}

type wireExpr struct {
	Node wireNode `json:"node"`
	Tag  string   `json:"tag"`

	Name string `json:"name,omitempty"` // Var, Lambda param names join Params

	Value any `json:"value,omitempty"` // Lit

	Func *wireExpr   `json:"func,omitempty"` // App
	Args []*wireExpr `json:"args,omitempty"` // App

	Params     []string    `json:"params,omitempty"`     // Lambda
	ParamTypes []*wireType `json:"paramTypes,omitempty"` // Lambda
	Body       *wireExpr   `json:"body,omitempty"`       // Lambda, Let, TyAnno(unused)

	Scheme *wireScheme `json:"scheme,omitempty"` // Let
	Bound  *wireExpr   `json:"bound,omitempty"`  // Let

	Cond *wireExpr `json:"cond,omitempty"` // If
	Then *wireExpr `json:"then,omitempty"` // If
	Else *wireExpr `json:"else,omitempty"` // If

	Scrutinee  *wireExpr    `json:"scrutinee,omitempty"` // Match
	Arms       []wireArm    `json:"arms,omitempty"`      // Match
	Exhaustive bool         `json:"exhaustive,omitempty"`

	TyCon  string          `json:"tycon,omitempty"` // MakeStruct
	Fields []wireFieldInit `json:"fields,omitempty"`

	Expr *wireExpr `json:"expr,omitempty"` // TyAnno

	Side *wireExpr `json:"side,omitempty"` // SeqIO
	Main *wireExpr `json:"main,omitempty"`
}

type wireArm struct {
	Pattern *wirePattern `json:"pattern"`
	Guard   *wireExpr    `json:"guard,omitempty"`
	Body    *wireExpr    `json:"body"`
}

type wireFieldInit struct {
	Name  string    `json:"name"`
	Value *wireExpr `json:"value"`
}

type wireScheme struct {
	Vars  []string    `json:"vars,omitempty"`
	Preds []wirePred  `json:"preds,omitempty"`
	Eqs   []wireEq    `json:"eqs,omitempty"`
	Body  *wireType   `json:"body"`
}

type wirePred struct {
	Trait string    `json:"trait"`
	Type  *wireType `json:"type"`
}

func encodeScheme(s types.Scheme) *wireScheme {
	preds := make([]wirePred, len(s.Preds))
	for i, p := range s.Preds {
		preds[i] = wirePred{Trait: p.Trait, Type: encodeType(p.Type)}
	}
	return &wireScheme{Vars: s.Vars, Preds: preds, Eqs: encodeEqs(s.Eqs), Body: encodeType(s.Body)}
}

func decodeScheme(w *wireScheme) types.Scheme {
	if w == nil {
		return types.Scheme{}
	}
	preds := make([]types.Pred, len(w.Preds))
	for i, p := range w.Preds {
		preds[i] = types.Pred{Trait: p.Trait, Type: decodeType(p.Type)}
	}
	return types.Scheme{Vars: w.Vars, Preds: preds, Eqs: decodeEqs(w.Eqs), Body: decodeType(w.Body)}
}

func encodeExpr(e typedast.Expr) *wireExpr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case typedast.Var:
		return &wireExpr{Node: encodeNode(n.Node), Tag: "Var", Name: n.Name}
	case typedast.Lit:
		return &wireExpr{Node: encodeNode(n.Node), Tag: "Lit", Value: n.Value}
	case typedast.App:
		args := make([]*wireExpr, len(n.Args))
		for i, a := range n.Args {
			args[i] = encodeExpr(a)
		}
		return &wireExpr{Node: encodeNode(n.Node), Tag: "App", Func: encodeExpr(n.Func), Args: args}
	case typedast.Lambda:
		ptys := make([]*wireType, len(n.ParamTypes))
		for i, t := range n.ParamTypes {
			ptys[i] = encodeType(t)
		}
		return &wireExpr{Node: encodeNode(n.Node), Tag: "Lambda", Params: n.Params, ParamTypes: ptys, Body: encodeExpr(n.Body)}
	case typedast.Let:
		return &wireExpr{Node: encodeNode(n.Node), Tag: "Let", Name: n.Name, Scheme: encodeScheme(n.Scheme), Bound: encodeExpr(n.Bound), Body: encodeExpr(n.Body)}
	case typedast.If:
		return &wireExpr{Node: encodeNode(n.Node), Tag: "If", Cond: encodeExpr(n.Cond), Then: encodeExpr(n.Then), Else: encodeExpr(n.Else)}
	case typedast.Match:
		arms := make([]wireArm, len(n.Arms))
		for i, a := range n.Arms {
			arms[i] = wireArm{Pattern: encodePattern(a.Pattern), Guard: encodeExpr(a.Guard), Body: encodeExpr(a.Body)}
		}
		return &wireExpr{Node: encodeNode(n.Node), Tag: "Match", Scrutinee: encodeExpr(n.Scrutinee), Arms: arms, Exhaustive: n.Exhaustive}
	case typedast.MakeStruct:
		fields := make([]wireFieldInit, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = wireFieldInit{Name: f.Name, Value: encodeExpr(f.Value)}
		}
		return &wireExpr{Node: encodeNode(n.Node), Tag: "MakeStruct", TyCon: n.TyCon, Fields: fields}
	case typedast.TyAnno:
		return &wireExpr{Node: encodeNode(n.Node), Tag: "TyAnno", Expr: encodeExpr(n.Expr)}
	case typedast.SeqIO:
		return &wireExpr{Node: encodeNode(n.Node), Tag: "SeqIO", Side: encodeExpr(n.Side), Main: encodeExpr(n.Main)}
	default:
		panic(fmt.Sprintf("cache: unhandled typed expression %T", e))
	}
}

func decodeExpr(w *wireExpr) typedast.Expr {
	if w == nil {
		return nil
	}
	node := decodeNode(w.Node)
	switch w.Tag {
	case "Var":
		return typedast.Var{Node: node, Name: w.Name}
	case "Lit":
		return typedast.Lit{Node: node, Value: w.Value}
	case "App":
		args := make([]typedast.Expr, len(w.Args))
		for i, a := range w.Args {
			args[i] = decodeExpr(a)
		}
		return typedast.App{Node: node, Func: decodeExpr(w.Func), Args: args}
	case "Lambda":
		ptys := make([]types.TypeNode, len(w.ParamTypes))
		for i, t := range w.ParamTypes {
			ptys[i] = decodeType(t)
		}
		return typedast.Lambda{Node: node, Params: w.Params, ParamTypes: ptys, Body: decodeExpr(w.Body)}
	case "Let":
		return typedast.Let{Node: node, Name: w.Name, Scheme: decodeScheme(w.Scheme), Bound: decodeExpr(w.Bound), Body: decodeExpr(w.Body)}
	case "If":
		return typedast.If{Node: node, Cond: decodeExpr(w.Cond), Then: decodeExpr(w.Then), Else: decodeExpr(w.Else)}
	case "Match":
		arms := make([]typedast.MatchArm, len(w.Arms))
		for i, a := range w.Arms {
			arms[i] = typedast.MatchArm{Pattern: decodePattern(a.Pattern), Guard: decodeExpr(a.Guard), Body: decodeExpr(a.Body)}
		}
		return typedast.Match{Node: node, Scrutinee: decodeExpr(w.Scrutinee), Arms: arms, Exhaustive: w.Exhaustive}
	case "MakeStruct":
		fields := make([]typedast.FieldInit, len(w.Fields))
		for i, f := range w.Fields {
			fields[i] = typedast.FieldInit{Name: f.Name, Value: decodeExpr(f.Value)}
		}
		return typedast.MakeStruct{Node: node, TyCon: w.TyCon, Fields: fields}
	case "TyAnno":
		return typedast.TyAnno{Node: node, Expr: decodeExpr(w.Expr)}
	case "SeqIO":
		return typedast.SeqIO{Node: node, Side: decodeExpr(w.Side), Main: decodeExpr(w.Main)}
	default:
		panic("cache: unknown expr tag " + w.Tag)
	}
}

func marshalExpr(e typedast.Expr) ([]byte, error) {
	return json.Marshal(encodeExpr(e))
}

func unmarshalExpr(data []byte) (typedast.Expr, error) {
	var w wireExpr
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return decodeExpr(&w), nil
}
