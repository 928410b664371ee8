package ast

// Pattern is the closed set of pattern forms: variable, struct, union.
// Every pattern carries an optional inferred type, filled in by
// internal/pattern.
type Pattern interface {
	Node
	patternNode()
}

// PatternTypedSlot mirrors TypedSlot for patterns.
type PatternTypedSlot struct {
	Type any // types.TypeNode
}

// VarPattern binds a name, with an optional type annotation that must
// unify with the pattern's expected type.
type VarPattern struct {
	PatternTypedSlot
	Name       string
	Annotation TypeExpr // nil if unannotated
	Span       Span
}

func (*VarPattern) patternNode()    {}
func (p *VarPattern) Position() Span { return p.Span }

// FieldPattern matches one named field of a struct pattern.
type FieldPattern struct {
	Name    string
	Pattern Pattern
	Span    Span
}

// StructPattern matches a struct value: `T { f1 = p1, ... }`. Missing
// fields are allowed (a partial pattern); extra or misspelled fields are
// errors, checked by internal/pattern against the struct's declared
// fields.
type StructPattern struct {
	PatternTypedSlot
	TyCon    string
	Resolved string
	Fields   []FieldPattern
	Span     Span
	ConSpan  Span // span of just the `T` constructor token
}

func (*StructPattern) patternNode()    {}
func (p *StructPattern) Position() Span { return p.Span }

// UnionPattern matches one variant of a union value: `V(q)`.
type UnionPattern struct {
	PatternTypedSlot
	Variant  string
	Resolved string
	Sub      Pattern
	Span     Span
	ConSpan  Span
}

func (*UnionPattern) patternNode()    {}
func (p *UnionPattern) Position() Span { return p.Span }
