// Package ast defines the parsed-module AST that the core consumes.
//
// Lexing and parsing happen upstream of this package; ast only models the
// shape of an already-parsed module: type/trait/instance declarations,
// global value declarations and definitions, imports, and exports. Every
// node carries a source Span so downstream diagnostics can point back at
// the program text.
package ast

import "fmt"

// Pos is a single source location.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open range in source code.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Column)
}

// Node is the base interface every AST node implements.
type Node interface {
	Position() Span
}

// Module is one parsed module: its own declarations plus the imports it
// draws on. A program is a collection of Modules fed to the pipeline.
type Module struct {
	Path      string
	Imports   []*ImportStatement
	Exports   []*ExportStatement
	Types     []*TypeDefn
	Traits    []*TraitDefn
	Instances []*InstanceDefn
	ValDecls  []*GlobalValueDecl
	ValDefns  []*GlobalValueDefn
	Span      Span
}

func (m *Module) Position() Span { return m.Span }

// ImportFilter is a node in the nested re-export filter tree that an
// import statement carries: an import names a source module and
// (optionally) a filter tree enumerating which names it re-exports.
// A nil filter imports everything from Source.
type ImportFilter struct {
	// Children maps a name visible at this level to the filter that
	// restricts what's visible through it (nil = import the name itself
	// with no further restriction, i.e. a leaf).
	Children map[string]*ImportFilter
}

// ImportStatement imports a module, optionally filtered.
type ImportStatement struct {
	Source string
	Filter *ImportFilter
	Span   Span
}

func (i *ImportStatement) Position() Span { return i.Span }

// ExportStatement exports a single value by its local name.
type ExportStatement struct {
	Name string
	Span Span
}

func (e *ExportStatement) Position() Span { return e.Span }
