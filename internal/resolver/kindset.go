// Package resolver implements name resolution (spec.md §4.1): turning the
// ambiguous short names a parsed module spells out into the fully
// qualified names a universe of declarations actually assigns them, and
// rewriting every reference in the AST to carry the result.
package resolver

// KindSet is the set of entity kinds a short name may resolve to at a
// given reference site; a Var reference accepts only Value, a TyConRef
// only Type, and so on, narrowing the candidate search in Resolve.
type KindSet uint8

const (
	Value KindSet = 1 << iota
	Type
	Trait
	AssocType
)

// Has reports whether k includes kind.
func (k KindSet) Has(kind KindSet) bool { return k&kind != 0 }

// String renders a human-readable kind set for diagnostics.
func (k KindSet) String() string {
	var s string
	add := func(name string, kind KindSet) {
		if k.Has(kind) {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	add("Value", Value)
	add("Type", Type)
	add("Trait", Trait)
	add("AssocType", AssocType)
	if s == "" {
		return "none"
	}
	return s
}
