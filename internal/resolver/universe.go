package resolver

import "github.com/sunholo/corelang/internal/names"

// Entry is one declared name visible somewhere in the universe: its full
// name, the module that declares it, and the kind(s) of entity it is.
type Entry struct {
	Name   names.FullName
	Kind   KindSet
	Module string // the module path the entry is declared in
}

// Universe is every declared FullName across every module the resolver
// knows about, indexed by local name for fast suffix-candidate lookup
// (spec.md §4.1's step 1 "collect every declared FullName ... of which s
// is a suffix").
type Universe struct {
	byLocal map[string][]Entry

	// variantOwner maps a union variant's absolute name to the bare local
	// name of the union type constructor that declares it, so pattern
	// matching can recover "which union is this variant a member of"
	// after resolving the variant itself as an ordinary value reference.
	variantOwner map[string]string
}

// NewUniverse constructs an empty Universe.
func NewUniverse() *Universe {
	return &Universe{byLocal: map[string][]Entry{}, variantOwner: map[string]string{}}
}

// DeclareVariant records that variant belongs to the union type tyCon,
// both given as absolute names. The owner is kept as tyCon's bare local
// name: internal/tyenv's TyCons table (what callers look the owner up
// in) is itself keyed by bare name, not by any module-qualified form.
func (u *Universe) DeclareVariant(variant, tyCon names.FullName) {
	u.variantOwner[variant.String()] = tyCon.Local
}

// OwnerOf returns the union type constructor's bare local name for a
// variant's absolute name, if known.
func (u *Universe) OwnerOf(variant names.FullName) (string, bool) {
	owner, ok := u.variantOwner[variant.String()]
	return owner, ok
}

// Declare registers one entry. Declaring the same (Name, Kind) twice is a
// no-op; declaring the same Name under a different Kind is legal (e.g. a
// struct's type constructor and its synthesized value-level constructor
// share a local name but differ in kind).
func (u *Universe) Declare(name names.FullName, kind KindSet, module string) {
	entries := u.byLocal[name.Local]
	for i, e := range entries {
		if e.Name.Equals(name) && e.Kind == kind {
			return
		}
		if e.Name.Equals(name) {
			entries[i].Kind |= kind
			return
		}
	}
	u.byLocal[name.Local] = append(entries, Entry{Name: name, Kind: kind, Module: module})
}

// candidates returns every entry whose local part matches short's local
// part, regardless of kind or visibility; Resolve narrows further.
func (u *Universe) candidates(local string) []Entry {
	return u.byLocal[local]
}
